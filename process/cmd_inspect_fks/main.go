package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"budgettracker/process/schema"

	"github.com/joho/godotenv"
)

func main() {
	table := flag.String("table", "", "only show foreign keys declared on this table")
	requireCascade := flag.Bool("require-cascade", false, "exit non-zero if budgets does not cascade from users")
	flag.Parse()

	_ = godotenv.Load()
	db, err := schema.Open(os.Getenv("DB_DSN"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	fks, err := schema.ForeignKeys(context.Background(), db, *table)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("Foreign keys:")
	cascading := false
	for _, fk := range fks {
		fmt.Printf("- %s: %s(%s) -> %s(%s)\n    def: %s\n", fk.Name, fk.Table, fk.Columns, fk.ReferencedTable, fk.RefColumns, fk.Definition)
		if fk.Table == "budgets" && fk.ReferencedTable == "users" && fk.Cascades() {
			cascading = true
		}
	}
	if *requireCascade && !cascading {
		fmt.Fprintln(os.Stderr, "budgets.user_id does not cascade on user delete")
		os.Exit(1)
	}
}
