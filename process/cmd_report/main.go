package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"budgettracker/pkg/database"
	"budgettracker/process/report"

	"github.com/joho/godotenv"
)

func main() {
	username := flag.String("username", "", "username to report for")
	month := flag.String("month", time.Now().UTC().Format("2006-01"), "month to report (YYYY-MM)")
	list := flag.Bool("list", false, "list matching budgets")
	flag.Parse()
	if *username == "" {
		fmt.Fprintln(os.Stderr, "--username is required")
		os.Exit(2)
	}

	_ = godotenv.Load()
	opts, err := database.OptionsFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v; export DB_DSN and retry\n", err)
		os.Exit(2)
	}
	db, err := database.Open(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer database.Close(db)

	s, err := report.Monthly(context.Background(), db, *username, *month, *list)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	report.Print(os.Stdout, s)
}
