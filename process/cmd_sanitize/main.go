package main

import (
	"context"
	"flag"
	"log"
	"os"

	"budgettracker/pkg/database"
	"budgettracker/process/sanitize"

	"github.com/joho/godotenv"
)

func main() {
	var (
		dryRun        = flag.Bool("dry-run", true, "Don't perform destructive actions; show what would be done")
		yes           = flag.Bool("yes", false, "Confirm destructive action (required to actually truncate)")
		reseed        = flag.Bool("reseed", false, "After truncation, recreate the admin user")
		tables        = flag.String("tables", sanitize.DefaultTables, "Comma-separated list of tables to truncate")
		adminUsername = flag.String("admin-username", "admin", "username for the reseeded admin")
		adminEmail    = flag.String("admin-email", "admin@example.com", "email for the reseeded admin")
		adminPassword = flag.String("admin-password", "", "password for the reseeded admin (8 chars to 72 bytes)")
	)
	flag.Parse()

	_ = godotenv.Load()
	opts, err := database.OptionsFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	db, err := database.Open(opts)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer database.Close(db)

	names, skipped := sanitize.ParseTables(*tables)
	for _, s := range skipped {
		log.Printf("warning: skipping invalid table name '%s'", s)
	}
	err = sanitize.Run(context.Background(), db, os.Stdout, sanitize.Options{
		Tables:        names,
		DryRun:        *dryRun,
		Yes:           *yes,
		Reseed:        *reseed,
		AdminUsername: *adminUsername,
		AdminEmail:    *adminEmail,
		AdminPassword: *adminPassword,
	})
	if err != nil {
		log.Fatal(err)
	}
}
