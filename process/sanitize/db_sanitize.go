// Package sanitize empties the application tables, for resetting a staging
// or demo database, and can reseed an administrator account afterwards.
package sanitize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"budgettracker/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultTables lists the app tables, children first.
const DefaultTables = "token_blacklist,budgets,users"

var nameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

type Options struct {
	Tables []string
	// DryRun only reports what would be emptied.
	DryRun bool
	// Yes confirms the destructive step when DryRun is off.
	Yes           bool
	Reseed        bool
	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

// ParseTables splits a comma-separated list, dropping names that are not
// plain identifiers. Skipped names are returned separately for reporting.
func ParseTables(csv string) (tables, skipped []string) {
	for _, p := range strings.Split(csv, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !nameRe.MatchString(p) {
			skipped = append(skipped, p)
			continue
		}
		tables = append(tables, p)
	}
	return tables, skipped
}

// Run empties the requested tables that exist. Progress goes to w.
func Run(ctx context.Context, db *gorm.DB, w io.Writer, opts Options) error {
	if opts.Reseed && (len(opts.AdminPassword) < 8 || len(opts.AdminPassword) > 72) {
		return errors.New("reseed needs an admin password of 8 characters to 72 bytes")
	}
	db = db.WithContext(ctx)

	var existing []string
	for _, t := range opts.Tables {
		if db.Migrator().HasTable(t) {
			existing = append(existing, t)
		} else {
			fmt.Fprintf(w, "info: table %s not found, skipping\n", t)
		}
	}
	if len(existing) == 0 {
		fmt.Fprintln(w, "no requested tables present in the database; nothing to do")
		return nil
	}

	fmt.Fprintln(w, "Tables considered for truncation:")
	for _, t := range existing {
		fmt.Fprintf(w, " - %s\n", t)
	}
	if opts.DryRun {
		fmt.Fprintln(w, "dry-run enabled; no changes will be made. Use --dry-run=false --yes to execute.")
		return nil
	}
	if !opts.Yes {
		fmt.Fprintln(w, "Destructive operation. Pass --yes to confirm execution. Aborting.")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := truncate(db.WithContext(ctx), existing); err != nil {
		return err
	}
	fmt.Fprintln(w, "Truncate completed.")

	if opts.Reseed {
		admin, err := reseedAdmin(db, opts)
		if err != nil {
			return fmt.Errorf("reseed failed: %w", err)
		}
		fmt.Fprintf(w, "reseeded admin user %s id=%d\n", admin.Username, admin.ID)
	}
	return nil
}

// truncate uses TRUNCATE on Postgres and falls back to DELETE elsewhere.
// Names were validated by ParseTables and are quoted as identifiers.
func truncate(db *gorm.DB, tables []string) error {
	quoted := make([]string, 0, len(tables))
	for _, t := range tables {
		quoted = append(quoted, fmt.Sprintf("\"%s\"", t))
	}
	if db.Dialector.Name() == "postgres" {
		stmt := fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(quoted, ", "))
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("truncate failed: %w", err)
		}
		return nil
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, q := range quoted {
			if err := tx.Exec("DELETE FROM " + q).Error; err != nil {
				return fmt.Errorf("delete from %s failed: %w", q, err)
			}
		}
		return nil
	})
}

func reseedAdmin(db *gorm.DB, opts Options) (models.User, error) {
	username := opts.AdminUsername
	if username == "" {
		username = "admin"
	}
	email := opts.AdminEmail
	if email == "" {
		email = "admin@example.com"
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash admin password: %w", err)
	}
	admin := models.User{Username: username, Email: email, HashedPassword: hashed, FirstName: "Administrator", IsActive: true}
	if err := db.Where("username = ?", username).FirstOrCreate(&admin).Error; err != nil {
		return models.User{}, fmt.Errorf("failed to create admin user: %w", err)
	}
	return admin, nil
}
