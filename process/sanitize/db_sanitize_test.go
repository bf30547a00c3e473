package sanitize

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"budgettracker/models"
	"budgettracker/pkg/database"
	"budgettracker/pkg/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func seededDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(database.Options{
		Driver:   database.DriverSQLite,
		DSN:      filepath.Join(t.TempDir(), "sanitize.db"),
		LogLevel: logger.Silent,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.Migrate(db))

	u := models.User{Username: "someone", Email: "someone@example.com", HashedPassword: []byte("x"), IsActive: true}
	require.NoError(t, db.Create(&u).Error)
	require.NoError(t, db.Create(&models.Budget{UserID: u.ID, Title: "B", Date: time.Now().UTC(), InitialAmount: money.Amount(100)}).Error)
	require.NoError(t, db.Create(&models.TokenBlacklist{Token: "t"}).Error)
	return db
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestParseTables(t *testing.T) {
	tables, skipped := ParseTables(" budgets, users;drop ,,token_blacklist ")
	assert.Equal(t, []string{"budgets", "token_blacklist"}, tables)
	assert.Equal(t, []string{"users;drop"}, skipped)
}

func TestRunDryRunAndUnconfirmed(t *testing.T) {
	db := seededDB(t)
	tables, _ := ParseTables(DefaultTables)

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), db, &out, Options{Tables: tables, DryRun: true}))
	assert.Contains(t, out.String(), "dry-run enabled")
	assert.EqualValues(t, 1, count(t, db, &models.Budget{}))

	out.Reset()
	require.NoError(t, Run(context.Background(), db, &out, Options{Tables: tables}))
	assert.Contains(t, out.String(), "Pass --yes")
	assert.EqualValues(t, 1, count(t, db, &models.User{}))
}

func TestRunTruncatesAndReseeds(t *testing.T) {
	db := seededDB(t)
	tables, _ := ParseTables(DefaultTables + ",missing_table")

	var out bytes.Buffer
	err := Run(context.Background(), db, &out, Options{
		Tables:        tables,
		Yes:           true,
		Reseed:        true,
		AdminPassword: "Str0ngAdminPass",
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "table missing_table not found")
	assert.Contains(t, out.String(), "Truncate completed.")

	assert.Zero(t, count(t, db, &models.Budget{}))
	assert.Zero(t, count(t, db, &models.TokenBlacklist{}))

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, "admin", users[0].Username)
	assert.True(t, users[0].IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword(users[0].HashedPassword, []byte("Str0ngAdminPass")))
}

func TestRunReseedNeedsPassword(t *testing.T) {
	db := seededDB(t)
	err := Run(context.Background(), db, &bytes.Buffer{}, Options{Tables: []string{"users"}, Yes: true, Reseed: true})
	require.Error(t, err)
	assert.EqualValues(t, 1, count(t, db, &models.User{}))

	err = Run(context.Background(), db, &bytes.Buffer{}, Options{
		Tables:        []string{"users"},
		Yes:           true,
		Reseed:        true,
		AdminPassword: strings.Repeat("Ab1!", 19),
	})
	require.Error(t, err)
	assert.EqualValues(t, 1, count(t, db, &models.User{}))
}
