package schema

import (
	"context"
	"os"
	"testing"

	"budgettracker/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCascades(t *testing.T) {
	fk := ForeignKey{Definition: "FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE"}
	assert.True(t, fk.Cascades())
	fk.Definition = "FOREIGN KEY (user_id) REFERENCES users(id)"
	assert.False(t, fk.Cascades())
}

func TestOpenNeedsDSN(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}

func TestBudgetsCascadePostgres(t *testing.T) {
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	dsn := os.Getenv("DB_DSN")
	gdb, err := database.Open(database.Options{Driver: database.DriverPostgres, DSN: dsn})
	require.NoError(t, err)
	defer database.Close(gdb)
	require.NoError(t, database.Migrate(gdb))

	db, err := Open(dsn)
	require.NoError(t, err)
	defer db.Close()

	fks, err := ForeignKeys(context.Background(), db, "budgets")
	require.NoError(t, err)
	require.NotEmpty(t, fks)
	found := false
	for _, fk := range fks {
		if fk.ReferencedTable == "users" {
			found = true
			assert.Equal(t, "user_id", fk.Columns)
			assert.True(t, fk.Cascades())
		}
	}
	assert.True(t, found)
}
