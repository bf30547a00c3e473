// Package schema inspects the live Postgres catalog. It is used to check
// that the budgets foreign key really cascades after a migration.
package schema

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// ForeignKey is one constraint as reported by pg_constraint.
type ForeignKey struct {
	Name            string
	Table           string
	Columns         string
	ReferencedTable string
	RefColumns      string
	Definition      string
}

// Cascades reports whether deleting the referenced row deletes this one.
func (fk ForeignKey) Cascades() bool {
	return strings.Contains(strings.ToUpper(fk.Definition), "ON DELETE CASCADE")
}

// Open connects through pgx's database/sql driver.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("dsn is required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return db, nil
}

// ForeignKeys lists the foreign keys declared on table, or on every table
// when table is empty.
func ForeignKeys(ctx context.Context, db *sql.DB, table string) ([]ForeignKey, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT
		  con.conname AS constraint_name,
		  rel.relname AS table_name,
		  array_to_string(array_agg(att.attname ORDER BY u.ord), ',') AS src_columns,
		  confrel.relname AS referenced_table,
		  array_to_string(array_agg(att2.attname ORDER BY u.ord), ',') AS ref_columns,
		  pg_get_constraintdef(con.oid) AS definition
		FROM pg_constraint con
		JOIN pg_class rel ON rel.oid = con.conrelid
		JOIN pg_class confrel ON confrel.oid = con.confrelid
		JOIN unnest(con.conkey) WITH ORDINALITY AS u(attnum, ord) ON true
		JOIN pg_attribute att ON att.attrelid = con.conrelid AND att.attnum = u.attnum
		LEFT JOIN unnest(con.confkey) WITH ORDINALITY AS v(confkey, ord2) ON v.ord2 = u.ord
		LEFT JOIN pg_attribute att2 ON att2.attrelid = con.confrelid AND att2.attnum = v.confkey
		WHERE con.contype = 'f' AND ($1::text = '' OR rel.relname::text = $1::text)
		GROUP BY con.oid, con.conname, rel.relname, confrel.relname
		ORDER BY rel.relname, con.conname`, table)
	if err != nil {
		return nil, fmt.Errorf("query constraints: %w", err)
	}
	defer rows.Close()

	var out []ForeignKey
	for rows.Next() {
		var fk ForeignKey
		var src, ref sql.NullString
		if err := rows.Scan(&fk.Name, &fk.Table, &src, &fk.ReferencedTable, &ref, &fk.Definition); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		fk.Columns, fk.RefColumns = src.String, ref.String
		out = append(out, fk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}
