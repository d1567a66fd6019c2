package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectFor(t *testing.T) {
	for in, want := range map[string]string{"sqlite": "sqlite", "SQLite3": "sqlite", "postgres": "postgres", "postgresql": "postgres"} {
		d, err := DialectFor(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, d.Name())
	}
	_, err := DialectFor("mysql")
	assert.Error(t, err)
}

func TestRebind(t *testing.T) {
	pg := postgresDialect{}
	tests := []struct{ in, want string }{
		{"SELECT * FROM users WHERE id = ?", "SELECT * FROM users WHERE id = $1"},
		{"UPDATE calls SET status = ?, notes = ? WHERE id = ?", "UPDATE calls SET status = $1, notes = $2 WHERE id = $3"},
		{"SELECT '?' AS q, name FROM t WHERE a = ?", "SELECT '?' AS q, name FROM t WHERE a = $1"},
		{`SELECT "odd?col" FROM t WHERE a = ?`, `SELECT "odd?col" FROM t WHERE a = $1`},
		{"SELECT 1", "SELECT 1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, pg.Rebind(tt.in))
	}
	assert.Equal(t, "SELECT ? ", sqliteDialect{}.Rebind("SELECT ? "))
}

func TestMonthBucketExpressions(t *testing.T) {
	assert.Equal(t, "strftime('%Y-%m', c.created_at)", sqliteDialect{}.MonthBucket("c.created_at"))
	assert.Equal(t, "to_char(c.created_at, 'YYYY-MM')", postgresDialect{}.MonthBucket("c.created_at"))
}

func TestNormalizeDSN(t *testing.T) {
	assert.Equal(t, "host=db user=crm dbname=crm sslmode=disable", NormalizeDSN(` "host=db   user=crm dbname=crm" `))
	assert.Equal(t, "host=db sslmode=require", NormalizeDSN("host=db sslmode=require"))
	assert.Equal(t, "postgres://u:p@h/db", NormalizeDSN("postgres://u:p@h/db"))
	assert.Equal(t, "", NormalizeDSN("  "))
}

func TestMaskDSN(t *testing.T) {
	masked := MaskDSN("postgres://crm:topsecret@db:5432/crm")
	assert.NotContains(t, masked, "topsecret")
	assert.True(t, strings.HasPrefix(masked, "postgres://crm:"))

	assert.Equal(t, "host=db password=*** dbname=crm", MaskDSN("host=db password=topsecret dbname=crm"))
	assert.Equal(t, "file:crm.db?_foreign_keys=on", MaskDSN("file:crm.db?_foreign_keys=on"))
}

func TestSplitStatements(t *testing.T) {
	got := splitStatements("CREATE TABLE a (id INT);\n\nCREATE INDEX i ON a(id);\n")
	assert.Equal(t, []string{"CREATE TABLE a (id INT)", "CREATE INDEX i ON a(id)"}, got)
}
