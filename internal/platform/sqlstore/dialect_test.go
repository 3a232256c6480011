package sqlstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDialect(t *testing.T) {
	for _, name := range []string{"sqlite", "SQLite3"} {
		d, err := ParseDialect(name)
		require.NoError(t, err)
		assert.Equal(t, DialectSQLite, d)
	}
	for _, name := range []string{"postgres", "postgresql", "pgx"} {
		d, err := ParseDialect(name)
		require.NoError(t, err)
		assert.Equal(t, DialectPostgres, d)
	}
	_, err := ParseDialect("mysql")
	assert.Error(t, err)
}

func TestRebind(t *testing.T) {
	q := `INSERT INTO t (a, b, c) VALUES ($1, $2, $10) -- cost $`

	assert.Equal(t, `INSERT INTO t (a, b, c) VALUES (?, ?, ?) -- cost $`, DialectSQLite.rebind(q))
	assert.Equal(t, q, DialectPostgres.rebind(q))
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "vocab.db?_foreign_keys=on", DialectSQLite.dsn("vocab.db"))
	assert.Equal(t, "file:v.db?cache=shared&_foreign_keys=on", DialectSQLite.dsn("file:v.db?cache=shared"))
	assert.Equal(t, "v.db?_fk=1", DialectSQLite.dsn("v.db?_fk=1"))
	assert.Equal(t, "postgres://h/db", DialectPostgres.dsn("postgres://h/db"))
	assert.Equal(t, "pgx", DialectPostgres.driverName())
	assert.Equal(t, "sqlite3", DialectSQLite.driverName())
}
