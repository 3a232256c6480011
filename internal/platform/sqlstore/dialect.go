package sqlstore

import (
	"fmt"
	"strings"
)

// Dialect names a supported SQL backend.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// ParseDialect accepts the storage driver names used in configuration.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "postgres", "postgresql", "pgx":
		return DialectPostgres, nil
	default:
		return "", fmt.Errorf("unsupported sql dialect %q", name)
	}
}

// driverName is the database/sql driver registered for the dialect.
func (d Dialect) driverName() string {
	if d == DialectPostgres {
		return "pgx"
	}
	return "sqlite3"
}

func (d Dialect) gooseDialect() string {
	if d == DialectPostgres {
		return "postgres"
	}
	return "sqlite3"
}

// dsn adjusts a user supplied data source name for the driver. SQLite needs
// foreign key enforcement switched on per connection.
func (d Dialect) dsn(raw string) string {
	if d != DialectSQLite {
		return raw
	}
	if strings.Contains(raw, "_foreign_keys=") || strings.Contains(raw, "_fk=") {
		return raw
	}
	sep := "?"
	if strings.Contains(raw, "?") {
		sep = "&"
	}
	return raw + sep + "_foreign_keys=on"
}

// rebind rewrites $N placeholders to ? for SQLite. Queries in this package
// use each placeholder once and in order.
func (d Dialect) rebind(query string) string {
	if d != DialectSQLite {
		return query
	}
	var b strings.Builder
	b.Grow(len(query))
	for i := 0; i < len(query); i++ {
		c := query[i]
		if c != '$' {
			b.WriteByte(c)
			continue
		}
		j := i + 1
		for j < len(query) && query[j] >= '0' && query[j] <= '9' {
			j++
		}
		if j == i+1 {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('?')
		i = j - 1
	}
	return b.String()
}
