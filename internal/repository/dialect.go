package repository

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect captures the SQL differences between the supported drivers.
type Dialect struct {
	Name string
}

// DialectFor returns the Dialect for a DB_DRIVER value.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "mysql", "postgres", "sqlite":
		return Dialect{Name: driver}, nil
	}
	return Dialect{}, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
}

// Quote wraps an identifier.  Column names such as timestamp are keywords
// in some engines, so every identifier is quoted.
func (d Dialect) Quote(ident string) string {
	if d.Name == "mysql" {
		return "`" + ident + "`"
	}
	return `"` + ident + `"`
}

// Rebind rewrites ? placeholders to $1, $2, ... for PostgreSQL.  Queries are
// written with ? everywhere else.
func (d Dialect) Rebind(q string) string {
	if d.Name != "postgres" {
		return q
	}
	var b strings.Builder
	n := 0
	for i := 0; i < len(q); i++ {
		if q[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(q[i])
	}
	return b.String()
}

// Returning reports whether INSERT must use RETURNING to learn the new id.
// lib/pq does not implement LastInsertId.
func (d Dialect) Returning() bool {
	return d.Name == "postgres"
}
