// Package repository contains data access logic separated from HTTP
// handlers.  Observations live in a single table whose name is chosen by
// configuration; the SQL is shared across MySQL, PostgreSQL and SQLite with
// a small Dialect covering placeholders and identifier quoting.
package repository

import "errors"

// ErrUnknownField is returned by GroupCounts when asked to group by a
// column that is not one of the categorical observation fields.  Handlers
// should never pass user input through to it.
var ErrUnknownField = errors.New("unknown group field")

// ErrUnsupportedDriver is returned when no Dialect exists for a driver name.
var ErrUnsupportedDriver = errors.New("unsupported driver")
