package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// CreateSchema creates the observation table and its timestamp index when
// they do not exist.  Production tables are provisioned outside the
// service; this is used for local development and tests.  The timestamp
// column is text so client values are stored exactly as received.
func CreateSchema(ctx context.Context, db *sql.DB, driver, table string) error {
	d, err := DialectFor(driver)
	if err != nil {
		return err
	}
	for _, stmt := range schemaStatements(d, table) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

func schemaStatements(d Dialect, table string) []string {
	var idCol string
	switch d.Name {
	case "mysql":
		idCol = "id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY"
	case "postgres":
		idCol = "id BIGSERIAL PRIMARY KEY"
	default:
		idCol = "id INTEGER PRIMARY KEY AUTOINCREMENT"
	}
	q := d.Quote
	cols := []string{
		idCol,
		q("status") + " VARCHAR(100) NOT NULL",
		q("moment") + " VARCHAR(100) NOT NULL",
		q("activity") + " VARCHAR(255) NOT NULL DEFAULT ''",
		q("method") + " VARCHAR(100) NOT NULL",
		q("quality") + " VARCHAR(100) NOT NULL",
		q("evaluator") + " VARCHAR(100) NOT NULL",
		q("suggestion") + " VARCHAR(1000) NOT NULL DEFAULT ''",
		q("timestamp") + " VARCHAR(64) NOT NULL",
	}
	index := "idx_" + table + "_timestamp"
	create := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n    %s\n)", q(table), strings.Join(cols, ",\n    "))

	if d.Name == "mysql" {
		// MySQL has no CREATE INDEX IF NOT EXISTS; declare it inline.
		return []string{strings.TrimSuffix(create, "\n)") +
			fmt.Sprintf(",\n    INDEX %s (%s)\n)", q(index), q("timestamp"))}
	}
	return []string{
		create,
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)", q(index), q(table), q("timestamp")),
	}
}
