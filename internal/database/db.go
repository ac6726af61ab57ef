package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/iliyamo/handwash-service/internal/config"
)

// Open builds the connection pool for the configured driver.  It does not
// contact the server; call Ping for that.  The pool is bounded by
// MaxOpenConns and callers wait for a free connection beyond it.
func Open(cfg config.DBConfig) (*sql.DB, error) {
	driver, dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxOpenConns)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// Ping verifies the pool can reach the server within the connect timeout.
func Ping(db *sql.DB, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return db.PingContext(ctx)
}

// DSN returns the database/sql driver name and data source name for cfg.
func DSN(cfg config.DBConfig) (driver, dsn string, err error) {
	switch cfg.Driver {
	case config.DriverMySQL:
		return "mysql", mysqlDSN(cfg), nil
	case config.DriverPostgres:
		return "postgres", postgresDSN(cfg), nil
	case config.DriverSQLite:
		return "sqlite", sqliteDSN(cfg), nil
	}
	return "", "", fmt.Errorf("unsupported driver %q", cfg.Driver)
}

// parseTime=false keeps the timestamp column a plain string | loc=UTC keeps server times consistent
func mysqlDSN(cfg config.DBConfig) string {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, cfg.Port)
	mc.DBName = cfg.Name
	mc.Loc = time.UTC
	mc.Timeout = cfg.ConnectTimeout
	mc.Params = map[string]string{"charset": "utf8mb4"}
	if cfg.SSL {
		mc.TLSConfig = "true"
	}
	return mc.FormatDSN()
}

func postgresDSN(cfg config.DBConfig) string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(cfg.Host, cfg.Port),
		Path:   "/" + cfg.Name,
	}
	if cfg.Password != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	} else {
		u.User = url.User(cfg.User)
	}
	q := url.Values{}
	if cfg.SSL {
		q.Set("sslmode", "require")
	} else {
		q.Set("sslmode", "disable")
	}
	if secs := int(cfg.ConnectTimeout / time.Second); secs > 0 {
		q.Set("connect_timeout", strconv.Itoa(secs))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func sqliteDSN(cfg config.DBConfig) string {
	ms := cfg.ConnectTimeout.Milliseconds()
	if ms <= 0 {
		ms = 10000
	}
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)", cfg.Path, ms)
}
