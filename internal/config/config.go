package config // package config loads application configuration from environment variables

import (
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"
)

// Supported values for DB_DRIVER.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Supported values for STATS_MODE.
const (
	StatsGrouped = "grouped"
	StatsRaw     = "raw" // deprecated: recent rows for client side aggregation
)

// MaxRecordsLimit caps RECORDS_LIMIT when a bound is configured.
const MaxRecordsLimit = 100

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable; see Load for names and defaults.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	DB DBConfig

	RecordsLimit int      // 0 = unbounded, else 1..MaxRecordsLimit
	StatsMode    string   // grouped or raw
	CORSOrigins  []string // allowed CORS origins
	BodyLimit    string   // echo body limit, e.g. "1M"
}

// DBConfig describes how to reach the observation table.
type DBConfig struct {
	Driver         string        // mysql, postgres or sqlite
	Host           string        // database host address
	Port           string        // database port number
	User           string        // database username
	Password       string        // database password (optional)
	Name           string        // database name
	SSL            bool          // require TLS to the server
	Path           string        // sqlite file path
	Table          string        // observation table name
	MaxOpenConns   int           // pool size, callers queue beyond it
	ConnectTimeout time.Duration // dial timeout
	AutoMigrate    bool          // create the table on startup
}

// Load reads configuration values from environment variables.  Connection
// parameters required by the selected driver must be present; everything
// else has a default.
func Load() (Config, error) {
	cfg := Config{
		Env:  envStr("APP_ENV", "dev"),
		Port: envStr("APP_PORT", envStr("PORT", "3000")),
		DB: DBConfig{
			Driver:         strings.ToLower(envStr("DB_DRIVER", DriverMySQL)),
			Host:           envStr("DB_HOST", ""),
			Port:           envStr("DB_PORT", ""),
			User:           envStr("DB_USER", ""),
			Password:       envStr("DB_PASSWORD", envStr("DB_PASS", "")),
			Name:           envStr("DB_NAME", ""),
			SSL:            envBool("DB_SSL", false),
			Path:           envStr("DB_PATH", "handwash.db"),
			Table:          envStr("DB_TABLE", "handwash"),
			MaxOpenConns:   envInt("DB_MAX_OPEN_CONNS", 10),
			ConnectTimeout: envDur("DB_CONNECT_TIMEOUT", 10*time.Second),
			AutoMigrate:    envBool("DB_AUTO_MIGRATE", false),
		},
		RecordsLimit: envInt("RECORDS_LIMIT", 0),
		StatsMode:    strings.ToLower(envStr("STATS_MODE", StatsGrouped)),
		CORSOrigins:  envList("CORS_ORIGINS", "*"),
		BodyLimit:    envStr("BODY_LIMIT", "1M"),
	}

	if cfg.DB.MaxOpenConns < 1 {
		cfg.DB.MaxOpenConns = 1
	}
	if cfg.RecordsLimit < 0 {
		cfg.RecordsLimit = 0
	}
	if cfg.RecordsLimit > MaxRecordsLimit {
		cfg.RecordsLimit = MaxRecordsLimit
	}
	if !identRe.MatchString(cfg.DB.Table) {
		return Config{}, fmt.Errorf("invalid DB_TABLE %q", cfg.DB.Table)
	}

	switch cfg.StatsMode {
	case StatsGrouped:
	case StatsRaw:
		log.Printf("STATS_MODE=raw is deprecated; /api/stats will return raw rows")
	default:
		return Config{}, fmt.Errorf("invalid STATS_MODE %q", cfg.StatsMode)
	}

	switch cfg.DB.Driver {
	case DriverMySQL, DriverPostgres:
		if cfg.DB.Port == "" {
			cfg.DB.Port = defaultPort(cfg.DB.Driver)
		}
		required := [][2]string{{"DB_HOST", cfg.DB.Host}, {"DB_USER", cfg.DB.User}, {"DB_NAME", cfg.DB.Name}}
		for _, kv := range required {
			if kv[1] == "" {
				return Config{}, fmt.Errorf("missing required env var: %s", kv[0])
			}
		}
	case DriverSQLite:
		if cfg.DB.Path == "" {
			return Config{}, fmt.Errorf("missing required env var: DB_PATH")
		}
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}
	return cfg, nil
}

func defaultPort(driver string) string {
	if driver == DriverPostgres {
		return "5432"
	}
	return "3306"
}
