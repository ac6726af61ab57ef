package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setMySQLEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_USER", "handwash")
	t.Setenv("DB_NAME", "handwash")
}

func TestLoadDefaults(t *testing.T) {
	setMySQLEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, DriverMySQL, cfg.DB.Driver)
	assert.Equal(t, "3306", cfg.DB.Port)
	assert.Equal(t, "handwash", cfg.DB.Table)
	assert.Equal(t, 10, cfg.DB.MaxOpenConns)
	assert.Equal(t, 10*time.Second, cfg.DB.ConnectTimeout)
	assert.Equal(t, 0, cfg.RecordsLimit)
	assert.Equal(t, StatsGrouped, cfg.StatsMode)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoadPortFallsBackToPORT(t *testing.T) {
	setMySQLEnv(t)
	t.Setenv("APP_PORT", "")
	t.Setenv("PORT", "8080")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoadMissingHost(t *testing.T) {
	setMySQLEnv(t)
	t.Setenv("DB_HOST", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_HOST")
}

func TestLoadPostgresDefaults(t *testing.T) {
	setMySQLEnv(t)
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_SSL", "true")
	t.Setenv("DB_PASS", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "5432", cfg.DB.Port)
	assert.True(t, cfg.DB.SSL)
	assert.Equal(t, "secret", cfg.DB.Password)
}

func TestLoadSQLiteNeedsNoHost(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_PATH", "/tmp/handwash.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/handwash.db", cfg.DB.Path)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"driver", "DB_DRIVER", "oracle"},
		{"table", "DB_TABLE", "handwash; DROP TABLE x"},
		{"stats mode", "STATS_MODE", "pie"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setMySQLEnv(t)
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLoadClampsRecordsLimit(t *testing.T) {
	setMySQLEnv(t)
	t.Setenv("RECORDS_LIMIT", "500")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, MaxRecordsLimit, cfg.RecordsLimit)

	t.Setenv("RECORDS_LIMIT", "-3")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.RecordsLimit)
}

func TestLoadCacheConfig(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "yes")
	t.Setenv("CACHE_METHODS", "get, head")
	t.Setenv("CACHE_TTL", "1m")

	cc := LoadCacheConfig()
	assert.True(t, cc.Enabled)
	assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, cc.Methods)
	assert.Equal(t, time.Minute, cc.TTL)
	assert.Equal(t, "handwash:cache", cc.Prefix)
}

func TestRedisOptions(t *testing.T) {
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_DB", "2")
	assert.Equal(t, "cache:6380", RedisOptions().Addr)
	assert.Equal(t, 2, RedisOptions().DB)

	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "6379")
	t.Setenv("REDIS_TLS", "1")
	opts := RedisOptions()
	assert.Equal(t, "redis:6379", opts.Addr)
	assert.NotNil(t, opts.TLSConfig)
}

func TestLoadEventsConfig(t *testing.T) {
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("AMQP_URL", "amqp://u:p@mq:5672/")

	ec := LoadEventsConfig()
	assert.False(t, ec.Enabled)
	assert.Equal(t, "amqp://u:p@mq:5672/", ec.URL)
	assert.Equal(t, "handwash.recorded", ec.Queue)
}
