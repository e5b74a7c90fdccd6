package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	t.Run("fills empty fields", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg)

		assert.Equal(t, "atelier-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "atelier", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 6379, cfg.Redis.Port)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, 5*time.Minute, cfg.Cache.StockSummaryTTL)
		assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		cfg := &Config{}
		cfg.App.Port = "9090"
		cfg.Database.MaxOpenConns = 50
		applyDefaults(cfg)

		assert.Equal(t, "9090", cfg.App.Port)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
	})
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	t.Run("accepts defaults in development", func(t *testing.T) {
		assert.NoError(t, base().validate())
	})

	t.Run("rejects idle conns above open conns", func(t *testing.T) {
		cfg := base()
		cfg.Database.MaxIdleConns = 100
		assert.Error(t, cfg.validate())
	})

	t.Run("production requires password and ssl", func(t *testing.T) {
		cfg := base()
		cfg.App.Env = "production"
		require.Error(t, cfg.validate())

		cfg.Database.Password = "secret"
		require.Error(t, cfg.validate())

		cfg.Database.SSLMode = "require"
		assert.NoError(t, cfg.validate())
	})

	t.Run("production rejects wildcard CORS origin", func(t *testing.T) {
		cfg := base()
		cfg.App.Env = "production"
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"
		cfg.HTTP.CORSAllowOrigins = []string{"*"}
		assert.Error(t, cfg.validate())
	})
}

func TestDatabaseDSN(t *testing.T) {
	t.Run("escapes credentials", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "db.internal",
			Port:     5432,
			User:     "atelier",
			Password: "p@ss/word",
			DBName:   "atelier",
			SSLMode:  "require",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "postgres://")
		assert.Contains(t, dsn, "db.internal:5432")
		assert.Contains(t, dsn, "sslmode=require")
		assert.NotContains(t, dsn, "p@ss/word")
	})
}

func TestRedisAddr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.internal", Port: 6380}
	assert.Equal(t, "cache.internal:6380", cfg.Addr())
}
