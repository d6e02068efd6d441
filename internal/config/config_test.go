package config_test

import (
	"os"
	"testing"
	"time"

	"taskflow/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unset clears keys for the duration of the test.
func unset(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad_Defaults(t *testing.T) {
	// Arrange
	unset(t,
		"PORT", "API_PREFIX", "STORE_DRIVER", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
		"MONGODB_URI", "MONGODB_DATABASE", "REDIS_URL", "COUNTS_CACHE_TTL", "EMAIL_DELAY",
		"CORS_ORIGINS", "LOG_LEVEL", "LOG_FORMAT",
	)

	// Act
	cfg := config.Load()

	// Assert
	assert.Equal(t, "5000", cfg.ServerPort)
	assert.Equal(t, "", cfg.APIPrefix)
	assert.Equal(t, config.StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "taskmanager", cfg.MongoDatabase)
	assert.Equal(t, "", cfg.RedisURL)
	assert.Equal(t, 5*time.Second, cfg.CountsCacheTTL)
	assert.Equal(t, time.Second, cfg.EmailDelay)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_FromEnvironment(t *testing.T) {
	// Arrange
	t.Setenv("PORT", "8081")
	t.Setenv("API_PREFIX", "/api/")
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("COUNTS_CACHE_TTL", "30s")
	t.Setenv("EMAIL_DELAY", "0")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, http://127.0.0.1:3000")

	// Act
	cfg := config.Load()

	// Assert
	assert.Equal(t, "8081", cfg.ServerPort)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, config.StoreDriverMemory, cfg.StoreDriver)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 30*time.Second, cfg.CountsCacheTTL)
	assert.Equal(t, time.Duration(0), cfg.EmailDelay)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.CORSOrigins)
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("EMAIL_DELAY", "soon")
	t.Setenv("COUNTS_CACHE_TTL", "-5s")

	cfg := config.Load()

	assert.Equal(t, time.Second, cfg.EmailDelay)
	assert.Equal(t, 5*time.Second, cfg.CountsCacheTTL)
}

func TestConfig_DSN(t *testing.T) {
	cfg := &config.Config{DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "tasks"}

	assert.Equal(t, "host=db port=5432 user=u password=p dbname=tasks sslmode=disable", cfg.DSN())
}

func TestConfig_NewLogger(t *testing.T) {
	cfg := &config.Config{LogLevel: "debug", LogFormat: "json"}
	logger := cfg.NewLogger()
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	cfg = &config.Config{LogLevel: "loud", LogFormat: "text"}
	logger = cfg.NewLogger()
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}
