package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
	StoreDriverMemory   = "memory"
)

type Config struct {
	ServerPort string
	APIPrefix  string

	StoreDriver string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	MongoURI      string
	MongoDatabase string

	RedisURL       string
	CountsCacheTTL time.Duration

	EmailDelay time.Duration

	CORSOrigins []string

	LogLevel  string
	LogFormat string
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}

	return &Config{
		ServerPort:     getEnv("PORT", "5000"),
		APIPrefix:      strings.TrimRight(getEnv("API_PREFIX", ""), "/"),
		StoreDriver:    strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "taskflow"),
		DBPassword:     getEnv("DB_PASSWORD", "taskflow"),
		DBName:         getEnv("DB_NAME", "taskmanager"),
		MongoURI:       getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:  getEnv("MONGODB_DATABASE", "taskmanager"),
		RedisURL:       getEnv("REDIS_URL", ""),
		CountsCacheTTL: getDuration("COUNTS_CACHE_TTL", 5*time.Second),
		EmailDelay:     getDuration("EMAIL_DELAY", time.Second),
		CORSOrigins:    getList("CORS_ORIGINS", []string{"*"}),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
	}
}

// DSN builds the postgres connection string.
func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" port=" + c.DBPort +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" sslmode=disable"
}

// NewLogger builds the application logger from LOG_LEVEL and LOG_FORMAT.
func (c *Config) NewLogger() *log.Logger {
	logger := log.New()
	if strings.EqualFold(c.LogFormat, "json") {
		logger.SetFormatter(&log.JSONFormatter{})
	} else {
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		logger.WithField("value", c.LogLevel).Warn("⚠️  Unknown LOG_LEVEL, using info")
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		log.WithField("key", key).Warnf("⚠️  Invalid duration %q, using %s", value, defaultVal)
		return defaultVal
	}
	return d
}

func getList(key string, defaultVal []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
