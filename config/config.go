package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/lib/pq"
	"github.com/warbler/web-go/utils"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port          string
	GinMode       string
	LogLevel      string
	DBDriver      string
	DatabaseURL   string
	SecretKey     string
	SecureCookies bool
	Storage       *StorageConfig
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		utils.LogInfo("No .env file loaded, using the process environment")
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		GinMode:       getEnv("GIN_MODE", "release"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DBDriver:      strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		DatabaseURL:   getEnv("DATABASE_URL", "postgresql:///warbler"),
		SecretKey:     os.Getenv("SECRET_KEY"),
		SecureCookies: os.Getenv("SECURE_COOKIES") == "true",
		Storage:       GetStorageConfig(),
	}

	if cfg.SecretKey == "" {
		utils.LogInfo("SECRET_KEY not set, falling back to the development key")
		cfg.SecretKey = "it's a secret"
	}

	return cfg
}

// PostgresDSN turns DATABASE_URL into a key/value DSN. URL forms such as
// postgresql:///warbler are expanded; key/value strings pass through.
func (c *Config) PostgresDSN() (string, error) {
	url := c.DatabaseURL
	if !strings.HasPrefix(url, "postgres://") && !strings.HasPrefix(url, "postgresql://") {
		return url, nil
	}
	return pq.ParseURL(url)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
