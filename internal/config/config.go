package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverJSON     = "json"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds server configuration
type Config struct {
	// Server
	Port       string
	Env        string
	CORSOrigin string

	// Storage
	StoreDriver string
	DataFile    string
	SQLitePath  string

	// Database (postgres driver)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration
}

// IsDevelopment reports whether internal error details may be exposed.
func (c *Config) IsDevelopment() bool {
	return c.Env == "" || c.Env == "development"
}

// Load loads server configuration from environment variables
func Load() (*Config, error) {
	loadDotEnv()

	config := &Config{
		// Server
		Port:       getEnv("PORT", "3001"),
		Env:        getEnv("ENV", "development"),
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),

		// Storage
		StoreDriver: getEnv("STORE_DRIVER", DriverJSON),
		DataFile:    getEnv("DATA_FILE", "data/database.json"),
		SQLitePath:  getEnv("SQLITE_PATH", "data/fintrack.db"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "fintrack"),
		DBPassword: getEnv("DB_PASSWORD", "fintrack"),
		DBName:     getEnv("DB_NAME", "fintrack"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
	}

	config.JWTExpirationDur = getDuration("JWT_EXPIRES_IN", 7*24*time.Hour)

	switch config.StoreDriver {
	case DriverJSON, DriverSQLite, DriverPostgres:
	default:
		log.Printf("Warning: unknown STORE_DRIVER '%s', falling back to %s\n", config.StoreDriver, DriverJSON)
		config.StoreDriver = DriverJSON
	}

	return config, nil
}

// ClientConfig holds configuration for the command-line client.
type ClientConfig struct {
	APIURL    string
	Timeout   time.Duration
	Retries   int
	CacheFile string
}

// LoadClient loads client configuration from environment variables
func LoadClient() (*ClientConfig, error) {
	loadDotEnv()

	cacheDefault := "fintrack-cache.json"
	if dir, err := os.UserConfigDir(); err == nil {
		cacheDefault = dir + "/fintrack/cache.json"
	}

	cfg := &ClientConfig{
		APIURL:    getEnv("FINTRACK_API_URL", "http://localhost:3001"),
		Timeout:   getDuration("FINTRACK_TIMEOUT", 10*time.Second),
		CacheFile: getEnv("FINTRACK_CACHE_FILE", cacheDefault),
	}

	retries, err := strconv.Atoi(getEnv("FINTRACK_RETRIES", "0"))
	if err != nil || retries < 0 {
		log.Printf("Warning: invalid FINTRACK_RETRIES value, falling back to 0\n")
		retries = 0
	}
	cfg.Retries = retries

	return cfg, nil
}

// loadDotEnv loads a .env file if present; missing files are not an error.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not read .env file: %v\n", err)
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration parses a duration variable, falling back to the default with a warning.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}
