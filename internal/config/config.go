package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config holds application configuration
type Config struct {
	// Server
	Env         string
	Port        string
	StaticDir   string
	CORSOrigins []string

	// Record store
	StoreBackend string
	DBPath       string
	SQLitePath   string

	// Postgres
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Auth
	AuthSecret       string
	JWTExpirationDur time.Duration

	// Seed user created when the dataset has no users
	SeedUsername     string
	SeedPassword     string
	SeedPasswordHash string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env:         getEnv("ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		StaticDir:   getEnv("STATIC_DIR", "./static"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),

		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", BackendFile)),
		DBPath:       getEnv("DB_PATH", "./db.json"),
		SQLitePath:   getEnv("SQLITE_PATH", "./haushaltsbuch.db"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "haushalt"),
		DBPassword: getEnv("DB_PASSWORD", "haushalt"),
		DBName:     getEnv("DB_NAME", "haushalt"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		AuthSecret: getEnv("AUTH_SECRET", "dev-secret-change-me"),

		SeedUsername:     getEnv("SEED_USERNAME", "thom7e"),
		SeedPassword:     getEnv("SEED_PASSWORD", "1lKaHuber#"),
		SeedPasswordHash: getEnv("SEED_PASSWORD_HASH", ""),
	}

	// Parse JWT expiration duration
	expStr := getEnv("JWT_EXPIRES_IN", "168h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil || expDur <= 0 {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 168h\n", expStr)
		expDur = 7 * 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	switch config.StoreBackend {
	case BackendFile, BackendSQLite, BackendPostgres:
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q (use file, sqlite or postgres)", config.StoreBackend)
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// PostgresURL returns the postgres connection URL used by golang-migrate.
func (c *Config) PostgresURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// PostgresDSN returns the key/value DSN used by the gorm postgres driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
