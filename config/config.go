package config

import (
	"context"
	"log"
	"os"

	"equilibrio-api/storage"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	Environment       string
	RedisURL          string
	SQLitePath        string
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	MongoURI          string
	JWTSecret         string
	AdminPasswordHash string
}

// LoadConfig loads environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Port:              getEnv("PORT", "8080"),
		Environment:       getEnv("ENVIRONMENT", "development"),
		RedisURL:          getEnv("REDIS_URL", ""),
		SQLitePath:        getEnv("SQLITE_PATH", "equilibrio.db"),
		DBHost:            getEnv("DB_HOST", ""),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", ""),
		DBName:            getEnv("DB_NAME", "equilibrio"),
		MongoURI:          getEnv("MONGODB_URI", ""),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
	}

	return config, nil
}

// OpenStore selects and opens the configured persistence backend: Postgres
// when DB_HOST is set, Mongo when MONGODB_URI is set, SQLite otherwise.
func OpenStore(ctx context.Context, cfg *Config) (storage.Store, error) {
	switch {
	case cfg.DBHost != "":
		log.Printf("Using Postgres store at %s:%s/%s", cfg.DBHost, cfg.DBPort, cfg.DBName)
		return storage.NewPostgresStore(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
	case cfg.MongoURI != "":
		log.Printf("Using MongoDB store")
		return storage.NewMongoStore(ctx, cfg.MongoURI)
	default:
		log.Printf("Using SQLite store at %s", cfg.SQLitePath)
		return storage.NewSQLiteStore(cfg.SQLitePath)
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
