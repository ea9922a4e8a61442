package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr       string
	DBDSN          string
	JWTSecret      string
	RedisAddr      string
	Environment    string
	LogLevel       string
	MigrationsPath string
	CORSOrigins    string
}

// Load reads configuration from .env (when present) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		HTTPAddr:       os.Getenv("HTTP_ADDR"),
		DBDSN:          os.Getenv("DB_DSN"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		Environment:    os.Getenv("ENV"),
		LogLevel:       os.Getenv("LOG_LEVEL"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		CORSOrigins:    os.Getenv("CORS_ORIGINS"),
	}

	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "migrations"
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}
	// RedisAddr is optional: without it booking events are dropped.

	return cfg, nil
}
