package config

import (
	"os"
	"strconv"
)

// Config holds everything the messaging core reads from the environment.
// main loads .env via godotenv before calling Load.
type Config struct {
	Port string

	DatabaseDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// JWTSecret verifies bearer tokens issued by the platform's auth service.
	JWTSecret string
}

// Load reads configuration from environment variables with development
// defaults matching docker-compose.
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseDSN:   getEnv("DATABASE_DSN", "host=localhost user=user password=password dbname=newsdeskdb port=5432 sslmode=disable"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6380"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change-me"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
