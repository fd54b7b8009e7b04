package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig
	Redis  RedisConfig
	DB     DBConfig
	Auth   AuthConfig
	Ingest IngestConfig
}

type ServerConfig struct {
	Port         string
	AllowOrigins []string
	RateLimit    string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type AuthConfig struct {
	JwtSecret    string
	DevTokenMint bool
}

type IngestConfig struct {
	BatchSize      int
	DedupeFailOpen bool
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	batchSize, _ := strconv.Atoi(getEnv("INGEST_BATCH_SIZE", "1000"))

	return Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			AllowOrigins: []string{getEnv("CORS_ALLOW_ORIGIN", "*")},
			RateLimit:    getEnv("RATE_LIMIT", "120-M"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "xcelbot"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Auth: AuthConfig{
			JwtSecret:    getEnv("JWT_SECRET", ""),
			DevTokenMint: getEnv("DEV_TOKEN_MINT", "") == "1",
		},
		Ingest: IngestConfig{
			BatchSize:      batchSize,
			DedupeFailOpen: getEnv("DEDUPE_FAIL_OPEN", "true") != "false",
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
