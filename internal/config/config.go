package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	GatewayBaseURL string
	GatewayTimeout time.Duration
	CORSOrigins    []string
}

func LoadConfig() *Config {
	// Only load .env for local development; deployed environments
	// provide real environment variables.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Println("error loading .env file:", err)
		}
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		GatewayBaseURL: getEnv("GATEWAY_BASE_URL", "https://dummyjson.com"),
		GatewayTimeout: getDurationEnv("GATEWAY_TIMEOUT", 10*time.Second),
		CORSOrigins:    []string{getEnv("CORS_ORIGINS", "*")},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("invalid duration for %s: %q, using default %s", key, value, fallback)
		return fallback
	}
	return d
}
