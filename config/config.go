package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string

	// Storage backend: "file" (default, single JSON file) or "postgres".
	StorageBackend string
	StorageFile    string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Empty disables the registration.created publisher.
	RabbitURL string

	AdminUsername string
	AdminPassword string

	// Simulated confirmation latency before a submission is acknowledged.
	ConfirmationDelay time.Duration
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:     getEnv("SERVER_PORT", "8083"),
		StorageBackend: getEnv("STORAGE_BACKEND", "file"),
		StorageFile:    getEnv("STORAGE_FILE", "registrations.json"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", "postgres"),
		DBName:         getEnv("DB_NAME", "registrations"),
		RabbitURL:      strings.TrimSpace(os.Getenv("RABBIT_URL")),
		AdminUsername:  getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:  getEnv("ADMIN_PASSWORD", "admin123"),
	}

	if raw := os.Getenv("CONFIRMATION_DELAY"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			log.Printf("[Config] invalid CONFIRMATION_DELAY %q, using 0: %v", raw, err)
		} else {
			cfg.ConfirmationDelay = d
		}
	}

	return cfg
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
