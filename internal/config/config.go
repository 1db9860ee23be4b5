package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DATABASE_URL   string
	STORAGE_URL    string
	STORAGE_KEY    string
	STORAGE_BUCKET string
	SERVER_PORT    string
	ALLOWED_ORIGIN string
	SESSION_SECRET string
	DATA_DIR       string
	UPLOAD_DIR     string
	KAFKA_ADDRESS  string
	KAFKA_TOPIC    string
	ES_URL         string
	ES_USER        string
	ES_PASSWORD    string
	ES_INDEX       string
	LOG_LEVEL      string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		DATABASE_URL:   os.Getenv("DATABASE_URL"),
		STORAGE_URL:    os.Getenv("STORAGE_URL"),
		STORAGE_KEY:    os.Getenv("STORAGE_KEY"),
		STORAGE_BUCKET: getenvDefault("STORAGE_BUCKET", "products"),
		SERVER_PORT:    getenvDefault("SERVER_PORT", "8080"),
		ALLOWED_ORIGIN: os.Getenv("ALLOWED_ORIGIN"),
		SESSION_SECRET: os.Getenv("SESSION_SECRET"),
		DATA_DIR:       getenvDefault("DATA_DIR", "data"),
		UPLOAD_DIR:     getenvDefault("UPLOAD_DIR", "uploads"),
		KAFKA_ADDRESS:  os.Getenv("KAFKA_ADDRESS"),
		KAFKA_TOPIC:    getenvDefault("KAFKA_TOPIC", "catalog_events"),
		ES_URL:         os.Getenv("ES_URL"),
		ES_USER:        os.Getenv("ES_USER"),
		ES_PASSWORD:    os.Getenv("ES_PASSWORD"),
		ES_INDEX:       getenvDefault("ES_INDEX", "products"),
		LOG_LEVEL:      os.Getenv("LOG_LEVEL"),
	}

	return config, nil
}

// RemoteMode reports whether both remote-store values are present. The mode is
// decided once at startup and never changes for the process lifetime.
func (c *Config) RemoteMode() bool {
	return c.DATABASE_URL != "" && c.STORAGE_KEY != ""
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
