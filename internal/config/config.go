package config

import (
	"os"
)

type Config struct {
	Port         string
	DBDriver     string
	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
	JWTSecret    string
	UploadDir    string
	GinMode      string
	OpenAIAPIKey string
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "3000"),
		DBDriver:     getEnv("DB_DRIVER", "postgres"),
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       getEnv("DB_PORT", "5432"),
		DBUser:       getEnv("DB_USER", "betodo"),
		DBPassword:   getEnv("DB_PASSWORD", "betodo"),
		DBName:       getEnv("DB_NAME", "betodolist"),
		JWTSecret:    getEnv("JWT_SECRET", "dev_secret"),
		UploadDir:    getEnv("UPLOAD_DIR", "uploads"),
		GinMode:      getEnv("GIN_MODE", "debug"),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
