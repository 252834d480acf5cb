package config

import (
	"os"
	"strconv"
	"time"
)

type AppConfig struct {
	API      APIConfig
	Storage  StorageConfig
	Practice PracticeFileConfig
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type StorageConfig struct {
	Dir          string
	HistoryLimit int
}

type PracticeFileConfig struct {
	Path string
}

func LoadAppConfig() *AppConfig {
	return &AppConfig{
		API: APIConfig{
			BaseURL: getEnv("CAREER_HERO_API_URL", "http://localhost:8000"),
			Timeout: getEnvAsDuration("CAREER_HERO_API_TIMEOUT", 10*time.Second),
		},
		Storage: StorageConfig{
			Dir:          getEnv("CAREER_HERO_DATA_DIR", "data"),
			HistoryLimit: getEnvAsInt("CAREER_HERO_HISTORY_LIMIT", 50),
		},
		Practice: PracticeFileConfig{
			Path: getEnv("CAREER_HERO_PRACTICE_CONFIG", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
