package config

import (
	"os"
	"strconv"
)

type Config struct {
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	RedisHost     string
	RedisPort     string
	SessionSecret string
	GinMode       string

	// LINE Messaging API channel token. Empty disables push delivery.
	LineChannelToken string

	// Notifier scheduling
	TaskScanIntervalSeconds int
	DailyScanHour           int
	Timezone                string
}

func Load() *Config {
	return &Config{
		DBDriver:      getEnv("DB_DRIVER", "mysql"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "3306"),
		DBUser:        getEnv("DB_USER", "planner"),
		DBPassword:    getEnv("DB_PASSWORD", "plannerpassword"),
		DBName:        getEnv("DB_NAME", "study_planner"),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:       getEnv("GIN_MODE", "debug"),

		LineChannelToken: getEnv("LINE_CHANNEL_TOKEN", ""),

		TaskScanIntervalSeconds: getEnvInt("TASK_SCAN_INTERVAL_SECONDS", 60),
		DailyScanHour:           getEnvInt("DAILY_SCAN_HOUR", 7),
		Timezone:                getEnv("TZ_NAME", "Asia/Bangkok"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
