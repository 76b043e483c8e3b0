package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port           string
	DatabaseURL    string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	RequestTimeout time.Duration
}

func Load() Config {
	return Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", ""),
		DBName:         getEnv("DB_NAME", "storefront"),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT_SECONDS", 15*time.Second),
	}
}

// JWTSecret is read at token issue/verify time so a rotation does not need a
// process restart. The default is only for local development.
func JWTSecret() []byte {
	return []byte(getEnv("JWT_SECRET", "dev-secret-change-me"))
}

// AdminAPIKey guards the /admin route group. Empty means admin is disabled.
func AdminAPIKey() string {
	return os.Getenv("ADMIN_API_KEY")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return fallback
	}
	return time.Duration(secs) * time.Second
}
