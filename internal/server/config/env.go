package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays values from the process environment. A .env file in the
// working directory is loaded first if present; variables already set in
// the environment win over the file.
//
// Recognised variables:
//
//	PORT                   port only, becomes ":<PORT>"
//	HTTP_ADDR              full bind address, wins over PORT
//	DATABASE_DSN           PostgreSQL DSN
//	JWT_SECRET             JWT HMAC secret key
//	TOKEN_VALIDITY         Go duration, e.g. "24h"
//	LOG_FORMAT, LOG_LEVEL
//	STORAGE_PROVIDER       local | s3
//	UPLOAD_DIR, MAX_UPLOAD_SIZE
//	S3_ROOT_USER, S3_ROOT_PASSWORD, S3_BUCKET, S3_REGION, S3_BASE_ENDPOINT
//	CORS_ALLOWED_ORIGINS   comma separated
//	RATE_LIMIT_PER_MINUTE
//
// Malformed numbers and durations are ignored, keeping the previous value.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("PORT"); v != "" {
		config.EndpointAddrHTTP = ":" + v
	}
	setString(&config.EndpointAddrHTTP, os.Getenv("HTTP_ADDR"))
	setString(&config.DatabaseDSN, os.Getenv("DATABASE_DSN"))
	setString(&config.SecretKey, os.Getenv("JWT_SECRET"))
	if v := os.Getenv("TOKEN_VALIDITY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			config.TokenValidityDuration = d
		}
	}
	setString(&config.LogFormat, os.Getenv("LOG_FORMAT"))
	setString(&config.LogLevel, os.Getenv("LOG_LEVEL"))
	setString(&config.StorageProvider, os.Getenv("STORAGE_PROVIDER"))
	setString(&config.UploadDir, os.Getenv("UPLOAD_DIR"))
	if v := os.Getenv("MAX_UPLOAD_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			config.MaxUploadSize = n
		}
	}
	setString(&config.S3RootUser, os.Getenv("S3_ROOT_USER"))
	setString(&config.S3RootPassword, os.Getenv("S3_ROOT_PASSWORD"))
	setString(&config.S3Bucket, os.Getenv("S3_BUCKET"))
	setString(&config.S3Region, os.Getenv("S3_REGION"))
	setString(&config.S3BaseEndpoint, os.Getenv("S3_BASE_ENDPOINT"))
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		config.CORSAllowedOrigins = splitList(v)
	}
	if v := os.Getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.RateLimitPerMinute = n
		}
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
