package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// const dsn = "host=localhost user=postgres password=password dbname=gscdb port=5432 sslmode=disable TimeZone=Africa/Douala"

func GetDSN() string {
	if GetDatabaseDriver() == "sqlite" {
		return getEnv("DATABASE_PATH", "gsc.db")
	}
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

// GetDatabaseDriver returns "postgres" (default) or "sqlite".
func GetDatabaseDriver() string {
	return getEnv("DATABASE_DRIVER", "postgres")
}

const TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"
const DATE_FORMAT = "2006-01-02"

var (
	API_HOST = getEnv("API_HOST", "http://localhost:9090")
	APP_HOST = getEnv("APP_HOST", "http://localhost:3000")

	SMTP_FROM      = getEnv("SMTP_FROM", "no-reply@globalservicecorp.com")
	SMTP_FROM_NAME = getEnv("SMTP_FROM_NAME", "Global Service Corporation")
	MAIL_TRANSPORT = getEnv("MAIL_TRANSPORT", "log")
	EMAIL_QUEUE    = getEnv("EMAIL_QUEUE", "gsc-emails")

	LIFECYCLE_TOPIC     = getEnv("LIFECYCLE_TOPIC", "lifecycle-events")
	SNS_TOPIC_ARN       = os.Getenv("SNS_TOPIC_ARN")
	S3_DOCUMENTS_BUCKET = os.Getenv("S3_DOCUMENTS_BUCKET")

	OAUTH_CLIENT_ID     = os.Getenv("OAUTH_CLIENT_ID")
	OAUTH_CLIENT_SECRET = os.Getenv("OAUTH_CLIENT_SECRET")
	CALENDAR_ID         = getEnv("CALENDAR_ID", "primary")
)

// ExpirySweepInterval is how often stale drafts are expired. Zero disables
// the sweep.
func ExpirySweepInterval() time.Duration {
	d, err := time.ParseDuration(os.Getenv("EXPIRY_SWEEP_INTERVAL"))
	if err != nil {
		return 0
	}
	return d
}

func DraftTTLDays() int {
	n, err := strconv.Atoi(os.Getenv("DRAFT_TTL_DAYS"))
	if err != nil || n <= 0 {
		return 90
	}
	return n
}

func RateCacheTTL() time.Duration {
	d, err := time.ParseDuration(os.Getenv("RATE_CACHE_TTL"))
	if err != nil {
		return 10 * time.Minute
	}
	return d
}

func JWTKey() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

func getEnv(key string, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
