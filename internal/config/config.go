package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort  string
	AppEnv   string
	LogLevel string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string

	JWTSecret string
	JWTExpiry time.Duration

	OTPTTL              time.Duration
	AllowedEmailDomains []string

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPFromName string
	SMTPUsername string
	SMTPPassword string

	SNSEnabled bool
	SNSRegion  string

	// Redis backs the OTP request throttle. Empty disables throttling.
	RedisURL        string
	OTPCooldown     time.Duration
	OTPWindow       time.Duration
	OTPMaxPerWindow int

	AllowedOrigins []string // CORS allowed origins

	// TrustProxy makes the server take the client IP from X-Forwarded-For /
	// X-Real-IP. Enable only behind a proxy that overwrites those headers.
	TrustProxy bool
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users            string
	UserUniques      string
	RegistrationOTPs string
	Appointments     string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:        getEnv("APP_PORT", "5000"),
		AppEnv:         getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:            getEnv("DYNAMO_TABLE_USERS", "users"),
			UserUniques:      getEnv("DYNAMO_TABLE_USER_UNIQUES", "user_uniques"),
			RegistrationOTPs: getEnv("DYNAMO_TABLE_REGISTRATION_OTPS", "registration_otps"),
			Appointments:     getEnv("DYNAMO_TABLE_APPOINTMENTS", "appointments"),
		},
		S3BucketName:        getEnv("S3_BUCKET_NAME", "clinic-exports"),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		JWTExpiry:           getEnvDuration("JWT_EXPIRY", time.Hour),
		OTPTTL:              getEnvDuration("OTP_TTL", 10*time.Minute),
		AllowedEmailDomains: splitList(getEnv("ALLOWED_EMAIL_DOMAINS", "gmail.com")),
		SMTPHost:            getEnv("SMTP_HOST", "localhost"),
		SMTPPort:            getEnv("SMTP_PORT", "1025"),
		SMTPFrom:            getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPFromName:        getEnv("SMTP_FROM_NAME", "Miya Huzoor"),
		SMTPUsername:        getEnv("SMTP_USERNAME", ""),
		SMTPPassword:        getEnv("SMTP_PASSWORD", ""),
		SNSEnabled:          getEnvBool("SNS_ENABLED", false),
		SNSRegion:           getEnv("SNS_REGION", "us-east-1"),
		RedisURL:            getEnv("REDIS_URL", ""),
		OTPCooldown:         getEnvDuration("OTP_COOLDOWN", 30*time.Second),
		OTPWindow:           getEnvDuration("OTP_WINDOW", 15*time.Minute),
		OTPMaxPerWindow:     getEnvInt("OTP_MAX_PER_WINDOW", 5),
		AllowedOrigins:      splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,https://tjrcis.vercel.app")),
		TrustProxy:          getEnvBool("TRUST_PROXY", false),
	}
}

// Validate reports configuration the API server cannot start without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if len(c.AllowedEmailDomains) == 0 {
		return errors.New("ALLOWED_EMAIL_DOMAINS must list at least one domain")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
