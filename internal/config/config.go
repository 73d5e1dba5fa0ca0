package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env        string
	ServerPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret string
	TokenTTL  time.Duration

	// RequireVerifiedEmail gates login on a verified email address.
	// Off by default; the verification flow is optional.
	RequireVerifiedEmail bool

	BrevoAPIKey   string
	MailFromEmail string
	MailFromName  string
	VerifyURL     string
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:        getEnv("APP_ENV", "development"),
		ServerPort: getEnv("SERVER_PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "prepmate"),
		DBPassword: getEnv("DB_PASSWORD", "prepmate_dev_password"),
		DBName:     getEnv("DB_NAME", "prepmate"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		TokenTTL:  getDuration("TOKEN_TTL", 30*time.Minute),

		RequireVerifiedEmail: getEnv("REQUIRE_VERIFIED_EMAIL", "false") == "true",

		BrevoAPIKey:   getEnv("BREVO_API_KEY", ""),
		MailFromEmail: getEnv("MAIL_FROM_EMAIL", ""),
		MailFromName:  getEnv("MAIL_FROM_NAME", "PrepMate"),
		VerifyURL:     getEnv("VERIFY_URL", "http://localhost:3000/verify-email"),
	}
}

func getEnv(key, fallback string) string {
	val, exists := os.LookupEnv(key)

	if exists {
		return val
	}

	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	val, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return d
}
