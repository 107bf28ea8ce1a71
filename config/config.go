package config

import (
	"os"
	"strconv"
)

// AppConfig holds everything read from the environment at startup.
type AppConfig struct {
	Port        string
	DatabaseURL string

	JWTSecret           string
	JWTExpiryHours      int
	ResetPassSecret     string
	ResetPassExpiryMins int
	ResetPassLink       string

	SaltRound int

	SSL  SSLConfig
	SMTP SMTPConfig
}

// SSLConfig carries the SSLCommerz merchant credentials and the callback /
// frontend URLs the payment flow redirects through.
type SSLConfig struct {
	StoreID       string
	StorePassword string
	PaymentAPI    string
	ValidationAPI string

	SuccessBackendURL string
	FailBackendURL    string
	CancelBackendURL  string

	SuccessFrontendURL string
	FailFrontendURL    string
	CancelFrontendURL  string
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// Load reads the application configuration from the environment.
func Load() *AppConfig {
	return &AppConfig{
		Port:        getEnv("PORT", "5000"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret:           os.Getenv("JWT_SECRET"),
		JWTExpiryHours:      getEnvInt("JWT_EXPIRES_HOURS", 24),
		ResetPassSecret:     os.Getenv("RESET_PASS_SECRET"),
		ResetPassExpiryMins: getEnvInt("RESET_PASS_EXPIRES_MINUTES", 10),
		ResetPassLink:       os.Getenv("RESET_PASS_LINK"),

		SaltRound: getEnvInt("SALT_ROUND", 10),

		SSL: SSLConfig{
			StoreID:       os.Getenv("SSL_STORE_ID"),
			StorePassword: os.Getenv("SSL_STORE_PASS"),
			PaymentAPI:    os.Getenv("SSL_PAYMENT_API"),
			ValidationAPI: os.Getenv("SSL_VALIDATION_API"),

			SuccessBackendURL: os.Getenv("SSL_SUCCESS_BACKEND_URL"),
			FailBackendURL:    os.Getenv("SSL_FAIL_BACKEND_URL"),
			CancelBackendURL:  os.Getenv("SSL_CANCEL_BACKEND_URL"),

			SuccessFrontendURL: os.Getenv("SSL_SUCCESS_FRONTEND_URL"),
			FailFrontendURL:    os.Getenv("SSL_FAIL_FRONTEND_URL"),
			CancelFrontendURL:  os.Getenv("SSL_CANCEL_FRONTEND_URL"),
		},

		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:     getEnv("SMTP_PORT", "587"),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
		},
	}
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
