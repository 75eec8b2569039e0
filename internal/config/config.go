package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/nydart/notification-service/internal/pkg/validator"
)

const (
	StoreDriverHTTP     = "http"
	StoreDriverPostgres = "postgres"
)

type Config struct {
	App      AppConfig
	SMTP     SMTPConfig
	Postmark PostmarkConfig
	Twilio   TwilioConfig
	Store    StoreConfig
	Database DatabaseConfig
	Auth     AuthConfig
	CORS     CORSConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Name        string
	Version     string
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
	TestEmail   string
	// ProviderCheckInterval enables periodic provider verification when > 0.
	ProviderCheckInterval time.Duration
}

// SMTPConfig holds the SMTP transport settings. Provider selects a preset
// host (gmail, outlook, hotmail, yahoo) or "custom" to use Host/Port/Secure.
type SMTPConfig struct {
	Provider string
	Host     string
	Port     int
	Secure   bool
	Username string
	Password string
	From     string
	FromName string
}

// PostmarkConfig holds the Postmark HTTP API settings
type PostmarkConfig struct {
	ServerToken  string
	AccountToken string
	From         string
	FromName     string
}

// TwilioConfig holds the Twilio SMS settings
type TwilioConfig struct {
	AccountSID  string
	AuthToken   string
	PhoneNumber string
	BaseURL     string
	Timeout     time.Duration
}

// StoreConfig selects where users and in-app notifications live
type StoreConfig struct {
	Driver     string
	ServiceURL string
	Timeout    time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// AuthConfig holds the shared secret for service tokens on the internal API.
// An empty secret leaves the internal API open.
type AuthConfig struct {
	ServiceSecret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded, using process environment", "error", err)
	}

	config := &Config{}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("PORT", "4003"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	providerCheck, err := time.ParseDuration(getEnv("PROVIDER_CHECK_INTERVAL", "0s"))
	if err != nil {
		return nil, fmt.Errorf("invalid PROVIDER_CHECK_INTERVAL: %w", err)
	}

	config.App = AppConfig{
		Name:        getEnv("APP_NAME", "notification-mail-sms-service"),
		Version:     getEnv("APP_VERSION", "v1.0.0"),
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		TestEmail:   getEnv("TEST_EMAIL", "test@example.com"),

		ProviderCheckInterval: providerCheck,
	}

	// SMTP configuration
	smtpPort, err := strconv.Atoi(getEnv("EMAIL_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid EMAIL_PORT: %w", err)
	}

	emailUser := getEnv("EMAIL_USER", "")
	config.SMTP = SMTPConfig{
		Provider: strings.ToLower(getEnv("EMAIL_PROVIDER", "gmail")),
		Host:     getEnv("EMAIL_HOST", ""),
		Port:     smtpPort,
		Secure:   getEnvBool("EMAIL_SECURE", false),
		Username: emailUser,
		Password: getEnv("EMAIL_PASSWORD", ""),
		From:     getEnv("EMAIL_FROM", emailUser),
		FromName: getEnv("EMAIL_FROM_NAME", "NydArt Advisor"),
	}

	// Postmark configuration
	config.Postmark = PostmarkConfig{
		ServerToken:  getEnv("POSTMARK_SERVER_TOKEN", ""),
		AccountToken: getEnv("POSTMARK_ACCOUNT_TOKEN", ""),
		From:         getEnv("POSTMARK_FROM_EMAIL", "noreply@nydart-advisor.com"),
		FromName:     getEnv("POSTMARK_FROM_NAME", "NydArt Advisor"),
	}

	// Twilio configuration
	twilioTimeout, err := time.ParseDuration(getEnv("TWILIO_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid TWILIO_TIMEOUT: %w", err)
	}

	config.Twilio = TwilioConfig{
		AccountSID:  getEnv("TWILIO_ACCOUNT_SID", ""),
		AuthToken:   getEnv("TWILIO_AUTH_TOKEN", ""),
		PhoneNumber: getEnv("TWILIO_PHONE_NUMBER", ""),
		BaseURL:     getEnv("TWILIO_BASE_URL", "https://api.twilio.com"),
		Timeout:     twilioTimeout,
	}

	// Store configuration
	storeTimeout, err := time.ParseDuration(getEnv("DB_SERVICE_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_SERVICE_TIMEOUT: %w", err)
	}

	config.Store = StoreConfig{
		Driver:     strings.ToLower(getEnv("STORE_DRIVER", StoreDriverHTTP)),
		ServiceURL: strings.TrimRight(getEnv("DB_SERVICE_URL", ""), "/"),
		Timeout:    storeTimeout,
	}

	// Database configuration (STORE_DRIVER=postgres only)
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "nydart"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	config.Auth = AuthConfig{
		ServiceSecret: getEnv("INTERNAL_JWT_SECRET", ""),
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", config.App.FrontendURL),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if !validator.IsValidURL(c.App.FrontendURL) {
		return fmt.Errorf("FRONTEND_URL must be an absolute http(s) URL")
	}
	if !validator.IsValidEmail(c.App.TestEmail) {
		return fmt.Errorf("TEST_EMAIL must be a valid email address")
	}
	if !validator.IsValidURL(c.Twilio.BaseURL) {
		return fmt.Errorf("TWILIO_BASE_URL must be an absolute http(s) URL")
	}
	switch c.Store.Driver {
	case StoreDriverHTTP:
		if !validator.IsValidURL(c.Store.ServiceURL) {
			return fmt.Errorf("DB_SERVICE_URL must be an absolute http(s) URL when STORE_DRIVER=%s", StoreDriverHTTP)
		}
	case StoreDriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required when STORE_DRIVER=%s", StoreDriverPostgres)
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER: %s", c.Store.Driver)
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel converts LOG_LEVEL to a slog level, defaulting to info.
func (a AppConfig) SlogLevel() slog.Level {
	switch strings.ToLower(a.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvSlice(env, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			result = append(result, p)
		}
	}
	return result
}
