package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// Create a new instance of the logger
// Configure it to log at the desired level
// and format it as JSON for structured logging
var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	environment := GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(logrus.DebugLevel)
	case "production":
		log.SetLevel(logrus.ErrorLevel)
	default:
		// Default to info level for other environments
		log.SetLevel(logrus.InfoLevel)
	}
}

// Config holds the application configuration, loaded from environment variables
type Config struct {
	// Server configuration
	Port        int    `json:"port"`
	Host        string `json:"host"`
	Environment string `json:"environment"`
	BaseURL     string `json:"base_url"`
	CORSOrigin  string `json:"cors_origin"`

	// Database configuration
	DBDriver   string `json:"db_driver"`
	DBHost     string `json:"db_host"`
	DBPort     string `json:"db_port"`
	DBUser     string `json:"db_user"`
	DBPassword string `json:"db_password"`
	DBName     string `json:"db_name"`
	DBSSLMode  string `json:"db_ssl_mode"`
	DBPath     string `json:"db_path"`

	// Logging configuration
	LogLevel string `json:"log_level"`

	// Security configuration
	JWTSecret            string        `json:"jwt_secret"`
	AccessTokenTTL       time.Duration `json:"access_token_ttl"`
	RefreshTokenTTL      time.Duration `json:"refresh_token_ttl"`
	VerificationTokenTTL time.Duration `json:"verification_token_ttl"`
	ResetTokenTTL        time.Duration `json:"reset_token_ttl"`

	// Mail configuration (verification and password-reset emails)
	SMTPHost     string `json:"smtp_host"`
	SMTPPort     string `json:"smtp_port"`
	SMTPUser     string `json:"smtp_user"`
	SMTPPassword string `json:"smtp_password"`
	EmailFrom    string `json:"email_from"`

	// Catalog cache; caching is disabled when the address is empty
	RedisAddr string `json:"redis_addr"`
}

// String returns a string representation of Config with sensitive data masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %d, Host: %s, Environment: %s, DBDriver: %s, DBHost: %s, DBName: %s, DBUser: %s, DBPassword: [REDACTED], LogLevel: %s, JWTSecret: [REDACTED], SMTPHost: %s, SMTPUser: %s, SMTPPassword: [REDACTED], RedisAddr: %s}",
		c.Port, c.Host, c.Environment, c.DBDriver, c.DBHost, c.DBName, c.DBUser, c.LogLevel, c.SMTPHost, c.SMTPUser, c.RedisAddr)
}

// IsProduction reports whether the service runs in production mode.
// Error responses with 5xx statuses are masked when it does.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// LoadConfig reads the configuration from environment variables and returns
// a Config struct. Returns an error if a variable cannot be parsed.
func LoadConfig() (*Config, error) {
	log.Info("Loading configuration from environment variables")
	port, err := strconv.Atoi(GetEnvWithDefault("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	accessTTL, err := parseDurationEnv("JWT_EXPIRATION", "15m")
	if err != nil {
		return nil, err
	}
	refreshTTL, err := parseDurationEnv("JWT_REFRESH_EXPIRATION", "168h")
	if err != nil {
		return nil, err
	}
	verificationTTL, err := parseDurationEnv("JWT_VERIFICATION_EXPIRATION", "1h")
	if err != nil {
		return nil, err
	}
	resetTTL, err := parseDurationEnv("JWT_RESET_EXPIRATION", "15m")
	if err != nil {
		return nil, err
	}

	config := &Config{
		Port:        port,
		Host:        GetEnvWithDefault("APP_HOST", "localhost"),
		Environment: GetEnvWithDefault("APP_ENV", "development"),
		BaseURL:     GetEnvWithDefault("BASE_URL", "http://localhost:8080"),
		CORSOrigin:  GetEnvWithDefault("CORS_ORIGIN", "http://localhost:3000"),

		DBDriver:   GetEnvWithDefault("DB_DRIVER", "sqlite"),
		DBHost:     GetEnvWithDefault("DB_HOST", "localhost"),
		DBPort:     GetEnvWithDefault("DB_PORT", "5432"),
		DBUser:     GetEnvWithDefault("DB_USER", "user"),
		DBPassword: GetEnvWithDefault("DB_PASSWORD", "password"),
		DBName:     GetEnvWithDefault("DB_NAME", "pizzadb"),
		DBSSLMode:  GetEnvWithDefault("DB_SSLMODE", "disable"),
		DBPath:     GetEnvWithDefault("DB_PATH", "pizza.sqlite"),

		LogLevel: GetEnvWithDefault("LOG_LEVEL", "info"),

		JWTSecret:            GetEnvWithDefault("JWT_SECRET", "secret"),
		AccessTokenTTL:       accessTTL,
		RefreshTokenTTL:      refreshTTL,
		VerificationTokenTTL: verificationTTL,
		ResetTokenTTL:        resetTTL,

		SMTPHost:     GetEnvWithDefault("SMTP_HOST", ""),
		SMTPPort:     GetEnvWithDefault("SMTP_PORT", "587"),
		SMTPUser:     GetEnvWithDefault("SMTP_USER", ""),
		SMTPPassword: GetEnvWithDefault("SMTP_PASS", ""),
		EmailFrom:    GetEnvWithDefault("EMAIL_FROM", "no-reply@stylespizza.dev"),

		RedisAddr: GetEnvWithDefault("REDIS_ADDR", ""),
	}
	log.Infof("Configuration loaded: %s", config.String())
	return config, nil
}

func parseDurationEnv(key, defaultValue string) (time.Duration, error) {
	d, err := time.ParseDuration(GetEnvWithDefault(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// Helper to get environment with default values
func GetEnvWithDefault(key, defaultValue string) string {
	log.Tracef("Getting environment variable: %s", key)
	value := os.Getenv(key)
	if value == "" {
		log.Warnf("Environment variable %s not set, using default value: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

// GetEnvAsType retrieves an environment variable and converts it to the specified type
// using generic type handling.
func GetEnvAsType[T any](key string, defaultValue T) T {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result T
	switch any(result).(type) {
	case int:
		intValue, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return any(intValue).(T)
	case string:
		return any(value).(T)
	case bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return any(boolValue).(T)
	default:
		return defaultValue // Fallback for unsupported types
	}
}
