package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type Database struct {
	Driver   string
	User     string
	Password string
	Host     string
	Port     string
	Name     string

	SQLitePath string
}

type SMTP struct {
	Host     string
	Port     int
	Email    string
	Password string
}

// Enabled reports whether outgoing email is configured.
func (s SMTP) Enabled() bool {
	return s.Host != ""
}

type AMQP struct {
	URL      string
	Exchange string
	Queue    string
}

func (a AMQP) Enabled() bool {
	return a.URL != ""
}

type Config struct {
	// HTTP server
	Port        string
	CertFile    string
	KeyFile     string
	CORSOrigins []string

	AppEnv   string
	LogLevel string

	DB Database

	JWTSecret    string
	JWTExpiresIn time.Duration

	SMTP SMTP
	AMQP AMQP

	// Scheduled jobs
	CronEnabled               bool
	GoalReminderDays          int
	NotificationRetentionDays int
}

// Load reads .env when present and then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("SERVER_PORT", "8080"),
		CertFile:    getEnv("CERT_FILE", ""),
		KeyFile:     getEnv("KEY_FILE", ""),
		CORSOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),

		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DB: Database{
			Driver:     getEnv("DB_DRIVER", DriverSQLite),
			User:       getEnv("DB_USER", ""),
			Password:   getEnv("DB_PASSWORD", ""),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "3306"),
			Name:       getEnv("DB_NAME", "fintrack"),
			SQLitePath: getEnv("SQLITE_DB_PATH", "./data/fintrack.db"),
		},

		JWTSecret:    getEnv("JWT_SECRET", ""),
		JWTExpiresIn: getEnvDuration("JWT_EXPIRES_IN", 24*time.Hour),

		SMTP: SMTP{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvInt("SMTP_PORT", 587),
			Email:    getEnv("SMTP_EMAIL", ""),
			Password: getEnv("SMTP_PASS", ""),
		},

		AMQP: AMQP{
			URL:      getEnv("AMQP_URL", ""),
			Exchange: getEnv("AMQP_EXCHANGE", "fintrack"),
			Queue:    getEnv("AMQP_QUEUE", "notifications"),
		},

		CronEnabled:               getEnvBool("CRON_ENABLED", true),
		GoalReminderDays:          getEnvInt("GOAL_REMINDER_DAYS", 7),
		NotificationRetentionDays: getEnvInt("NOTIFICATION_RETENTION_DAYS", 90),
	}
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func (c *Config) TLSEnabled() bool {
	return c.CertFile != "" && c.KeyFile != ""
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if (c.CertFile == "") != (c.KeyFile == "") {
		errors = append(errors, "CERT_FILE and KEY_FILE must be set together")
	}

	switch c.DB.Driver {
	case DriverMySQL:
		if c.DB.User == "" || c.DB.Name == "" || c.DB.Host == "" {
			errors = append(errors, "DB_USER, DB_HOST and DB_NAME are required for the mysql driver")
		}
	case DriverSQLite:
		if c.DB.SQLitePath == "" {
			errors = append(errors, "SQLITE_DB_PATH cannot be empty when using the sqlite driver")
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid DB_DRIVER '%s': must be one of [%s %s]", c.DB.Driver, DriverMySQL, DriverSQLite))
	}

	if len(c.JWTSecret) < 16 {
		errors = append(errors, "JWT_SECRET must be set and at least 16 characters long")
	}
	if c.JWTExpiresIn < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid JWT_EXPIRES_IN %v: must be at least 1 minute", c.JWTExpiresIn))
	}

	if c.SMTP.Enabled() {
		if c.SMTP.Port < 1 || c.SMTP.Port > 65535 {
			errors = append(errors, fmt.Sprintf("invalid SMTP_PORT %d", c.SMTP.Port))
		}
		if c.SMTP.Email == "" {
			errors = append(errors, "SMTP_EMAIL is required when SMTP_HOST is set")
		}
	}

	if c.AMQP.Enabled() {
		if parsedURL, err := url.Parse(c.AMQP.URL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQP.URL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQP.Exchange == "" || c.AMQP.Queue == "" {
			errors = append(errors, "AMQP exchange and queue names cannot be empty when AMQP_URL is provided")
		}
	}

	if c.GoalReminderDays < 0 || c.GoalReminderDays > 365 {
		errors = append(errors, fmt.Sprintf("invalid GOAL_REMINDER_DAYS %d: must be between 0 and 365", c.GoalReminderDays))
	}
	if c.NotificationRetentionDays < 1 {
		errors = append(errors, fmt.Sprintf("invalid NOTIFICATION_RETENTION_DAYS %d: must be at least 1", c.NotificationRetentionDays))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
