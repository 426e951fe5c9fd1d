package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Database
	DBHost           string
	DBPort           string
	DBName           string
	DBUser           string
	DBPassword       string
	DBSSLMode        string
	DBConnectTimeout time.Duration

	// Exports
	ExportDir string

	// Logging
	LogDir      string
	LogFile     string
	LogLevel    string
	LogToStderr bool
}

var validSSLModes = []string{"disable", "allow", "prefer", "require", "verify-ca", "verify-full"}

var validLogLevels = []string{"debug", "info", "warn", "warning", "error"}

func Load() *Config {
	cfg := &Config{
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "5432"),
		DBName:           getEnv("DB_NAME", "expense_exam"),
		DBUser:           getEnv("DB_USER", "postgres"),
		DBPassword:       getEnv("DB_PASSWORD", ""),
		DBSSLMode:        getEnv("DB_SSLMODE", "disable"),
		DBConnectTimeout: getEnvDuration("DB_CONNECT_TIMEOUT", 5*time.Second),

		ExportDir: getEnv("EXPORT_DIR", "export"),

		LogDir:      getEnv("LOG_DIR", "logs"),
		LogFile:     getEnv("LOG_FILE", "app.log"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogToStderr: getEnvBool("LOG_STDERR", false),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if c.DBPassword == "" {
		errors = append(errors, "DB_PASSWORD is empty: add it to .env")
	}

	if c.DBHost == "" {
		errors = append(errors, "database host cannot be empty")
	}
	if c.DBName == "" {
		errors = append(errors, "database name cannot be empty")
	}
	if c.DBUser == "" {
		errors = append(errors, "database user cannot be empty")
	}

	if port, err := strconv.Atoi(c.DBPort); err != nil {
		errors = append(errors, fmt.Sprintf("invalid database port '%s': must be a number", c.DBPort))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid database port %d: must be between 1 and 65535", port))
	}

	if !slices.Contains(validSSLModes, c.DBSSLMode) {
		errors = append(errors, fmt.Sprintf("invalid sslmode '%s': must be one of %v", c.DBSSLMode, validSSLModes))
	}

	if c.DBConnectTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid connect timeout %v: must be at least 1 second", c.DBConnectTimeout))
	} else if c.DBConnectTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid connect timeout %v: must be at most 5 minutes", c.DBConnectTimeout))
	}

	if strings.TrimSpace(c.ExportDir) == "" {
		errors = append(errors, "export directory cannot be empty")
	}

	if c.LogDir == "" || c.LogFile == "" {
		errors = append(errors, "log directory and file name cannot be empty")
	}
	if !slices.Contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, []string{"debug", "info", "warn", "error"}))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// DSN builds the postgres connection URL understood by pgx.
func (c *Config) DSN() string {
	q := url.Values{}
	q.Set("sslmode", c.DBSSLMode)
	q.Set("connect_timeout", strconv.Itoa(int(c.DBConnectTimeout.Seconds())))
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// Redacted describes the connection target without the password.
func (c *Config) Redacted() string {
	return fmt.Sprintf("%s@%s/%s", c.DBUser, net.JoinHostPort(c.DBHost, c.DBPort), c.DBName)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
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
