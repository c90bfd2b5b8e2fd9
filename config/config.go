package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported values for DB_DRIVER
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// EscalationDisabled is the default ESCALATION_SCHEDULE; any cron expression turns the scheduled job on
const EscalationDisabled = "off"

const defaultSessionSecret = "development-session-secret-change-me"

// Config holds all application configuration
type Config struct {
	DatabaseURL        string
	DBDriver           string
	Port               string
	GoEnv              string
	AllowedOrigins     []string
	TrustedProxies     []string
	SessionSecret      string
	SessionTTL         time.Duration
	EscalationSchedule string
	UploadDir          string
	AWSRegion          string
	AWSS3Bucket        string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	LogLevel           string
	LogFormat          string
}

var current *Config

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	// Determine which environment file to load
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Try to load environment-specific file first
	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		// If environment-specific file doesn't exist, try .env
		if err := godotenv.Load(); err != nil {
			// In production, environment variables are set directly
			// so it's okay if .env files don't exist
			log.Printf("No .env file found, using system environment variables")
		}
	} else {
		log.Printf("Loaded configuration from %s", envFile)
	}

	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("SESSION_TTL is invalid: %w", err)
	}

	config := &Config{
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		DBDriver:           strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		Port:               getEnv("PORT", "3000"),
		GoEnv:              getEnv("GO_ENV", "development"),
		AllowedOrigins:     splitList(getEnv("FRONTEND_URL", "http://localhost:5173")),
		TrustedProxies:     splitList(getEnv("TRUSTED_PROXIES", "127.0.0.1,10.0.0.0/8,172.16.0.0/12,192.168.0.0/16")),
		SessionSecret:      getEnv("SESSION_SECRET", ""),
		SessionTTL:         sessionTTL,
		EscalationSchedule: getEnv("ESCALATION_SCHEDULE", EscalationDisabled),
		UploadDir:          getEnv("UPLOAD_DIR", "./uploads"),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSS3Bucket:        getEnv("AWS_S3_BUCKET", ""),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
	}

	if config.SessionSecret == "" && !config.IsProduction() {
		log.Printf("SESSION_SECRET not set, using the development default")
		config.SessionSecret = defaultSessionSecret
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	current = config
	return config, nil
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	switch c.DBDriver {
	case DriverPostgres, DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("DB_DRIVER %q is not supported", c.DBDriver)
	}

	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if c.IsProduction() && c.SessionSecret == defaultSessionSecret {
		return fmt.Errorf("SESSION_SECRET must be changed in production")
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}

	return nil
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// EscalationEnabled reports whether the scheduled escalation job should run
func (c *Config) EscalationEnabled() bool {
	schedule := strings.TrimSpace(c.EscalationSchedule)
	return schedule != "" && !strings.EqualFold(schedule, EscalationDisabled)
}

// UsesS3 reports whether attachments are stored in S3 instead of the local upload directory
func (c *Config) UsesS3() bool {
	return c.AWSS3Bucket != ""
}

// GetDatabaseURL returns the database URL
func (c *Config) GetDatabaseURL() string {
	return c.DatabaseURL
}

// GetConfig returns the configuration loaded by Load (nil before that)
func GetConfig() *Config {
	return current
}

// SetConfig sets the active configuration (primarily for testing)
func SetConfig(cfg *Config) {
	current = cfg
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// splitList turns a comma-separated value into a trimmed list without blanks
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
