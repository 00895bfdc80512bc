// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Server Configuration
	GinMode       string        `mapstructure:"GIN_MODE"`
	ServerHost    string        `mapstructure:"SERVER_HOST"`
	ServerPort    string        `mapstructure:"SERVER_PORT"`
	ServerTimeout time.Duration `mapstructure:"SERVER_TIMEOUT_SECONDS"`

	// Database Configuration (catalog and orders)
	DBHost            string        `mapstructure:"DB_HOST"`
	DBPort            string        `mapstructure:"DB_PORT"`
	DBUser            string        `mapstructure:"DB_USER"`
	DBPassword        string        `mapstructure:"DB_PASSWORD"`
	DBName            string        `mapstructure:"DB_NAME"`
	DBSSLMode         string        `mapstructure:"DB_SSL_MODE"`
	DBTimezone        string        `mapstructure:"DB_TIMEZONE"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`

	// Redis Configuration (drafts, applications, carts)
	RedisAddress  string `mapstructure:"REDIS_ADDRESS"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// Logging Configuration
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// Hiring Wizard Configuration
	// RequireRoleSelection pins the role-step policy: when true, at least one
	// role across both categories must be selected before the step advances.
	RequireRoleSelection bool          `mapstructure:"HIRING_REQUIRE_ROLE_SELECTION"`
	MinApplicantAge      int           `mapstructure:"HIRING_MIN_APPLICANT_AGE"`
	DraftTTL             time.Duration `mapstructure:"HIRING_DRAFT_TTL_HOURS"`
	SignUpRedirectURL    string        `mapstructure:"HIRING_SIGNUP_REDIRECT_URL"`
	AbandonedDraftAfter  time.Duration `mapstructure:"HIRING_ABANDONED_AFTER_HOURS"`

	// Application Store Configuration
	AllowResubmission bool `mapstructure:"APPLICATION_ALLOW_RESUBMISSION"`

	// Cron Jobs
	DraftCleanupJobSchedule string `mapstructure:"DRAFT_CLEANUP_JOB_SCHEDULE"`

	// Identity Provider Configuration
	IdentityProvider              string `mapstructure:"IDENTITY_PROVIDER"`
	FirebaseServiceAccountKeyPath string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_KEY_PATH"`
	FirebaseProjectID             string `mapstructure:"FIREBASE_PROJECT_ID"`
}

// Load attempts to load configuration from a .env file (if present) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()

	// Set default values
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_TIMEOUT_SECONDS", 30)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "castlecare_db")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 60)

	v.SetDefault("REDIS_ADDRESS", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("HIRING_REQUIRE_ROLE_SELECTION", false)
	v.SetDefault("HIRING_MIN_APPLICANT_AGE", 18)
	v.SetDefault("HIRING_DRAFT_TTL_HOURS", 72)
	v.SetDefault("HIRING_SIGNUP_REDIRECT_URL", "/drive/complete-application")
	v.SetDefault("HIRING_ABANDONED_AFTER_HOURS", 24)

	v.SetDefault("APPLICATION_ALLOW_RESUBMISSION", false)

	v.SetDefault("DRAFT_CLEANUP_JOB_SCHEDULE", "@hourly")

	v.SetDefault("IDENTITY_PROVIDER", "firebase")
	v.SetDefault("FIREBASE_PROJECT_ID", "")
	v.SetDefault("FIREBASE_SERVICE_ACCOUNT_KEY_PATH", "")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// Convert duration fields
	cfg.ServerTimeout = time.Duration(v.GetInt("SERVER_TIMEOUT_SECONDS")) * time.Second
	cfg.DBConnMaxLifetime = time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute
	cfg.DraftTTL = time.Duration(v.GetInt("HIRING_DRAFT_TTL_HOURS")) * time.Hour
	cfg.AbandonedDraftAfter = time.Duration(v.GetInt("HIRING_ABANDONED_AFTER_HOURS")) * time.Hour

	// Basic validation for critical configs
	if cfg.IdentityProvider != "firebase" {
		return nil, fmt.Errorf("FATAL: unsupported IDENTITY_PROVIDER %q; only \"firebase\" is supported", cfg.IdentityProvider)
	}
	if strings.TrimSpace(cfg.FirebaseServiceAccountKeyPath) == "" {
		return nil, fmt.Errorf("FATAL: FIREBASE_SERVICE_ACCOUNT_KEY_PATH is not set. This is required for Firebase Admin SDK initialization")
	}
	if _, err := os.Stat(cfg.FirebaseServiceAccountKeyPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("FATAL: Firebase service account key file specified in FIREBASE_SERVICE_ACCOUNT_KEY_PATH (%s) not found", cfg.FirebaseServiceAccountKeyPath)
	}
	if cfg.MinApplicantAge <= 0 {
		return nil, fmt.Errorf("FATAL: HIRING_MIN_APPLICANT_AGE must be positive")
	}

	return &cfg, nil
}
