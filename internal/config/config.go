package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port            string `yaml:"port" env:"SERVER_PORT"`
		Mode            string `yaml:"mode" env:"SERVER_MODE"`
		RateLimit       int    `yaml:"rate_limit" env:"SERVER_RATE_LIMIT"`
		RateLimitWindow string `yaml:"rate_limit_window" env:"SERVER_RATE_LIMIT_WINDOW"`
		PublicURL       string `yaml:"public_url" env:"SERVER_PUBLIC_URL"`
	} `yaml:"server"`

	Database struct {
		Driver          string `yaml:"driver" env:"DB_DRIVER"`
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	JWT struct {
		Secret                 string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration  string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		RefreshTokenExpiration string `yaml:"refresh_token_expiration" env:"JWT_REFRESH_TOKEN_EXPIRATION"`
		Issuer                 string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	// Storage is an S3-compatible bucket for session photos and recordings
	Storage struct {
		Endpoint        string `yaml:"endpoint" env:"STORAGE_ENDPOINT"`
		Region          string `yaml:"region" env:"STORAGE_REGION"`
		Bucket          string `yaml:"bucket" env:"STORAGE_BUCKET"`
		AccessKeyID     string `yaml:"access_key_id" env:"STORAGE_ACCESS_KEY_ID"`
		SecretAccessKey string `yaml:"secret_access_key" env:"STORAGE_SECRET_ACCESS_KEY"`
		PublicBaseURL   string `yaml:"public_base_url" env:"STORAGE_PUBLIC_BASE_URL"`
		SignedURLTTL    string `yaml:"signed_url_ttl" env:"STORAGE_SIGNED_URL_TTL"`
	} `yaml:"storage"`

	Email struct {
		Host      string `yaml:"host" env:"SMTP_HOST"`
		Port      int    `yaml:"port" env:"SMTP_PORT"`
		Username  string `yaml:"username" env:"SMTP_USERNAME"`
		Password  string `yaml:"password" env:"SMTP_PASSWORD"`
		FromName  string `yaml:"from_name" env:"SMTP_FROM_NAME"`
		FromEmail string `yaml:"from_email" env:"SMTP_FROM_EMAIL"`
		UseTLS    bool   `yaml:"use_tls" env:"SMTP_USE_TLS"`
	} `yaml:"email"`

	SMS struct {
		AccountSID         string `yaml:"account_sid" env:"TWILIO_ACCOUNT_SID"`
		AuthToken          string `yaml:"auth_token" env:"TWILIO_AUTH_TOKEN"`
		FromNumber         string `yaml:"from_number" env:"TWILIO_FROM_NUMBER"`
		DefaultCountryCode string `yaml:"default_country_code" env:"SMS_DEFAULT_COUNTRY_CODE"`
	} `yaml:"sms"`

	Completion struct {
		APIKey  string `yaml:"api_key" env:"COMPLETION_API_KEY"`
		BaseURL string `yaml:"base_url" env:"COMPLETION_BASE_URL"`
		Model   string `yaml:"model" env:"COMPLETION_MODEL"`
	} `yaml:"completion"`

	Capabilities struct {
		IconDir    string `yaml:"icon_dir" env:"CAPABILITY_ICON_DIR"`
		IconPrefix string `yaml:"icon_prefix" env:"CAPABILITY_ICON_PREFIX"`
	} `yaml:"capabilities"`

	Seed struct {
		AdminEmail    string `yaml:"admin_email" env:"SEED_ADMIN_EMAIL"`
		AdminPassword string `yaml:"admin_password" env:"SEED_ADMIN_PASSWORD"`
	} `yaml:"seed"`
}

// LoadConfig loads configuration from a file, an optional .env file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.RateLimit = 120
	config.Server.RateLimitWindow = "1m"
	config.Server.PublicURL = "http://localhost:8080"

	config.Database.Driver = "postgres"
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "bandhub"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	config.JWT.AccessTokenExpiration = "1h"
	config.JWT.RefreshTokenExpiration = "720h"
	config.JWT.Issuer = "bandhub.app"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Storage.Region = "auto"
	config.Storage.Bucket = "session-media"
	config.Storage.SignedURLTTL = "15m"

	config.Email.Port = 587
	config.Email.FromName = "BandHub"
	config.Email.UseTLS = true

	config.SMS.DefaultCountryCode = "1"

	config.Completion.Model = "gpt-4o-mini"

	config.Capabilities.IconDir = "static/capability-icons"
	config.Capabilities.IconPrefix = "/capability-icons"

	config.Seed.AdminEmail = "admin@bandhub.local"
	config.Seed.AdminPassword = "Admin123!"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}

	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	durations := map[string]string{
		"JWT access token expiration":  config.JWT.AccessTokenExpiration,
		"JWT refresh token expiration": config.JWT.RefreshTokenExpiration,
		"rate limit window":            config.Server.RateLimitWindow,
		"storage signed URL TTL":       config.Storage.SignedURLTTL,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
	}

	if config.Server.RateLimit <= 0 {
		return fmt.Errorf("server rate limit must be positive")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}
