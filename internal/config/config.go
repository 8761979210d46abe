package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Env           string
	Port          string
	SessionSecret string
	LogLevel      string
	LogFormat     string
	Database      DatabaseConfig
	Storage       StorageConfig
	Identity      IdentityConfig
	Workflow      WorkflowConfig
	DashboardURL  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
}

// StorageConfig holds object store configuration
type StorageConfig struct {
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// IdentityConfig holds identity provider configuration
type IdentityConfig struct {
	APIURL    string
	SecretKey string
}

// WorkflowConfig holds extraction workflow configuration.
// URL may be empty; uploads then fail with a configuration error at
// request time rather than at startup.
type WorkflowConfig struct {
	URL    string
	Secret string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	sessionSecret := os.Getenv("SESSION_JWT_SECRET")
	if sessionSecret == "" {
		return nil, fmt.Errorf("SESSION_JWT_SECRET is required")
	}

	return &Config{
		Env:           getEnv("APP_ENV", "development"),
		Port:          getEnv("PORT", "3001"),
		SessionSecret: sessionSecret,
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "console"),
		Database: DatabaseConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Username: getEnv("PG_USERNAME", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			Database: getEnv("PG_DATABASE", "grandparser"),
		},
		Storage: StorageConfig{
			Bucket:    getEnv("S3_BUCKET", "documents"),
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			Region:    getEnv("S3_REGION", "us-east-1"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
			UseSSL:    getEnv("S3_USE_SSL", "true") == "true",
		},
		Identity: IdentityConfig{
			APIURL:    getEnv("IDENTITY_API_URL", "https://api.clerk.com"),
			SecretKey: os.Getenv("IDENTITY_SECRET_KEY"),
		},
		Workflow: WorkflowConfig{
			URL:    os.Getenv("EXTRACTION_WEBHOOK_URL"),
			Secret: os.Getenv("EXTRACTION_WEBHOOK_SECRET"),
		},
		DashboardURL: getEnv("DASHBOARD_URL", "http://localhost:3000"),
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
