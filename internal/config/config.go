package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Analytics AnalyticsConfig
	SMTP      SMTPConfig
	App       AppConfig
}

type ServerConfig struct {
	Port        string
	FrontendURL string
}

type StorageConfig struct {
	ProjectsFile string
	MessagesFile string
	UploadDir    string
	MaxUploadMB  int
}

type AnalyticsConfig struct {
	DBPath    string
	Retention time.Duration
}

type SMTPConfig struct {
	Host    string
	Port    string
	User    string
	Pass    string
	ToEmail string
}

// Enabled reports whether contact notifications can be sent.
func (s SMTPConfig) Enabled() bool {
	return s.User != "" && s.Pass != "" && s.ToEmail != ""
}

type AppConfig struct {
	Environment string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	return FromEnv()
}

// FromEnv builds the config from the current environment only.
func FromEnv() (*Config, error) {
	maxUpload, err := getEnvInt("MAX_UPLOAD_MB", 10)
	if err != nil {
		return nil, fmt.Errorf("parse MAX_UPLOAD_MB: %w", err)
	}

	retention, err := getEnvDuration("ANALYTICS_RETENTION", 365*24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("parse ANALYTICS_RETENTION: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "5000"),
			FrontendURL: getEnv("FRONTEND_URL", "*"),
		},
		Storage: StorageConfig{
			ProjectsFile: getEnv("PROJECTS_FILE", "projects.json"),
			MessagesFile: getEnv("MESSAGES_FILE", "messages.json"),
			UploadDir:    getEnv("UPLOAD_DIR", "uploads"),
			MaxUploadMB:  maxUpload,
		},
		Analytics: AnalyticsConfig{
			DBPath:    os.Getenv("ANALYTICS_DB"),
			Retention: retention,
		},
		SMTP: SMTPConfig{
			Host:    getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:    getEnv("SMTP_PORT", "587"),
			User:    os.Getenv("SMTP_USER"),
			Pass:    os.Getenv("SMTP_PASS"),
			ToEmail: os.Getenv("TO_EMAIL"),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}
	if _, set := os.LookupEnv("ANALYTICS_DB"); !set {
		cfg.Analytics.DBPath = "analytics.db"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Storage.ProjectsFile == c.Storage.MessagesFile {
		return fmt.Errorf("PROJECTS_FILE and MESSAGES_FILE must differ")
	}
	if c.Storage.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(v)
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	return time.ParseDuration(v)
}
