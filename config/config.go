package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jalad-shrimali/callreport/report"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server ServerConfig
	Report ReportConfig
	RunLog RunLogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host        string
	Port        string
	MaxUploadMB int
	GinMode     string // debug, release or test; empty keeps gin's default
}

// ReportConfig holds pipeline defaults
type ReportConfig struct {
	ScratchDir   string // uploads and processed workbooks live here for one request
	SourceSheet  string
	Mode         report.Mode
	WeekdaysFile string // empty uses the embedded table
}

// RunLogConfig holds the run journal location; an empty path disables it
type RunLogConfig struct {
	Path string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Host:        getEnv("HOST", "0.0.0.0"),
			Port:        getEnv("PORT", "8080"),
			MaxUploadMB: getEnvInt("MAX_UPLOAD_MB", 32),
			GinMode:     getEnv("GIN_MODE", ""),
		},
		Report: ReportConfig{
			ScratchDir:   getEnv("SCRATCH_DIR", filepath.Join(os.TempDir(), "callreport")),
			SourceSheet:  getEnv("SOURCE_SHEET", report.DefaultSourceSheet),
			Mode:         report.Mode(getEnv("REPORT_MODE", string(report.ModeChart))),
			WeekdaysFile: getEnv("WEEKDAYS_FILE", ""),
		},
		RunLog: RunLogConfig{
			Path: getEnv("RUNLOG_PATH", ""),
		},
	}

	if err := ValidateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// ValidateConfig validates that configuration values are usable
func ValidateConfig(config *Config) error {
	mode, err := report.ParseMode(string(config.Report.Mode))
	if err != nil {
		return fmt.Errorf("REPORT_MODE: %w", err)
	}
	config.Report.Mode = mode

	if config.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", config.Server.MaxUploadMB)
	}
	if config.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if config.Report.ScratchDir == "" {
		return fmt.Errorf("SCRATCH_DIR is required")
	}
	switch config.Server.GinMode {
	case "", "debug", "release", "test":
	default:
		return fmt.Errorf("GIN_MODE must be debug, release or test, got %q", config.Server.GinMode)
	}
	return nil
}

// Helper functions for environment variable access
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
