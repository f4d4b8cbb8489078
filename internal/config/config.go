package config

import (
	"os"
	"path/filepath"
	"strconv"

	"batch-scanner/internal/domain"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort      string
	LogLevel        string
	ScanBinary      string
	ScanTimeout     int
	OutputPath      string
	FilenamePrefix  string
	MaxSessionPages int
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return &AppConfig{
		// PORT wins so the tool plays nice under process managers;
		// SERVER_PORT kept for local/dev compatibility.
		ServerPort:      getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		LogLevel:        getEnvOrDefault("LOG_LEVEL", "info"),
		ScanBinary:      getEnvOrDefault("SCANIMAGE_BIN", "scanimage"),
		ScanTimeout:     getEnvIntOrDefault("SCAN_TIMEOUT_SECONDS", 60),
		OutputPath:      getEnvOrDefault("OUTPUT_PATH", defaultOutputPath()),
		FilenamePrefix:  getEnvOrDefault("FILENAME_PREFIX", "scan"),
		MaxSessionPages: getEnvIntOrDefault("MAX_SESSION_PAGES", 0), // 0 = unlimited
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetScanBinary returns the scanimage binary name or path
func (c *AppConfig) GetScanBinary() string {
	return c.ScanBinary
}

// GetScanTimeout returns the per-capture timeout in seconds
func (c *AppConfig) GetScanTimeout() int {
	return c.ScanTimeout
}

// GetOutputPath returns the default save directory
func (c *AppConfig) GetOutputPath() string {
	return c.OutputPath
}

// GetFilenamePrefix returns the default filename prefix
func (c *AppConfig) GetFilenamePrefix() string {
	return c.FilenamePrefix
}

// GetMaxSessionPages returns the soft session page cap (0 = unlimited)
func (c *AppConfig) GetMaxSessionPages() int {
	return c.MaxSessionPages
}

func defaultOutputPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./scanned_documents"
	}
	return filepath.Join(home, "scanned_documents")
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
