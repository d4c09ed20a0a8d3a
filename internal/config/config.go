package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds user preferences
type Config struct {
	// Storage configuration
	Storage string `yaml:"storage" json:"storage"`   // Backend: file, sqlite, postgres
	DSN     string `yaml:"dsn" json:"dsn"`           // Database path or connection string
	DataDir string `yaml:"data_dir" json:"data_dir"` // Directory for the file backend
	Encrypt bool   `yaml:"encrypt" json:"encrypt"`   // Seal stored collections with a passphrase

	ServerAddr string `yaml:"server_addr" json:"server_addr"` // Listen address for pintask serve
	Bell       bool   `yaml:"bell" json:"bell"`               // Ring the terminal bell when a timer completes

	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level"`     // Log level: DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" json:"log_file"`       // Path to log file
	LogConsole bool   `yaml:"log_console" json:"log_console"` // Enable console logging
	LogFormat  string `yaml:"log_format" json:"log_format"`   // text or json
}

// Dir returns ~/.pintask
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".pintask"), nil
}

// Path returns the config file location
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	dir, _ := Dir()
	logPath := ""
	dataDir := ""
	if dir != "" {
		logPath = filepath.Join(dir, "logs", "pintask.log")
		dataDir = filepath.Join(dir, "data")
	}

	return &Config{
		Storage:    "sqlite",
		DataDir:    dataDir,
		ServerAddr: "localhost:8765",
		Bell:       true,
		LogLevel:   "INFO",
		LogFile:    logPath,
		LogFormat:  "text",
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// applyEnv lets PINTASK_* variables override file values
func (c *Config) applyEnv() {
	c.LogLevel = getEnv("PINTASK_LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnv("PINTASK_LOG_FILE", c.LogFile)
	c.LogFormat = getEnv("PINTASK_LOG_FORMAT", c.LogFormat)
	if v := os.Getenv("PINTASK_LOG_CONSOLE"); v != "" {
		c.LogConsole = strings.EqualFold(v, "true") || v == "1"
	}
	c.Storage = getEnv("PINTASK_STORAGE", c.Storage)
	c.DSN = getEnv("PINTASK_DSN", c.DSN)
	c.DataDir = getEnv("PINTASK_DATA_DIR", c.DataDir)
	c.ServerAddr = getEnv("PINTASK_SERVER_ADDR", c.ServerAddr)
}

// Load loads config from ~/.pintask/config.yaml
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads config from path, falling back to defaults when it does not exist
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// Save saves config to ~/.pintask/config.yaml
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes config to path
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
