package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds user preferences
type Config struct {
	DatabasePath string `yaml:"database_path" json:"database_path"` // SQLite file location
	SingleActive bool   `yaml:"single_active" json:"single_active"` // One running entry system-wide

	// Backup configuration
	BackupDir     string `yaml:"backup_dir" json:"backup_dir"`           // Where timestamped copies go
	BackupMaxDays int    `yaml:"backup_max_days" json:"backup_max_days"` // Backup when newest copy is older than this

	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level"`     // Log level: DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" json:"log_file"`       // Path to log file
	LogConsole bool   `yaml:"log_console" json:"log_console"` // Enable console logging
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	dbPath := ""
	backupDir := ""
	logPath := ""
	if home != "" {
		dbPath = filepath.Join(home, ".daytrack", "daytrack.db")
		backupDir = filepath.Join(home, ".daytrack", "backups")
		logPath = filepath.Join(home, ".daytrack", "logs", "daytrack.log")
	}

	return &Config{
		DatabasePath:  getEnv("DAYTRACK_DB", dbPath),
		SingleActive:  getEnv("DAYTRACK_SINGLE_ACTIVE", "true") != "false",
		BackupDir:     getEnv("DAYTRACK_BACKUP_DIR", backupDir),
		BackupMaxDays: 7,
		LogLevel:      getEnv("DAYTRACK_LOG_LEVEL", "INFO"),
		LogFile:       getEnv("DAYTRACK_LOG_FILE", logPath),
		LogConsole:    getEnv("DAYTRACK_LOG_CONSOLE", "false") == "true",
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Load loads config from ~/.daytrack/config.yaml
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(filepath.Join(home, ".daytrack", "config.yaml"))
}

// LoadFrom loads config from an explicit path, falling back to
// defaults when the file does not exist.
func LoadFrom(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save saves config to ~/.daytrack/config.yaml
func (c *Config) Save() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	configDir := filepath.Join(home, ".daytrack")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
