// Package config provides configuration management for voicenotes.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Default values for the server and its external services.
const (
	DefaultBind           = "0.0.0.0"
	DefaultPort           = 5001
	DefaultSMTPHost       = "smtp.gmail.com"
	DefaultSMTPPort       = 587
	DefaultOCRCommand     = "tesseract"
	DefaultOCRLanguage    = "eng"
	DefaultMaxFiles       = 10
	DefaultMaxUploadBytes = 32 << 20
	DefaultUploadDir      = "uploads"
)

// Config holds the process-wide configuration, resolved once at startup.
type Config struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`

	// Mail transport credentials. Absence is not validated here: a
	// missing credential surfaces as a delivery failure at send time.
	EmailUser string `yaml:"email_user"`
	EmailPass string `yaml:"email_pass"`
	SMTPHost  string `yaml:"smtp_host"`
	SMTPPort  int    `yaml:"smtp_port"`

	OCRCommand     string `yaml:"ocr_command"`
	OCRLanguage    string `yaml:"ocr_language"`
	MaxFiles       int    `yaml:"max_files"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
	UploadDir      string `yaml:"upload_dir"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Bind:           DefaultBind,
		Port:           DefaultPort,
		SMTPHost:       DefaultSMTPHost,
		SMTPPort:       DefaultSMTPPort,
		OCRCommand:     DefaultOCRCommand,
		OCRLanguage:    DefaultOCRLanguage,
		MaxFiles:       DefaultMaxFiles,
		MaxUploadBytes: DefaultMaxUploadBytes,
		UploadDir:      DefaultUploadDir,
		LogLevel:       "info",
	}
}

// Load returns the defaults merged with an optional YAML file. A missing
// file is not an error; an unreadable or malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays environment variables on top of the current values.
// Callers load .env into the environment (godotenv) before calling this.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	if v := os.Getenv("BIND"); v != "" {
		c.Bind = v
	}
	if v := os.Getenv("EMAIL_USER"); v != "" {
		c.EmailUser = v
	}
	if v := os.Getenv("EMAIL_PASS"); v != "" {
		c.EmailPass = v
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		c.SMTPHost = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.SMTPPort = port
		}
	}
	if v := os.Getenv("OCR_COMMAND"); v != "" {
		c.OCRCommand = v
	}
	if v := os.Getenv("OCR_LANGUAGE"); v != "" {
		c.OCRLanguage = v
	}
	if v := os.Getenv("UPLOAD_DIR"); v != "" {
		c.UploadDir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Addr returns the listen address in host:port form.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Bind, c.Port)
}

// EnsureUploadDir creates the upload staging directory if needed.
func (c Config) EnsureUploadDir() error {
	return os.MkdirAll(c.UploadDir, 0o755)
}
