// Package config provides environment-variable-first configuration loading
// with optional YAML file fallback for the mail gateway.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// sslPort is the SMTP submission port that uses implicit TLS.
const sslPort = 465

// Config holds the complete application configuration.
type Config struct {
	Server   ServerConfig  `yaml:"server"`
	Provider string        `yaml:"provider"`
	SMTP     SMTPConfig    `yaml:"smtp"`
	SES      SESConfig     `yaml:"ses"`
	Resend   ResendConfig  `yaml:"resend"`
	Access   AccessConfig  `yaml:"access"`
	TLS      TLSConfig     `yaml:"tls"`
	Logging  LoggingConfig `yaml:"logging"`
}

// ServerConfig holds the HTTP listener configuration.
type ServerConfig struct {
	Listen string `yaml:"listen"`
}

// SMTPConfig holds the outbound SMTP relay configuration. FromEmail is the
// envelope sender used by every provider, not only SMTP.
type SMTPConfig struct {
	Server    string `yaml:"server"`
	Port      int    `yaml:"port"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	FromEmail string `yaml:"from_email"`
	UseTLS    bool   `yaml:"use_tls"`
}

// SESConfig holds AWS SES v2 credentials for the ses provider.
type SESConfig struct {
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// ResendConfig holds the Resend API key for the resend provider.
type ResendConfig struct {
	APIKey string `yaml:"api_key"`
}

// AccessConfig holds the static access-control settings. An empty APIKey
// disables the key check; an empty AllowedIPs disables the IP check.
type AccessConfig struct {
	APIKey     string   `yaml:"api_key"`
	AllowedIPs []string `yaml:"allowed_ips"`
}

// TLSConfig holds the optional HTTPS settings for the API listener.
type TLSConfig struct {
	CertFile   string `yaml:"cert_file"`
	KeyFile    string `yaml:"key_file"`
	SelfSigned bool   `yaml:"self_signed"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load loads configuration from environment variables with sensible defaults.
// Environment variables always take precedence.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.applyEnvVars()
	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file as the base layer,
// then overrides with environment variables. Returns an error if the
// specified file path does not exist.
func LoadFromFile(path string) (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Environment variables always override YAML values
	cfg.applyEnvVars()

	return cfg, nil
}

// SMTPConfigured returns true if every setting required for SMTP delivery
// is present.
func (c *Config) SMTPConfigured() bool {
	return c.SMTP.Server != "" &&
		c.SMTP.Username != "" &&
		c.SMTP.Password != "" &&
		c.SMTP.FromEmail != ""
}

// UseSSL returns true if the configured SMTP port requires implicit TLS
// rather than STARTTLS.
func (c *Config) UseSSL() bool {
	return c.SMTP.Port == sslPort
}

// APIKeyConfigured returns true if an API key is set.
func (c *Config) APIKeyConfigured() bool {
	return c.Access.APIKey != ""
}

// WhitelistEnabled returns true if at least one allowed IP or CIDR range
// is configured.
func (c *Config) WhitelistEnabled() bool {
	return len(c.Access.AllowedIPs) > 0
}

// applyDefaults sets sensible default values for all configuration fields.
func (c *Config) applyDefaults() {
	c.Server.Listen = ":8000"
	c.Provider = "smtp"
	c.SMTP.Port = 587
	c.SMTP.UseTLS = true
	c.Logging.Level = "info"
}

// applyEnvVars overrides configuration with environment variable values.
// Only non-empty environment variables override existing values.
func (c *Config) applyEnvVars() {
	if v := os.Getenv("LISTEN"); v != "" {
		c.Server.Listen = v
	}
	if v := os.Getenv("PROVIDER"); v != "" {
		c.Provider = strings.ToLower(v)
	}

	if v := os.Getenv("SMTP_SERVER"); v != "" {
		c.SMTP.Server = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.SMTP.Port = port
		}
	}
	if v := os.Getenv("SMTP_USER"); v != "" {
		c.SMTP.Username = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		c.SMTP.Password = v
	}
	if v := os.Getenv("SMTP_FROM_EMAIL"); v != "" {
		c.SMTP.FromEmail = v
	}
	if v := os.Getenv("SMTP_USE_TLS"); v != "" {
		c.SMTP.UseTLS = strings.EqualFold(v, "true")
	}

	if v := os.Getenv("SES_REGION"); v != "" {
		c.SES.Region = v
	}
	if v := os.Getenv("SES_ACCESS_KEY_ID"); v != "" {
		c.SES.AccessKeyID = v
	}
	if v := os.Getenv("SES_SECRET_ACCESS_KEY"); v != "" {
		c.SES.SecretAccessKey = v
	}

	if v := os.Getenv("RESEND_API_KEY"); v != "" {
		c.Resend.APIKey = v
	}

	if v := os.Getenv("API_KEY"); v != "" {
		c.Access.APIKey = v
	}
	if v := os.Getenv("ALLOWED_IPS"); v != "" {
		c.Access.AllowedIPs = splitList(v)
	}

	if v := os.Getenv("TLS_CERT_FILE"); v != "" {
		c.TLS.CertFile = v
	}
	if v := os.Getenv("TLS_KEY_FILE"); v != "" {
		c.TLS.KeyFile = v
	}
	if v := os.Getenv("TLS_SELF_SIGNED"); v != "" {
		c.TLS.SelfSigned = strings.EqualFold(v, "true")
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
}

// splitList splits a comma-separated environment value, trimming whitespace
// and dropping empty entries.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
