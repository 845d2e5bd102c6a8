package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the default config file location.
const DefaultPath = "/etc/certgate/config.yaml"

// Config represents the application configuration
type Config struct {
	Gateway GatewayConfig `yaml:"gateway"`
	SSH     SSHConfig     `yaml:"ssh"`
	Renewal RenewalConfig `yaml:"renewal"`

	// LockFile serializes concurrent invocations.
	LockFile string `yaml:"lock_file"`

	// AuditLog is the append-only structured log file. Empty disables
	// the file sink (console logging only).
	AuditLog string `yaml:"audit_log"`
}

// GatewayConfig describes the gateway's two security-control files and
// the command that activates pending edits.
type GatewayConfig struct {
	GeoFilterFile   string   `yaml:"geo_filter_file"`
	GeoFilterKey    string   `yaml:"geo_filter_key"`
	ForwardRuleFile string   `yaml:"forward_rule_file"`
	ReloadCommand   []string `yaml:"reload_command"`
}

// SSHConfig describes the restricted remote channel to the certificate host.
type SSHConfig struct {
	Port           int    `yaml:"port"`
	KeyFile        string `yaml:"key_file"`
	KnownHostsFile string `yaml:"known_hosts_file"`

	// Timeouts in seconds. A hung remote session must never stall the
	// restoration pass, so both are always bounded.
	ConnectTimeoutSec int `yaml:"connect_timeout_sec"`
	CommandTimeoutSec int `yaml:"command_timeout_sec"`
}

// RenewalConfig holds the expiry decision parameters.
type RenewalConfig struct {
	// ThresholdDays triggers renewal when days remaining <= threshold.
	ThresholdDays int `yaml:"threshold_days"`
}

// New creates a new Config with default values
func New() *Config {
	return &Config{
		Gateway: GatewayConfig{
			GeoFilterFile:   "/etc/gateway/geo_filter.conf",
			GeoFilterKey:    "GEO_FILTER",
			ForwardRuleFile: "/etc/gateway/port_forward.conf",
			ReloadCommand:   []string{"filterctl", "reload"},
		},
		SSH: SSHConfig{
			Port:              22,
			KeyFile:           "/root/.ssh/id_ed25519",
			KnownHostsFile:    "/root/.ssh/known_hosts",
			ConnectTimeoutSec: 15,
			CommandTimeoutSec: 300,
		},
		Renewal: RenewalConfig{
			ThresholdDays: 30,
		},
		LockFile: "/run/certgate.lock",
		AuditLog: "/var/log/certgate.log",
	}
}

// Load reads the config from the given path. A missing file yields the
// default config, matching a first run on a freshly provisioned gateway.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return New(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := New()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the config to the given path.
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate checks the config for values the orchestrator cannot run with.
func (c *Config) Validate() error {
	if c.Gateway.GeoFilterFile == "" {
		return fmt.Errorf("gateway.geo_filter_file cannot be empty")
	}
	if c.Gateway.GeoFilterKey == "" {
		return fmt.Errorf("gateway.geo_filter_key cannot be empty")
	}
	if c.Gateway.ForwardRuleFile == "" {
		return fmt.Errorf("gateway.forward_rule_file cannot be empty")
	}
	if len(c.Gateway.ReloadCommand) == 0 {
		return fmt.Errorf("gateway.reload_command cannot be empty")
	}
	if c.SSH.Port <= 0 || c.SSH.Port > 65535 {
		return fmt.Errorf("ssh.port must be in 1-65535, got %d", c.SSH.Port)
	}
	if c.SSH.ConnectTimeoutSec <= 0 {
		return fmt.Errorf("ssh.connect_timeout_sec must be positive, got %d", c.SSH.ConnectTimeoutSec)
	}
	if c.SSH.CommandTimeoutSec <= 0 {
		return fmt.Errorf("ssh.command_timeout_sec must be positive, got %d", c.SSH.CommandTimeoutSec)
	}
	if c.Renewal.ThresholdDays < 0 {
		return fmt.Errorf("renewal.threshold_days cannot be negative, got %d", c.Renewal.ThresholdDays)
	}
	if c.LockFile == "" {
		return fmt.Errorf("lock_file cannot be empty")
	}
	return nil
}

// ConnectTimeout returns the SSH connect timeout as a duration.
func (s SSHConfig) ConnectTimeout() time.Duration {
	return time.Duration(s.ConnectTimeoutSec) * time.Second
}

// CommandTimeout returns the per-command deadline as a duration.
func (s SSHConfig) CommandTimeout() time.Duration {
	return time.Duration(s.CommandTimeoutSec) * time.Second
}
