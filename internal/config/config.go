package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/b0ase/path402/apps/mcstatus/internal/provider"
)

type ServerConfig struct {
	Name            string `yaml:"name"` // shown as the MOTD until the first check completes
	Host            string `yaml:"host"`
	JavaPort        int    `yaml:"java_port"`
	BedrockPort     int    `yaml:"bedrock_port"`
	Version         string `yaml:"version"` // fallback when a provider omits the version
	MOTDPlaceholder string `yaml:"motd_placeholder"`
}

type PollConfig struct {
	Interval         time.Duration `yaml:"interval"`
	FailureThreshold int           `yaml:"failure_threshold"`
	CheckOnBoot      bool          `yaml:"check_on_boot"`
	UserAgent        string        `yaml:"user_agent"`
}

type ProviderConfig struct {
	Name    string        `yaml:"name"`
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type APIConfig struct {
	Port int    `yaml:"port"`
	Bind string `yaml:"bind"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type Config struct {
	Server    ServerConfig     `yaml:"server"`
	Poll      PollConfig       `yaml:"poll"`
	Providers []ProviderConfig `yaml:"providers"`
	API       APIConfig        `yaml:"api"`
	Metrics   MetricsConfig    `yaml:"metrics"`
	Log       LogConfig        `yaml:"log"`
}

func DefaultConfig() *Config {
	providers := make([]ProviderConfig, 0, 3)
	for _, a := range provider.DefaultAdapters() {
		providers = append(providers, ProviderConfig{Name: a.Name(), URL: a.BaseURL, Timeout: a.Timeout})
	}
	return &Config{
		Server: ServerConfig{
			Name:            "PSMC - Prosto Server Minecraft",
			Host:            "185.22.154.9",
			JavaPort:        29067,
			BedrockPort:     19132,
			Version:         "1.21.11",
			MOTDPlaceholder: provider.DefaultMOTD,
		},
		Poll: PollConfig{
			Interval:         30 * time.Second,
			FailureThreshold: 3,
			CheckOnBoot:      true,
			UserAgent:        provider.DefaultUserAgent,
		},
		Providers: providers,
		API: APIConfig{
			Port: 8425,
			Bind: "127.0.0.1",
		},
		Metrics: MetricsConfig{Enabled: true},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns ~/.mcstatus/mcstatus.yaml.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".mcstatus", "mcstatus.yaml")
}

// Load reads a YAML config file and merges it with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file, defaults + env overlay
			return LoadFromBytes(nil)
		}
		return nil, err
	}
	cfg, err := LoadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromBytes parses YAML config from bytes and merges with defaults.
// Used by the mobile package where there's no config file on disk.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if len(data) > 0 {
		// A providers list in the file replaces the defaults rather than
		// merging element by element.
		cfg.Providers = nil
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
		if cfg.Providers == nil {
			cfg.Providers = DefaultConfig().Providers
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays environment variables on top of config values.
func (c *Config) applyEnv() error {
	if v := os.Getenv("MCSTATUS_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("MCSTATUS_VERSION"); v != "" {
		c.Server.Version = v
	}
	if v := os.Getenv("MCSTATUS_API_BIND"); v != "" {
		c.API.Bind = v
	}
	if v := os.Getenv("MCSTATUS_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	for env, dst := range map[string]*int{
		"MCSTATUS_JAVA_PORT":    &c.Server.JavaPort,
		"MCSTATUS_BEDROCK_PORT": &c.Server.BedrockPort,
		"MCSTATUS_API_PORT":     &c.API.Port,
	} {
		if v := os.Getenv(env); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", env, err)
			}
			*dst = n
		}
	}
	if v := os.Getenv("MCSTATUS_POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("MCSTATUS_POLL_INTERVAL: %w", err)
		}
		c.Poll.Interval = d
	}
	return nil
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.Host) == "" {
		errs = append(errs, errors.New("server.host is empty"))
	}
	if !validPort(c.Server.JavaPort) {
		errs = append(errs, fmt.Errorf("server.java_port %d out of range", c.Server.JavaPort))
	}
	if !validPort(c.Server.BedrockPort) {
		errs = append(errs, fmt.Errorf("server.bedrock_port %d out of range", c.Server.BedrockPort))
	}
	if c.Poll.Interval <= 0 {
		errs = append(errs, fmt.Errorf("poll.interval %v must be positive", c.Poll.Interval))
	}
	if c.Poll.FailureThreshold < 1 {
		errs = append(errs, fmt.Errorf("poll.failure_threshold %d must be at least 1", c.Poll.FailureThreshold))
	}
	if len(c.Providers) == 0 {
		errs = append(errs, errors.New("no providers configured"))
	}
	seen := make(map[provider.Kind]bool)
	for i, p := range c.Providers {
		k, err := provider.ParseKind(p.Name)
		if err != nil {
			errs = append(errs, fmt.Errorf("providers[%d]: %w", i, err))
			continue
		}
		if seen[k] {
			errs = append(errs, fmt.Errorf("providers[%d]: duplicate provider %s", i, k))
		}
		seen[k] = true
		if p.Timeout < 0 {
			errs = append(errs, fmt.Errorf("providers[%d]: timeout %v must not be negative", i, p.Timeout))
		}
	}
	if c.API.Port != 0 && !validPort(c.API.Port) {
		errs = append(errs, fmt.Errorf("api.port %d out of range", c.API.Port))
	}
	return errors.Join(errs...)
}

// Target returns the watched server.
func (c *Config) Target() provider.Target {
	return provider.Target{Host: c.Server.Host, JavaPort: c.Server.JavaPort, BedrockPort: c.Server.BedrockPort}
}

// Adapters builds the configured providers. Validate should be called first.
func (c *Config) Adapters() ([]provider.Adapter, error) {
	out := make([]provider.Adapter, 0, len(c.Providers))
	for _, p := range c.Providers {
		a, err := provider.NewAdapter(p.Name, p.URL, p.Timeout)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// Verbose reports whether per-provider logging is enabled.
func (c *Config) Verbose() bool {
	return strings.EqualFold(c.Log.Level, "debug")
}

func validPort(p int) bool {
	return p > 0 && p <= 65535
}
