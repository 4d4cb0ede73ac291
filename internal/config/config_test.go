package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/b0ase/path402/apps/mcstatus/internal/provider"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Poll.Interval != 30*time.Second || cfg.Poll.FailureThreshold != 3 {
		t.Errorf("poll = %+v", cfg.Poll)
	}
	if len(cfg.Providers) != 3 {
		t.Errorf("providers = %d, want 3", len(cfg.Providers))
	}
	if got := cfg.Target().JavaAddress(); got != "185.22.154.9:29067" {
		t.Errorf("java address = %q", got)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Host != DefaultConfig().Server.Host {
		t.Errorf("host = %q", cfg.Server.Host)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcstatus.yaml")
	data := `
server:
  host: play.example.net
  java_port: 25565
poll:
  interval: 10s
providers:
  - name: mcapi
    url: http://127.0.0.1:9000/
    timeout: 2s
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Host != "play.example.net" || cfg.Server.JavaPort != 25565 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Server.BedrockPort != 19132 {
		t.Errorf("bedrock port = %d, want default 19132", cfg.Server.BedrockPort)
	}
	if cfg.Poll.Interval != 10*time.Second {
		t.Errorf("interval = %v", cfg.Poll.Interval)
	}
	if !cfg.Verbose() {
		t.Error("Verbose = false for level debug")
	}

	adapters, err := cfg.Adapters()
	if err != nil {
		t.Fatalf("Adapters: %v", err)
	}
	if len(adapters) != 1 {
		t.Fatalf("adapters = %d, want 1 (file list replaces defaults)", len(adapters))
	}
	if adapters[0].Kind != provider.MCStatus || adapters[0].Timeout != 2*time.Second {
		t.Errorf("adapter = %+v", adapters[0])
	}
}

func TestLoadFromBytesKeepsDefaultProviders(t *testing.T) {
	cfg, err := LoadFromBytes([]byte("api:\n  port: 9000\n"))
	if err != nil {
		t.Fatalf("LoadFromBytes: %v", err)
	}
	if len(cfg.Providers) != 3 {
		t.Errorf("providers = %d, want 3", len(cfg.Providers))
	}
	if cfg.API.Port != 9000 {
		t.Errorf("port = %d", cfg.API.Port)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	if _, err := LoadFromBytes([]byte("server: [")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEnvOverlay(t *testing.T) {
	t.Setenv("MCSTATUS_HOST", "mc.example.org")
	t.Setenv("MCSTATUS_JAVA_PORT", "25566")
	t.Setenv("MCSTATUS_POLL_INTERVAL", "1m")
	t.Setenv("MCSTATUS_API_PORT", "9100")

	cfg, err := LoadFromBytes(nil)
	if err != nil {
		t.Fatalf("LoadFromBytes: %v", err)
	}
	if cfg.Server.Host != "mc.example.org" || cfg.Server.JavaPort != 25566 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Poll.Interval != time.Minute {
		t.Errorf("interval = %v", cfg.Poll.Interval)
	}
	if cfg.API.Port != 9100 {
		t.Errorf("api port = %d", cfg.API.Port)
	}
}

func TestEnvOverlayBadPort(t *testing.T) {
	t.Setenv("MCSTATUS_JAVA_PORT", "abc")
	if _, err := LoadFromBytes(nil); err == nil {
		t.Fatal("expected error for non-numeric port")
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Host = ""
	cfg.Server.JavaPort = 70000
	cfg.Poll.Interval = 0
	cfg.Poll.FailureThreshold = 0
	cfg.Providers = append(cfg.Providers,
		ProviderConfig{Name: "MCAPI"},
		ProviderConfig{Name: "mojang"},
	)

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate returned nil")
	}
	for _, want := range []string{
		"server.host",
		"server.java_port",
		"poll.interval",
		"poll.failure_threshold",
		"duplicate provider MCAPI",
		"unknown status provider",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestValidateNoProviders(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Providers = nil
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "no providers") {
		t.Errorf("err = %v, want no providers", err)
	}
}

func TestValidateNegativeProviderTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Providers[0].Timeout = -time.Second
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "providers[0]: timeout -1s must not be negative") {
		t.Errorf("err = %v, want negative timeout error", err)
	}

	cfg.Providers[0].Timeout = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("zero timeout rejected: %v", err)
	}
}
