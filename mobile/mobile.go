// Package mobile provides gomobile-bindable functions for the mcstatus daemon.
// All complex data is returned as JSON strings since gomobile cannot export
// maps, slices, or structs with unexported fields.
package mobile

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/b0ase/path402/apps/mcstatus/internal/config"
	"github.com/b0ase/path402/apps/mcstatus/internal/daemon"

	// Required by gomobile bind at build time
	_ "golang.org/x/mobile/bind"
)

var (
	mu      sync.Mutex
	d       *daemon.Daemon
	running bool
	apiPort int
)

// Start initialises and starts the mcstatus daemon.
// configYAML may be empty to use defaults.
func Start(configYAML string) error {
	mu.Lock()
	defer mu.Unlock()

	if running {
		return fmt.Errorf("already running")
	}

	cfg, err := config.LoadFromBytes([]byte(configYAML))
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	// On mobile, bind to all interfaces so the status page is reachable from the webview
	cfg.API.Bind = "0.0.0.0"

	d, err = daemon.New(cfg)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	if err := d.Start(); err != nil {
		d = nil
		return fmt.Errorf("start daemon: %w", err)
	}

	apiPort = d.APIPort()
	running = true
	return nil
}

// Stop gracefully shuts down the daemon.
func Stop() {
	mu.Lock()
	defer mu.Unlock()

	if d != nil {
		d.Stop()
		d = nil
	}
	running = false
	apiPort = 0
}

// IsRunning returns true if the daemon is currently running.
func IsRunning() bool {
	mu.Lock()
	defer mu.Unlock()
	return running
}

// GetStatus returns the raw server state as a JSON string.
func GetStatus() string {
	mu.Lock()
	defer mu.Unlock()

	if d == nil {
		return `{"running":false}`
	}

	status := map[string]interface{}{
		"running":   true,
		"uptime_ms": d.Uptime().Milliseconds(),
		"target":    d.Target(),
		"state":     d.State(),
	}

	data, _ := json.Marshal(status)
	return string(data)
}

// GetView returns the display-ready view as a JSON string.
func GetView() string {
	mu.Lock()
	defer mu.Unlock()

	if d == nil {
		return `{"running":false}`
	}
	data, _ := json.Marshal(d.View())
	return string(data)
}

// Refresh runs a manual check and returns {"ran":bool,"state":{...}}.
// ran is false when a check was already in progress.
func Refresh() string {
	mu.Lock()
	cur := d
	mu.Unlock()

	if cur == nil {
		return `{"error":"daemon not running"}`
	}
	// Blocks until the providers answer; the lock is not held so Stop and
	// the getters stay responsive.
	ran := cur.Refresh()
	data, _ := json.Marshal(map[string]interface{}{
		"ran":   ran,
		"state": cur.State(),
	})
	return string(data)
}

// GetAddresses returns {"java":"host:port","bedrock":"host:port"}.
func GetAddresses() string {
	mu.Lock()
	defer mu.Unlock()

	if d == nil {
		return `{"error":"daemon not running"}`
	}
	data, _ := json.Marshal(d.Addresses())
	return string(data)
}

// GetAPIPort returns the port the HTTP API is listening on.
func GetAPIPort() int {
	mu.Lock()
	defer mu.Unlock()
	return apiPort
}

// GetVersion returns the mcstatus version string.
func GetVersion() string {
	return daemon.Version
}
