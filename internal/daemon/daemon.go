package daemon

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/b0ase/path402/apps/mcstatus/internal/config"
	"github.com/b0ase/path402/apps/mcstatus/internal/metrics"
	"github.com/b0ase/path402/apps/mcstatus/internal/monitor"
	"github.com/b0ase/path402/apps/mcstatus/internal/presenter"
	"github.com/b0ase/path402/apps/mcstatus/internal/provider"
	"github.com/b0ase/path402/apps/mcstatus/internal/resolver"
	"github.com/b0ase/path402/apps/mcstatus/internal/server"
)

// Version is reported by /health, the MCP server and the mobile binding.
const Version = "0.1.0"

// Daemon orchestrates all mcstatus subsystems.
type Daemon struct {
	cfg       *config.Config
	startTime time.Time
	adapters  []provider.Adapter
	metrics   *metrics.Collector
	presenter *presenter.Presenter
	monitor   *monitor.Monitor
	httpSrv   *server.Server
	apiPort   int
	stopCh    chan struct{}
}

// New creates a new daemon instance. The config is validated here so that
// Start only fails on runtime problems.
func New(cfg *config.Config) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Daemon{cfg: cfg, stopCh: make(chan struct{})}, nil
}

// Start initializes and starts all subsystems in order.
func (d *Daemon) Start() error {
	d.startTime = time.Now()

	// 1. Build provider adapters
	adapters, err := d.cfg.Adapters()
	if err != nil {
		return fmt.Errorf("providers: %w", err)
	}
	d.adapters = adapters
	target := d.cfg.Target()
	log.Printf("[daemon] Watching %s (bedrock %s) via %d providers",
		target.JavaAddress(), target.BedrockAddress(), len(adapters))

	// 2. Provider HTTP client
	//    Per-call deadlines come from each adapter, so the client itself has none.
	client := provider.NewClient(&http.Client{}, d.cfg.Poll.UserAgent, provider.Defaults{
		MOTD:    d.cfg.Server.MOTDPlaceholder,
		Version: d.cfg.Server.Version,
	})

	// 3. Metrics
	if d.cfg.Metrics.Enabled {
		d.metrics = metrics.New()
	}

	// 4. Resolver
	res := resolver.New(client)
	res.SetVerbose(d.cfg.Verbose())
	if d.metrics != nil {
		res.OnAttempt(d.metrics.ObserveAttempt)
	}

	// 5. Presenter
	d.presenter = presenter.New(presenter.AddressesOf(target))

	// 6. Monitor
	d.monitor = monitor.New(monitor.Config{
		Target:           target,
		Adapters:         adapters,
		Interval:         d.cfg.Poll.Interval,
		FailureThreshold: d.cfg.Poll.FailureThreshold,
		CheckOnBoot:      d.cfg.Poll.CheckOnBoot,
		ServerName:       d.cfg.Server.Name,
		Version:          d.cfg.Server.Version,
	}, res, d.presenter)
	if d.metrics != nil {
		d.monitor.OnCycle(d.metrics.ObserveCycle)
		d.monitor.OnSkip(d.metrics.ObserveSkip)
		d.metrics.SetServerState(d.monitor.State())
	}
	d.monitor.Start()
	log.Printf("[daemon] Monitor started (interval %v, failure threshold %d)",
		d.cfg.Poll.Interval, d.cfg.Poll.FailureThreshold)

	// 7. Start periodic status logging
	go d.statusLoop()

	// 8. Start HTTP API
	var metricsHandler http.Handler
	if d.metrics != nil {
		metricsHandler = d.metrics.Handler()
	}
	d.httpSrv = server.New(d.cfg.API.Bind, d.cfg.API.Port, d, metricsHandler)
	if port, err := d.httpSrv.Start(); err != nil {
		log.Printf("[daemon] WARNING: HTTP API failed to start: %v (monitoring continues)", err)
		d.httpSrv = nil
	} else {
		d.apiPort = port
		log.Printf("[daemon] HTTP API on port %d", port)
	}

	log.Println("[daemon] All systems online")
	return nil
}

func (d *Daemon) statusLoop() {
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-d.stopCh:
			return
		case <-ticker.C:
			s := d.monitor.State()
			last := "never"
			if !s.LastUpdate.IsZero() {
				last = time.Since(s.LastUpdate).Round(time.Second).String() + " ago"
			}
			log.Printf("[daemon] Online: %v | Players: %d/%d | Streak: %d | Via: %s | Updated: %s | Skipped: %d",
				s.Online, s.Players.Online, s.Players.Max, s.ErrorCount, s.LastProvider, last, d.monitor.Skipped())
		}
	}
}

// Stop shuts down all subsystems in reverse order.
func (d *Daemon) Stop() {
	log.Println("[daemon] Shutting down...")
	close(d.stopCh)

	if d.httpSrv != nil {
		d.httpSrv.Stop()
	}
	if d.monitor != nil {
		d.monitor.Stop()
	}

	log.Println("[daemon] Shutdown complete")
}

// --- Status accessors (used by HTTP API, MCP and mobile) ---

func (d *Daemon) Version() string       { return Version }
func (d *Daemon) Uptime() time.Duration { return time.Since(d.startTime) }
func (d *Daemon) APIPort() int          { return d.apiPort }

func (d *Daemon) State() monitor.State                     { return d.monitor.State() }
func (d *Daemon) View() presenter.View                     { return d.presenter.View() }
func (d *Daemon) LastNotification() (presenter.Note, bool) { return d.presenter.LastNotification() }
func (d *Daemon) Addresses() presenter.Addresses           { return d.presenter.Addresses() }

func (d *Daemon) Target() provider.Target       { return d.monitor.Target() }
func (d *Daemon) Providers() []provider.Adapter { return d.monitor.Adapters() }
func (d *Daemon) PollInterval() time.Duration   { return d.monitor.Interval() }
func (d *Daemon) FailureThreshold() int         { return d.monitor.FailureThreshold() }

// Refresh runs a manual check. It returns false if one was already running.
func (d *Daemon) Refresh() bool {
	return d.monitor.Refresh()
}

// SimulateOnline forces an online state for testing the status surfaces.
func (d *Daemon) SimulateOnline(players int, pingMS float64) monitor.State {
	s := d.monitor.SimulateOnline(players, pingMS)
	if d.metrics != nil {
		d.metrics.SetServerState(s)
	}
	return s
}

// SimulateOffline forces the unreachable state.
func (d *Daemon) SimulateOffline() monitor.State {
	s := d.monitor.SimulateOffline()
	if d.metrics != nil {
		d.metrics.SetServerState(s)
	}
	return s
}
