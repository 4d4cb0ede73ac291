// Package monitor owns the watched server's state and runs the poll cycle:
// resolve, apply the failure-streak policy, and hand the result to the
// presentation layer.
package monitor

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/b0ase/path402/apps/mcstatus/internal/provider"
	"github.com/b0ase/path402/apps/mcstatus/internal/resolver"
)

// Level classifies a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a short user-facing message raised by a check.
type Notification struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// CouldNotCheckMessage is shown when a non-initial check fails. Provider
// error text is never surfaced.
const CouldNotCheckMessage = "Could not check the server"

// Presenter receives the output of each poll cycle.
type Presenter interface {
	CheckStarted()
	Render(State)
	Notify(Notification)
	CheckFinished()
}

// Resolver races the configured providers. *resolver.Resolver implements it.
type Resolver interface {
	Resolve(ctx context.Context, target provider.Target, adapters []provider.Adapter) (resolver.Result, error)
}

// Trigger says what started a check.
type Trigger int

const (
	TriggerInitial Trigger = iota
	TriggerTimer
	TriggerManual
)

func (t Trigger) String() string {
	switch t {
	case TriggerInitial:
		return "initial"
	case TriggerTimer:
		return "timer"
	case TriggerManual:
		return "manual"
	default:
		return fmt.Sprintf("trigger(%d)", int(t))
	}
}

// Cycle summarises one completed poll cycle.
type Cycle struct {
	Trigger Trigger
	Outcome Outcome
	State   State
	Err     error
	Elapsed time.Duration
}

// CycleHandler observes completed cycles.
type CycleHandler func(Cycle)

// Config configures a Monitor.
type Config struct {
	Target           provider.Target
	Adapters         []provider.Adapter
	Interval         time.Duration
	FailureThreshold int
	CheckOnBoot      bool
	ServerName       string
	Version          string
}

// Monitor runs poll cycles against the configured target. At most one cycle
// is in flight at a time.
type Monitor struct {
	cfg       Config
	resolver  Resolver
	presenter Presenter

	inFlight atomic.Bool
	skipped  atomic.Int64

	mu      sync.RWMutex
	state   State
	onCycle CycleHandler
	onSkip  func(Trigger)

	now    func() time.Time
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a Monitor. presenter may be nil.
func New(cfg Config, r Resolver, presenter Presenter) *Monitor {
	if cfg.Interval == 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = DefaultFailureThreshold
	}
	if presenter == nil {
		presenter = nopPresenter{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Monitor{
		cfg:       cfg,
		resolver:  r,
		presenter: presenter,
		state:     InitialState(cfg.ServerName, cfg.Version),
		now:       time.Now,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
}

// OnCycle registers a handler called after every completed cycle.
func (m *Monitor) OnCycle(fn CycleHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onCycle = fn
}

// OnSkip registers a handler called when a check is ignored because another
// one is in flight.
func (m *Monitor) OnSkip(fn func(Trigger)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onSkip = fn
}

// Start renders the initial state and begins the poll loop.
func (m *Monitor) Start() {
	m.presenter.Render(m.State())
	go m.run()
}

// Stop cancels the poll loop and waits for it to exit. A check already in
// flight is abandoned; its provider calls end at their own deadlines.
func (m *Monitor) Stop() {
	m.cancel()
	<-m.done
	log.Println("[monitor] Poll loop stopped")
}

// State returns a copy of the current state.
func (m *Monitor) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Target returns the watched server.
func (m *Monitor) Target() provider.Target {
	return m.cfg.Target
}

// Adapters returns the configured providers.
func (m *Monitor) Adapters() []provider.Adapter {
	out := make([]provider.Adapter, len(m.cfg.Adapters))
	copy(out, m.cfg.Adapters)
	return out
}

// Interval returns the poll interval.
func (m *Monitor) Interval() time.Duration {
	return m.cfg.Interval
}

// FailureThreshold returns the streak length that marks the server unreachable.
func (m *Monitor) FailureThreshold() int {
	return m.cfg.FailureThreshold
}

// Skipped returns how many checks were ignored because one was in flight.
func (m *Monitor) Skipped() int64 {
	return m.skipped.Load()
}

// Refresh runs a manual check and blocks until it completes. It reports
// false without doing anything if a check is already in flight.
func (m *Monitor) Refresh() bool {
	return m.Check(m.ctx, TriggerManual)
}

// Check runs one poll cycle. Calls made while another cycle is in flight
// return false immediately and issue no requests.
func (m *Monitor) Check(ctx context.Context, trigger Trigger) bool {
	if !m.inFlight.CompareAndSwap(false, true) {
		m.skipped.Add(1)
		m.mu.RLock()
		onSkip := m.onSkip
		m.mu.RUnlock()
		if onSkip != nil {
			onSkip(trigger)
		}
		return false
	}
	defer m.inFlight.Store(false)

	start := m.now()
	m.setChecking(true)
	m.presenter.CheckStarted()

	res, err := m.resolver.Resolve(ctx, m.cfg.Target, m.cfg.Adapters)

	m.mu.Lock()
	outcome := Resolved
	if err != nil {
		outcome = Failed
		m.state = m.state.ApplyFailure(m.cfg.FailureThreshold)
	} else {
		m.state = m.state.ApplySuccess(res.Snapshot, res.Provider, m.now())
	}
	snapshot := m.state
	onCycle := m.onCycle
	m.mu.Unlock()

	m.presenter.Render(snapshot)

	switch {
	case err != nil:
		log.Printf("[monitor] Check failed (%s, streak %d): %v", trigger, snapshot.ErrorCount, err)
		if snapshot.Unreachable && snapshot.ErrorCount == m.cfg.FailureThreshold {
			log.Printf("[monitor] Server marked unreachable after %d failed checks", snapshot.ErrorCount)
		}
		if trigger != TriggerInitial {
			m.presenter.Notify(Notification{Level: LevelError, Message: CouldNotCheckMessage, At: m.now()})
		}
	case trigger == TriggerManual:
		if snapshot.Online {
			m.presenter.Notify(Notification{
				Level:   LevelSuccess,
				Message: fmt.Sprintf("Server online. Players: %d", snapshot.Players.Online),
				At:      m.now(),
			})
		} else {
			m.presenter.Notify(Notification{Level: LevelInfo, Message: "Server offline", At: m.now()})
		}
	}

	elapsed := m.now().Sub(start)
	if err == nil {
		log.Printf("[monitor] Check complete via %s in %dms (online=%v players=%d/%d)",
			res.Provider, elapsed.Milliseconds(), snapshot.Online, snapshot.Players.Online, snapshot.Players.Max)
	}

	m.setChecking(false)
	m.presenter.CheckFinished()

	if onCycle != nil {
		snapshot.Checking = false
		onCycle(Cycle{Trigger: trigger, Outcome: outcome, State: snapshot, Err: err, Elapsed: elapsed})
	}
	return true
}

// SimulateOnline sets an online state without querying any provider.
func (m *Monitor) SimulateOnline(players int, pingMS float64) State {
	m.mu.Lock()
	snap := provider.Snapshot{
		Online:       true,
		Players:      provider.Players{Online: players, Max: m.state.Players.Max},
		MOTD:         "Test mode",
		Version:      m.cfg.Version,
		PingMS:       pingMS,
		PingMeasured: pingMS > 0,
	}
	if snap.Players.Max <= 0 {
		snap.Players.Max = provider.DefaultMaxPlayers
	}
	m.state = m.state.ApplySuccess(snap, "SIMULATED", m.now())
	s := m.state
	m.mu.Unlock()

	log.Printf("[monitor] Simulated online state (%d players, %.0fms)", players, pingMS)
	m.presenter.Render(s)
	m.presenter.Notify(Notification{
		Level:   LevelInfo,
		Message: fmt.Sprintf("Simulation: server online (%d players)", players),
		At:      s.LastUpdate,
	})
	return s
}

// SimulateOffline sets the unreachable state without querying any provider.
func (m *Monitor) SimulateOffline() State {
	m.mu.Lock()
	m.state = m.state.forceOffline()
	m.state.LastUpdate = m.now()
	s := m.state
	m.mu.Unlock()

	log.Println("[monitor] Simulated offline state")
	m.presenter.Render(s)
	m.presenter.Notify(Notification{Level: LevelInfo, Message: "Simulation: server offline", At: s.LastUpdate})
	return s
}

func (m *Monitor) setChecking(v bool) {
	m.mu.Lock()
	m.state.Checking = v
	m.mu.Unlock()
}

func (m *Monitor) run() {
	defer close(m.done)

	if m.cfg.CheckOnBoot {
		m.Check(m.ctx, TriggerInitial)
	}

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.Check(m.ctx, TriggerTimer)
		}
	}
}

type nopPresenter struct{}

func (nopPresenter) CheckStarted()       {}
func (nopPresenter) Render(State)        {}
func (nopPresenter) Notify(Notification) {}
func (nopPresenter) CheckFinished()      {}
