package monitor

import (
	"time"

	"github.com/b0ase/path402/apps/mcstatus/internal/provider"
)

// NotRespondingMOTD replaces the MOTD once the failure streak reaches the
// threshold.
const NotRespondingMOTD = "Server not responding"

// DefaultFailureThreshold is the number of consecutive failed cycles after
// which the server is shown as unreachable.
const DefaultFailureThreshold = 3

// State is the last known status of the watched server.
type State struct {
	Online       bool             `json:"online"`
	Players      provider.Players `json:"players"`
	MOTD         string           `json:"motd"`
	Version      string           `json:"version"`
	PingMS       float64          `json:"ping_ms"`
	PingMeasured bool             `json:"ping_measured"`

	Checking     bool          `json:"is_checking"`
	LastUpdate   time.Time     `json:"last_update"`
	LastProvider provider.Kind `json:"last_success_api,omitempty"`
	ErrorCount   int           `json:"error_count"`
	// Unreachable is set while the failure streak is at or above the threshold.
	Unreachable bool `json:"unreachable"`
}

// InitialState is the offline state shown before the first check completes.
func InitialState(name, version string) State {
	return State{
		Players: provider.Players{Online: 0, Max: provider.DefaultMaxPlayers},
		MOTD:    name,
		Version: version,
	}
}

// Outcome is how a resolve cycle ended.
type Outcome int

const (
	Resolved Outcome = iota
	Failed
)

func (o Outcome) String() string {
	if o == Resolved {
		return "resolved"
	}
	return "failed"
}

// Decision is the failure-streak policy's verdict for one cycle.
type Decision struct {
	Streak       int
	ForceOffline bool
}

// Decide maps the current streak and the latest cycle outcome to the next
// streak. A resolved cycle always resets it.
func Decide(streak int, outcome Outcome, threshold int) Decision {
	if outcome == Resolved {
		return Decision{Streak: 0}
	}
	if threshold < 1 {
		threshold = DefaultFailureThreshold
	}
	next := streak + 1
	return Decision{Streak: next, ForceOffline: next >= threshold}
}

// ApplySuccess replaces the status fields with snap and clears the streak.
func (s State) ApplySuccess(snap provider.Snapshot, from provider.Kind, now time.Time) State {
	d := Decide(s.ErrorCount, Resolved, 0)

	s.Online = snap.Online
	s.Players = snap.Players
	s.MOTD = snap.MOTD
	if snap.Version != "" {
		s.Version = snap.Version
	}
	s.PingMS = snap.PingMS
	s.PingMeasured = snap.PingMeasured
	s.LastUpdate = now
	s.LastProvider = from
	s.ErrorCount = d.Streak
	s.Unreachable = false
	return s
}

// ApplyFailure records a failed cycle. The last known status is kept until
// the streak reaches threshold, then it is replaced by the unreachable state.
func (s State) ApplyFailure(threshold int) State {
	d := Decide(s.ErrorCount, Failed, threshold)
	s.ErrorCount = d.Streak
	if d.ForceOffline {
		s = s.forceOffline()
	}
	return s
}

func (s State) forceOffline() State {
	s.Online = false
	s.Players.Online = 0
	s.MOTD = NotRespondingMOTD
	s.PingMS = 0
	s.PingMeasured = false
	s.Unreachable = true
	return s
}
