// Package presenter turns monitor state into display-ready text for the
// status page, tray menu and MCP tools.
package presenter

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/b0ase/path402/apps/mcstatus/internal/monitor"
	"github.com/b0ase/path402/apps/mcstatus/internal/provider"
)

// Indicator values for the status badge.
const (
	IndicatorOnline  = "online"
	IndicatorOffline = "offline"
	IndicatorLoading = "loading"
)

// Message is the longer status block below the badge.
type Message struct {
	Tone    string `json:"tone"` // "ok" or "warn"
	Heading string `json:"heading"`
	Body    string `json:"body"`
	Detail  string `json:"detail"`
}

// Addresses are the connect strings for each edition.
type Addresses struct {
	Java    string `json:"java"`
	Bedrock string `json:"bedrock"`
}

// AddressesOf returns the connect strings for t.
func AddressesOf(t provider.Target) Addresses {
	return Addresses{Java: t.JavaAddress(), Bedrock: t.BedrockAddress()}
}

// View is a fully formatted rendering of the server state.
type View struct {
	Indicator    string    `json:"indicator"`
	Headline     string    `json:"headline"`
	StatusText   string    `json:"status_text"`
	StatusSub    string    `json:"status_sub"`
	PlayerCount  string    `json:"player_count"`
	MaxPlayers   string    `json:"max_players"`
	Ping         string    `json:"ping"`
	Version      string    `json:"version"`
	MOTD         string    `json:"motd"`
	LastUpdate   string    `json:"last_update"`
	Message      Message   `json:"message"`
	Checking     bool      `json:"checking"`
	RefreshLabel string    `json:"refresh_label"`
	Addresses    Addresses `json:"addresses"`
}

// Build formats s as of now. It has no side effects.
func Build(s monitor.State, now time.Time, addrs Addresses) View {
	v := View{
		MaxPlayers:   strconv.Itoa(s.Players.Max),
		Version:      s.Version,
		MOTD:         s.MOTD,
		LastUpdate:   LastUpdate(s.LastUpdate, now),
		Checking:     s.Checking,
		RefreshLabel: "Check now",
		Addresses:    addrs,
		Ping:         FormatPing(s),
	}

	if s.Online {
		v.Indicator = IndicatorOnline
		v.Headline = "Server online ✓"
		v.StatusText = fmt.Sprintf("Online - %d players", s.Players.Online)
		v.StatusSub = s.MOTD
		v.PlayerCount = strconv.Itoa(s.Players.Online)
		ping := v.Ping
		if s.PingMS <= 0 && !s.PingMeasured {
			ping = "measuring..."
		}
		v.Message = Message{
			Tone:    "ok",
			Heading: "Server is working normally",
			Body:    fmt.Sprintf("Join the game! %d/%d players online", s.Players.Online, s.Players.Max),
			Detail:  "Ping: " + ping,
		}
	} else {
		v.Indicator = IndicatorOffline
		v.Headline = "Server is off"
		v.StatusText = "Server is off"
		v.StatusSub = "Try connecting later"
		if s.Unreachable {
			v.StatusSub = "Server is off or unreachable"
		}
		v.PlayerCount = "0"
		v.Message = Message{
			Tone:    "warn",
			Heading: "Server temporarily unavailable",
			Body:    "The server may be restarting or under maintenance.",
			Detail:  "Save the server address so you can reconnect once it is back.",
		}
	}

	if s.Checking {
		v.Indicator = IndicatorLoading
		v.Headline = "Checking server..."
		v.RefreshLabel = "Checking..."
	}
	return v
}

// FormatPing renders the ping cell. A ping that was measured but not
// reported as a duration reads "measured".
func FormatPing(s monitor.State) string {
	switch {
	case !s.Online:
		return "—"
	case s.PingMS > 0:
		return fmt.Sprintf("%d ms", int(math.Round(s.PingMS)))
	case s.PingMeasured:
		return "measured"
	default:
		return "—"
	}
}

// LastUpdate renders the time since the last successful check.
func LastUpdate(at, now time.Time) string {
	if at.IsZero() {
		return "never"
	}
	return FormatRelative(now.Sub(at))
}

// FormatRelative renders d as "N seconds/minutes/hours ago".
func FormatRelative(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	switch {
	case d < time.Minute:
		return plural(int(d/time.Second), "second") + " ago"
	case d < time.Hour:
		return plural(int(d/time.Minute), "minute") + " ago"
	default:
		return plural(int(d/time.Hour), "hour") + " ago"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
