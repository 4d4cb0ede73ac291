package provider

import (
	"strings"

	"github.com/tidwall/gjson"
)

const (
	DefaultMaxPlayers = 100
	DefaultMOTD       = "PSMC Server"
)

// Players is the current and maximum player count.
type Players struct {
	Online int `json:"online"`
	Max    int `json:"max"`
}

// Snapshot is one normalized status result.
type Snapshot struct {
	Online  bool    `json:"online"`
	Players Players `json:"players"`
	MOTD    string  `json:"motd"`
	Version string  `json:"version"`
	// PingMS is 0 when the provider reported no latency.
	PingMS float64 `json:"ping_ms"`
	// PingMeasured is set when the provider confirms it pinged the server,
	// even if it does not expose the duration.
	PingMeasured bool `json:"ping_measured"`
}

// Defaults supplies the fallback values normalizers use for absent fields.
type Defaults struct {
	MOTD    string
	Version string
}

// Snapshot returns the offline snapshot every normalizer starts from.
func (d Defaults) Snapshot() Snapshot {
	motd := d.MOTD
	if motd == "" {
		motd = DefaultMOTD
	}
	return Snapshot{
		Players: Players{Online: 0, Max: DefaultMaxPlayers},
		MOTD:    motd,
		Version: d.Version,
	}
}

// api.mcsrvstat.us/2: {"online":true,"players":{"online":3,"max":20},
// "motd":{"clean":["line 1","line 2"]},"version":"1.21.1","debug":{"ping":true}}
func normalizeMCSrvStat(raw []byte, d Defaults) Snapshot {
	doc := gjson.ParseBytes(raw)
	s := d.Snapshot()
	s.Online = truthy(doc.Get("online"))
	s.Players.Online = count(doc.Get("players.online"), 0)
	s.Players.Max = count(doc.Get("players.max"), DefaultMaxPlayers)
	s.MOTD = text(doc.Get("motd.clean"), s.MOTD)
	s.Version = text(doc.Get("version"), s.Version)
	// No latency is published, only whether a ping was attempted.
	s.PingMeasured = truthy(doc.Get("debug.ping"))
	return s
}

// api.minetools.eu/ping: {"description":"...","players":{"online":3,"max":20},
// "version":{"name":"1.21.1"},"latency":42.7}, or {"error":"..."} when the
// server could not be reached. There is no online flag: a reply counts as
// online only when it has no error and carries status fields.
func normalizeMineTools(raw []byte, d Defaults) Snapshot {
	doc := gjson.ParseBytes(raw)
	s := d.Snapshot()
	if !doc.IsObject() || truthy(doc.Get("error")) || !looksLikeMineToolsStatus(doc) {
		return s
	}
	s.Online = true
	s.Players.Online = count(doc.Get("players.online"), 0)
	s.Players.Max = count(doc.Get("players.max"), DefaultMaxPlayers)
	s.MOTD = text(doc.Get("description"), s.MOTD)
	s.Version = text(doc.Get("version.name"), s.Version)
	s.PingMS = latency(doc.Get("latency"))
	s.PingMeasured = s.PingMS > 0
	return s
}

func looksLikeMineToolsStatus(doc gjson.Result) bool {
	return doc.Get("players.max").Type == gjson.Number ||
		doc.Get("version.name").Type == gjson.String ||
		truthy(doc.Get("description"))
}

// api.mcstatus.io/v2/status/java: {"online":true,"players":{"online":3,"max":20},
// "motd":{"clean":"..."},"version":{"name_raw":"1.21.1"},"round_trip_latency_ms":42}
func normalizeMCStatus(raw []byte, d Defaults) Snapshot {
	doc := gjson.ParseBytes(raw)
	s := d.Snapshot()
	s.Online = truthy(doc.Get("online"))
	s.Players.Online = count(doc.Get("players.online"), 0)
	s.Players.Max = count(doc.Get("players.max"), DefaultMaxPlayers)
	s.MOTD = text(doc.Get("motd.clean"), s.MOTD)
	s.Version = text(doc.Get("version.name_raw"), s.Version)
	s.PingMS = latency(doc.Get("round_trip_latency_ms"))
	s.PingMeasured = s.PingMS > 0
	return s
}

// truthy reports whether a JSON value counts as set: true, a non-zero number,
// a non-empty string, or any object or array.
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.True:
		return true
	case gjson.Number:
		return r.Num != 0
	case gjson.String:
		return r.Str != ""
	case gjson.JSON:
		return true
	default:
		return false
	}
}

// maxCount caps reported player counts so bogus values stay representable.
const maxCount = 1 << 30

// count reads a player count. Zero, negative and non-numeric values yield def.
func count(r gjson.Result, def int) int {
	var f float64
	switch r.Type {
	case gjson.Number:
		f = r.Num
	case gjson.String:
		f = float64(r.Int())
	}
	if f < 0 {
		f = 0
	}
	if f > maxCount {
		f = maxCount
	}
	n := int(f)
	if n == 0 {
		return def
	}
	return n
}

// text reads a string or an array of lines. Empty results yield def.
func text(r gjson.Result, def string) string {
	var out string
	switch {
	case r.Type == gjson.String:
		out = strings.TrimSpace(r.Str)
	case r.IsArray():
		lines := make([]string, 0, 2)
		for _, line := range r.Array() {
			if line.Type != gjson.String {
				continue
			}
			if l := strings.TrimSpace(line.Str); l != "" {
				lines = append(lines, l)
			}
		}
		out = strings.Join(lines, "\n")
	}
	if out == "" {
		return def
	}
	return out
}

func latency(r gjson.Result) float64 {
	var ms float64
	switch r.Type {
	case gjson.Number:
		ms = r.Num
	case gjson.String:
		ms = r.Float()
	}
	if ms < 0 {
		return 0
	}
	return ms
}
