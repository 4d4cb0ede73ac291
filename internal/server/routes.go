package server

import (
	"encoding/json"
	"net/http"
	"strconv"
)

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleDashboard)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /api/view", s.handleView)
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)
	mux.HandleFunc("GET /api/notification", s.handleNotification)
	mux.HandleFunc("GET /api/addresses", s.handleAddresses)
	mux.HandleFunc("GET /api/providers", s.handleProviders)
	mux.HandleFunc("GET /api/debug/config", s.handleDebugConfig)
	mux.HandleFunc("POST /api/debug/simulate/online", s.handleSimulateOnline)
	mux.HandleFunc("POST /api/debug/simulate/offline", s.handleSimulateOffline)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status":    "ok",
		"version":   s.source.Version(),
		"uptime_ms": s.source.Uptime().Milliseconds(),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"uptime_ms": s.source.Uptime().Milliseconds(),
		"target":    s.source.Target(),
		"state":     s.source.State(),
	})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.source.View())
}

// handleRefresh runs a manual check and answers once it completes.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if !s.source.Refresh() {
		writeError(w, http.StatusConflict, "check already in progress")
		return
	}
	writeJSON(w, map[string]interface{}{
		"state": s.source.State(),
		"view":  s.source.View(),
	})
}

func (s *Server) handleNotification(w http.ResponseWriter, r *http.Request) {
	n, ok := s.source.LastNotification()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, n)
}

func (s *Server) handleAddresses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.source.Addresses())
}

type providerInfo struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	TimeoutMs int64  `json:"timeout_ms"`
}

func (s *Server) providerList() []providerInfo {
	adapters := s.source.Providers()
	out := make([]providerInfo, 0, len(adapters))
	for _, a := range adapters {
		out = append(out, providerInfo{Name: a.Name(), URL: a.BaseURL, TimeoutMs: a.Timeout.Milliseconds()})
	}
	return out
}

func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.providerList())
}

func (s *Server) handleDebugConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"target":            s.source.Target(),
		"providers":         s.providerList(),
		"poll_interval_ms":  s.source.PollInterval().Milliseconds(),
		"failure_threshold": s.source.FailureThreshold(),
		"version":           s.source.Version(),
	})
}

func (s *Server) handleSimulateOnline(w http.ResponseWriter, r *http.Request) {
	players := 5
	if v := r.URL.Query().Get("players"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, 400, "players must be a non-negative integer")
			return
		}
		players = n
	}
	ping := 35.0
	if v := r.URL.Query().Get("ping"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			writeError(w, 400, "ping must be a non-negative number")
			return
		}
		ping = f
	}
	writeJSON(w, s.source.SimulateOnline(players, ping))
}

func (s *Server) handleSimulateOffline(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.source.SimulateOffline())
}
