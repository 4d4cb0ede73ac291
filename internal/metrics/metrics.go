// Package metrics exposes poll and provider statistics in Prometheus format.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/b0ase/path402/apps/mcstatus/internal/monitor"
	"github.com/b0ase/path402/apps/mcstatus/internal/provider"
)

const namespace = "mcstatus"

// Subsystems:
const (
	providerSubsystem = "provider"
	resolveSubsystem  = "resolve"
	serverSubsystem   = "server"
	pollSubsystem     = "poll"
)

// Names of the labels:
const (
	providerLabel = "provider"
	outcomeLabel  = "outcome"
)

// Values of the outcome label for provider calls:
const (
	OutcomeSuccess    = "success"
	OutcomeTimeout    = "timeout"
	OutcomeTransport  = "transport"
	OutcomeHTTPStatus = "http_status"
	OutcomeMalformed  = "malformed"
)

// Collector owns the daemon's metrics and the registry they live in.
type Collector struct {
	registry *prometheus.Registry

	providerRequests *prometheus.CounterVec
	providerDuration *prometheus.HistogramVec
	resolveCycles    *prometheus.CounterVec
	failureStreak    prometheus.Gauge
	online           prometheus.Gauge
	playersOnline    prometheus.Gauge
	playersMax       prometheus.Gauge
	pollSkipped      prometheus.Counter
}

// New creates a Collector with every metric registered on a private registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		providerRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: providerSubsystem,
				Name:      "requests_total",
				Help:      "Status provider calls by provider and outcome",
			},
			[]string{providerLabel, outcomeLabel},
		),
		providerDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: providerSubsystem,
				Name:      "request_duration_seconds",
				Help:      "Time spent waiting on each status provider",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{providerLabel},
		),
		resolveCycles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: resolveSubsystem,
				Name:      "cycles_total",
				Help:      "Completed poll cycles by outcome",
			},
			[]string{outcomeLabel},
		),
		failureStreak: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: serverSubsystem,
			Name:      "failure_streak",
			Help:      "Consecutive poll cycles in which every provider failed",
		}),
		online: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: serverSubsystem,
			Name:      "online",
			Help:      "1 if the server was online at the last check",
		}),
		playersOnline: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: serverSubsystem,
			Name:      "players_online",
			Help:      "Players online at the last check",
		}),
		playersMax: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: serverSubsystem,
			Name:      "players_max",
			Help:      "Player slots reported at the last check",
		}),
		pollSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: pollSubsystem,
			Name:      "skipped_total",
			Help:      "Checks ignored because another check was in flight",
		}),
	}

	c.registry.MustRegister(
		c.providerRequests,
		c.providerDuration,
		c.resolveCycles,
		c.failureStreak,
		c.online,
		c.playersOnline,
		c.playersMax,
		c.pollSkipped,
	)
	return c
}

// ObserveAttempt records one provider call. It matches resolver.AttemptFunc.
func (c *Collector) ObserveAttempt(kind provider.Kind, elapsed time.Duration, err error) {
	name := string(kind)
	c.providerRequests.WithLabelValues(name, AttemptOutcome(err)).Inc()
	c.providerDuration.WithLabelValues(name).Observe(elapsed.Seconds())
}

// ObserveCycle records a completed poll cycle. It matches monitor.CycleHandler.
func (c *Collector) ObserveCycle(cy monitor.Cycle) {
	c.resolveCycles.WithLabelValues(cy.Outcome.String()).Inc()
	c.SetServerState(cy.State)
}

// SetServerState mirrors the displayed state into the server gauges.
func (c *Collector) SetServerState(s monitor.State) {
	if s.Online {
		c.online.Set(1)
	} else {
		c.online.Set(0)
	}
	c.playersOnline.Set(float64(s.Players.Online))
	c.playersMax.Set(float64(s.Players.Max))
	c.failureStreak.Set(float64(s.ErrorCount))
}

// ObserveSkip records a check dropped by the in-flight guard.
func (c *Collector) ObserveSkip(monitor.Trigger) {
	c.pollSkipped.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// AttemptOutcome maps a provider call error to its outcome label.
func AttemptOutcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, provider.ErrTimeout):
		return OutcomeTimeout
	case errors.Is(err, provider.ErrHTTPStatus):
		return OutcomeHTTPStatus
	case errors.Is(err, provider.ErrMalformedBody):
		return OutcomeMalformed
	default:
		return OutcomeTransport
	}
}
