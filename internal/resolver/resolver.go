// Package resolver races every configured status provider and keeps the first
// successful answer.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/b0ase/path402/apps/mcstatus/internal/provider"
)

// ErrAllProvidersExhausted matches any ExhaustedError.
var ErrAllProvidersExhausted = errors.New("all providers exhausted")

// ExhaustedError is returned when every provider failed. Failures holds one
// error per provider in completion order.
type ExhaustedError struct {
	Failures []error
}

func (e *ExhaustedError) Error() string {
	if len(e.Failures) == 0 {
		return "all providers exhausted: no providers configured"
	}
	parts := make([]string, len(e.Failures))
	for i, err := range e.Failures {
		parts[i] = err.Error()
	}
	return fmt.Sprintf("all providers exhausted: %s", strings.Join(parts, "; "))
}

func (e *ExhaustedError) Is(target error) bool {
	return target == ErrAllProvidersExhausted
}

func (e *ExhaustedError) Unwrap() []error {
	return e.Failures
}

// Fetcher performs a single provider lookup. *provider.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, a provider.Adapter, t provider.Target) (provider.Snapshot, error)
}

// AttemptFunc observes every provider call as it completes, including the
// ones that finish after the race has been decided.
type AttemptFunc func(kind provider.Kind, elapsed time.Duration, err error)

// Result is the winning snapshot and where it came from.
type Result struct {
	Snapshot provider.Snapshot
	Provider provider.Kind
	Elapsed  time.Duration
}

// Resolver races providers.
type Resolver struct {
	fetcher   Fetcher
	onAttempt AttemptFunc
	verbose   bool
}

// New creates a Resolver backed by fetcher.
func New(fetcher Fetcher) *Resolver {
	return &Resolver{fetcher: fetcher}
}

// OnAttempt registers a callback for each completed provider call.
func (r *Resolver) OnAttempt(fn AttemptFunc) {
	r.onAttempt = fn
}

// SetVerbose logs every provider attempt.
func (r *Resolver) SetVerbose(v bool) {
	r.verbose = v
}

type attempt struct {
	result Result
	err    error
}

// Resolve queries every adapter concurrently and returns the first success.
// It does not wait for, or cancel, the remaining calls; each stays bounded by
// its own adapter timeout. If every adapter fails the error is an
// *ExhaustedError.
func (r *Resolver) Resolve(ctx context.Context, target provider.Target, adapters []provider.Adapter) (Result, error) {
	if len(adapters) == 0 {
		return Result{}, &ExhaustedError{}
	}

	results := make(chan attempt, len(adapters))
	for _, a := range adapters {
		go func(a provider.Adapter) {
			start := time.Now()
			snap, err := r.fetcher.Fetch(ctx, a, target)
			elapsed := time.Since(start)

			if r.verbose {
				if err != nil {
					log.Printf("[resolver] %s failed after %dms: %v", a.Name(), elapsed.Milliseconds(), err)
				} else {
					log.Printf("[resolver] %s answered in %dms (online=%v)", a.Name(), elapsed.Milliseconds(), snap.Online)
				}
			}
			if r.onAttempt != nil {
				r.onAttempt(a.Kind, elapsed, err)
			}

			results <- attempt{
				result: Result{Snapshot: snap, Provider: a.Kind, Elapsed: elapsed},
				err:    err,
			}
		}(a)
	}

	failures := make([]error, 0, len(adapters))
	for range adapters {
		at := <-results
		if at.err == nil {
			return at.result, nil
		}
		failures = append(failures, at.err)
	}
	return Result{}, &ExhaustedError{Failures: failures}
}
