package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/b0ase/path402/apps/mcstatus/internal/provider"
)

var target = provider.Target{Host: "127.0.0.1", JavaPort: 25565, BedrockPort: 19132}

// fakeFetcher dispatches each call to a per-provider function.
type fakeFetcher struct {
	calls atomic.Int32
	fns   map[provider.Kind]func(ctx context.Context) (provider.Snapshot, error)
}

func (f *fakeFetcher) Fetch(ctx context.Context, a provider.Adapter, _ provider.Target) (provider.Snapshot, error) {
	f.calls.Add(1)
	return f.fns[a.Kind](ctx)
}

func adapters() []provider.Adapter {
	return provider.DefaultAdapters()
}

func TestResolveFirstSuccessByCompletionOrder(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	f := &fakeFetcher{fns: map[provider.Kind]func(context.Context) (provider.Snapshot, error){
		// First in adapter order, but never answers before the test ends.
		provider.MCSrvStat: func(context.Context) (provider.Snapshot, error) {
			<-release
			return provider.Snapshot{Online: true, MOTD: "slow"}, nil
		},
		provider.MineTools: func(context.Context) (provider.Snapshot, error) {
			return provider.Snapshot{}, errors.New("boom")
		},
		provider.MCStatus: func(context.Context) (provider.Snapshot, error) {
			return provider.Snapshot{Online: true, MOTD: "fast", Players: provider.Players{Online: 2, Max: 10}}, nil
		},
	}}

	res, err := New(f).Resolve(context.Background(), target, adapters())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Provider != provider.MCStatus {
		t.Errorf("provider = %s, want %s", res.Provider, provider.MCStatus)
	}
	if res.Snapshot.MOTD != "fast" {
		t.Errorf("motd = %q, want fast", res.Snapshot.MOTD)
	}
}

func TestResolveAllFail(t *testing.T) {
	f := &fakeFetcher{fns: map[provider.Kind]func(context.Context) (provider.Snapshot, error){}}
	for _, k := range provider.ListKinds() {
		k := k
		f.fns[k] = func(context.Context) (provider.Snapshot, error) {
			return provider.Snapshot{Online: true}, &provider.Error{Provider: k, Err: fmt.Errorf("%w: HTTP 500", provider.ErrHTTPStatus)}
		}
	}

	res, err := New(f).Resolve(context.Background(), target, adapters())
	if !errors.Is(err, ErrAllProvidersExhausted) {
		t.Fatalf("err = %v, want ErrAllProvidersExhausted", err)
	}
	if res != (Result{}) {
		t.Errorf("result = %+v, want zero", res)
	}

	var ex *ExhaustedError
	if !errors.As(err, &ex) {
		t.Fatalf("err is %T, want *ExhaustedError", err)
	}
	if len(ex.Failures) != 3 {
		t.Errorf("failures = %d, want 3", len(ex.Failures))
	}
	if !errors.Is(err, provider.ErrHTTPStatus) {
		t.Error("aggregate does not expose member ErrHTTPStatus")
	}
}

func TestResolveNoAdapters(t *testing.T) {
	_, err := New(&fakeFetcher{}).Resolve(context.Background(), target, nil)
	if !errors.Is(err, ErrAllProvidersExhausted) {
		t.Fatalf("err = %v, want ErrAllProvidersExhausted", err)
	}
}

func TestResolveOnAttemptSeesEveryCall(t *testing.T) {
	f := &fakeFetcher{fns: map[provider.Kind]func(context.Context) (provider.Snapshot, error){
		provider.MCSrvStat: func(context.Context) (provider.Snapshot, error) { return provider.Snapshot{}, errors.New("a") },
		provider.MineTools: func(context.Context) (provider.Snapshot, error) { return provider.Snapshot{}, errors.New("b") },
		provider.MCStatus:  func(context.Context) (provider.Snapshot, error) { return provider.Snapshot{}, errors.New("c") },
	}}

	var mu sync.Mutex
	seen := map[provider.Kind]bool{}
	r := New(f)
	r.OnAttempt(func(k provider.Kind, _ time.Duration, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err == nil {
			t.Errorf("%s: err = nil, want failure", k)
		}
		seen[k] = true
	})

	if _, err := r.Resolve(context.Background(), target, adapters()); err == nil {
		t.Fatal("Resolve succeeded, want failure")
	}
	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 3 {
		t.Errorf("observed %d attempts, want 3", len(seen))
	}
}

// A times out at its deadline, B answers quickly, C never answers. The race
// must return B's snapshot without waiting on A or C.
func TestResolveOverHTTPScenario(t *testing.T) {
	release := make(chan struct{})
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()
	defer close(release)

	fast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(20 * time.Millisecond)
		w.Write([]byte(`{"online":true,"players":{"online":7,"max":100},"motd":{"clean":"Hi"}}`))
	}))
	defer fast.Close()

	list := []provider.Adapter{
		{Kind: provider.MCSrvStat, BaseURL: slow.URL + "/a/", Timeout: 500 * time.Millisecond},
		{Kind: provider.MCStatus, BaseURL: fast.URL + "/b/", Timeout: 5 * time.Second},
		{Kind: provider.MineTools, BaseURL: slow.URL + "/c/", Timeout: 5 * time.Second},
	}
	client := provider.NewClient(nil, "", provider.Defaults{MOTD: "PSMC Server", Version: "1.21.11"})

	start := time.Now()
	res, err := New(client).Resolve(context.Background(), target, list)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if elapsed := time.Since(start); elapsed >= 500*time.Millisecond {
		t.Errorf("Resolve took %v, want it to return before the slow deadline", elapsed)
	}
	want := provider.Snapshot{
		Online:  true,
		Players: provider.Players{Online: 7, Max: 100},
		MOTD:    "Hi",
		Version: "1.21.11",
	}
	if res.Snapshot != want {
		t.Errorf("snapshot = %+v, want %+v", res.Snapshot, want)
	}
	if res.Provider != provider.MCStatus {
		t.Errorf("provider = %s, want %s", res.Provider, provider.MCStatus)
	}
}

func TestResolveMineToolsNonStatusReplyIsOffline(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer down.Close()
	limited := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"rate limited"}`))
	}))
	defer limited.Close()

	list := []provider.Adapter{
		{Kind: provider.MCSrvStat, BaseURL: down.URL + "/a/", Timeout: 5 * time.Second},
		{Kind: provider.MCStatus, BaseURL: down.URL + "/b/", Timeout: 5 * time.Second},
		{Kind: provider.MineTools, BaseURL: limited.URL + "/c/", Timeout: 5 * time.Second},
	}
	client := provider.NewClient(nil, "", provider.Defaults{MOTD: "PSMC Server", Version: "1.21.11"})

	res, err := New(client).Resolve(context.Background(), target, list)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Provider != provider.MineTools {
		t.Errorf("provider = %s, want %s", res.Provider, provider.MineTools)
	}
	if res.Snapshot.Online {
		t.Errorf("snapshot = %+v, want offline", res.Snapshot)
	}
	if res.Snapshot.Players.Max != provider.DefaultMaxPlayers || res.Snapshot.MOTD != "PSMC Server" {
		t.Errorf("snapshot = %+v, want defaults", res.Snapshot)
	}
}

func TestExhaustedErrorMessage(t *testing.T) {
	err := &ExhaustedError{Failures: []error{errors.New("a down"), errors.New("b down")}}
	want := "all providers exhausted: a down; b down"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
