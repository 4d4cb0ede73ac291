package provider

import (
	"errors"
	"testing"
	"time"
)

var testTarget = Target{Host: "185.22.154.9", JavaPort: 29067, BedrockPort: 19132}

func TestAdapterURL(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{MCSrvStat, "https://api.mcsrvstat.us/2/185.22.154.9:29067"},
		{MineTools, "https://api.minetools.eu/ping/185.22.154.9/29067"},
		{MCStatus, "https://api.mcstatus.io/v2/status/java/185.22.154.9:29067"},
	}
	for _, tt := range tests {
		a := Adapter{Kind: tt.kind, BaseURL: DefaultBaseURL(tt.kind)}
		if got := a.URL(testTarget); got != tt.want {
			t.Errorf("%s URL = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestEveryKindHasVariant(t *testing.T) {
	for _, k := range ListKinds() {
		v := variantOf(k)
		if v.buildURL == nil || v.normalize == nil {
			t.Errorf("kind %s has incomplete variant", k)
		}
		if DefaultBaseURL(k) == "" {
			t.Errorf("kind %s has no default url", k)
		}
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" minetools ")
	if err != nil {
		t.Fatalf("ParseKind: %v", err)
	}
	if k != MineTools {
		t.Errorf("kind = %q, want %q", k, MineTools)
	}

	_, err = ParseKind("mojang")
	if !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("err = %v, want ErrUnknownProvider", err)
	}
}

func TestNewAdapterDefaults(t *testing.T) {
	a, err := NewAdapter("MCAPI", "", 0)
	if err != nil {
		t.Fatalf("NewAdapter: %v", err)
	}
	if a.BaseURL != DefaultBaseURL(MCStatus) {
		t.Errorf("BaseURL = %q, want %q", a.BaseURL, DefaultBaseURL(MCStatus))
	}
	if a.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", a.Timeout, DefaultTimeout)
	}

	a, err = NewAdapter("MCSRVSTAT", "http://127.0.0.1:9/", 2*time.Second)
	if err != nil {
		t.Fatalf("NewAdapter: %v", err)
	}
	if a.BaseURL != "http://127.0.0.1:9/" || a.Timeout != 2*time.Second {
		t.Errorf("adapter = %+v, want configured url and timeout", a)
	}

	if _, err := NewAdapter("nope", "", 0); !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("err = %v, want ErrUnknownProvider", err)
	}
}

func TestDefaultAdapters(t *testing.T) {
	adapters := DefaultAdapters()
	if len(adapters) != 3 {
		t.Fatalf("len = %d, want 3", len(adapters))
	}
	for _, a := range adapters {
		if a.Timeout != 5*time.Second {
			t.Errorf("%s timeout = %v, want 5s", a.Name(), a.Timeout)
		}
	}
}

func TestTargetAddresses(t *testing.T) {
	if got := testTarget.JavaAddress(); got != "185.22.154.9:29067" {
		t.Errorf("JavaAddress = %q", got)
	}
	if got := testTarget.BedrockAddress(); got != "185.22.154.9:19132" {
		t.Errorf("BedrockAddress = %q", got)
	}
}
