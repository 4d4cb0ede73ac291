// Package provider describes the public Minecraft status APIs the daemon
// queries and maps each one's response shape onto a common Snapshot.
package provider

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind identifies one status API. The set is closed: every Kind has exactly
// one URL builder and one normalizer, selected in variantOf.
type Kind string

const (
	MCSrvStat Kind = "MCSRVSTAT"
	MineTools Kind = "MINETOOLS"
	MCStatus  Kind = "MCAPI"
)

// ErrUnknownProvider is returned for a provider name outside ListKinds.
var ErrUnknownProvider = errors.New("unknown status provider")

// ListKinds returns all supported providers in their default order.
func ListKinds() []Kind {
	return []Kind{MCSrvStat, MineTools, MCStatus}
}

// ValidateKind returns ErrUnknownProvider if k is not a supported provider.
func ValidateKind(k Kind) error {
	for _, known := range ListKinds() {
		if k == known {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownProvider, string(k))
}

// ParseKind maps a configured provider name to its Kind, case-insensitively.
func ParseKind(name string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(name)))
	if err := ValidateKind(k); err != nil {
		return "", err
	}
	return k, nil
}

// DefaultBaseURL returns the public endpoint for a provider.
func DefaultBaseURL(k Kind) string {
	switch k {
	case MCSrvStat:
		return "https://api.mcsrvstat.us/2/"
	case MineTools:
		return "https://api.minetools.eu/ping/"
	case MCStatus:
		return "https://api.mcstatus.io/v2/status/java/"
	default:
		panic(fmt.Sprintf("provider kind %q has no default url", string(k)))
	}
}

// DefaultTimeout is the per-call deadline used when none is configured.
const DefaultTimeout = 5 * time.Second

// Target is the server being watched.
type Target struct {
	Host        string `json:"host"`
	JavaPort    int    `json:"java_port"`
	BedrockPort int    `json:"bedrock_port"`
}

// JavaAddress is the address Java edition players connect to.
func (t Target) JavaAddress() string {
	return fmt.Sprintf("%s:%d", t.Host, t.JavaPort)
}

// BedrockAddress is the address Bedrock edition players connect to.
func (t Target) BedrockAddress() string {
	return fmt.Sprintf("%s:%d", t.Host, t.BedrockPort)
}

// Adapter is one configured status source.
type Adapter struct {
	Kind    Kind
	BaseURL string
	Timeout time.Duration
}

// NewAdapter builds an adapter from configuration. An empty baseURL selects
// the provider's public endpoint and a zero timeout selects DefaultTimeout.
func NewAdapter(name, baseURL string, timeout time.Duration) (Adapter, error) {
	k, err := ParseKind(name)
	if err != nil {
		return Adapter{}, err
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL(k)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return Adapter{Kind: k, BaseURL: baseURL, Timeout: timeout}, nil
}

// DefaultAdapters returns every provider with its public endpoint.
func DefaultAdapters() []Adapter {
	kinds := ListKinds()
	out := make([]Adapter, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, Adapter{Kind: k, BaseURL: DefaultBaseURL(k), Timeout: DefaultTimeout})
	}
	return out
}

// Name returns the provider's configuration key.
func (a Adapter) Name() string {
	return string(a.Kind)
}

// URL returns the lookup URL for t. Each API expects the address in its own
// path form, so the separator differs per provider.
func (a Adapter) URL(t Target) string {
	return variantOf(a.Kind).buildURL(a.BaseURL, t)
}

// Normalize maps a raw JSON body onto a Snapshot. It never fails: every field
// that is missing or of the wrong type takes its default from d.
func (a Adapter) Normalize(raw []byte, d Defaults) Snapshot {
	return variantOf(a.Kind).normalize(raw, d)
}

type variant struct {
	buildURL  func(base string, t Target) string
	normalize func(raw []byte, d Defaults) Snapshot
}

func variantOf(k Kind) variant {
	switch k {
	case MCSrvStat:
		return variant{buildURL: colonURL, normalize: normalizeMCSrvStat}
	case MineTools:
		return variant{buildURL: slashURL, normalize: normalizeMineTools}
	case MCStatus:
		return variant{buildURL: colonURL, normalize: normalizeMCStatus}
	default:
		panic(fmt.Sprintf("provider kind %q has no variant", string(k)))
	}
}

func colonURL(base string, t Target) string {
	return fmt.Sprintf("%s%s:%d", base, t.Host, t.JavaPort)
}

func slashURL(base string, t Target) string {
	return fmt.Sprintf("%s%s/%d", base, t.Host, t.JavaPort)
}
