// Package stores maps sender addresses to configured storefronts and knows
// the reply signature for each. It also classifies tracking numbers by
// carrier, which drives the tracking link in confirmation replies.
package stores

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/tailscale/hujson"

	"github.com/shipdesk/shipdesk/internal/store"
)

// DefaultSignature is used when a store has no signature configured or the
// store is unknown.
const DefaultSignature = "Thank you for your order!"

// Registry answers store lookups over a configured set of storefronts.
type Registry struct {
	configs  []store.StoreConfig
	fallback string
}

// NewRegistry wraps a store-config list. The slice is not copied.
func NewRegistry(cfgs []store.StoreConfig) *Registry {
	return &Registry{configs: cfgs}
}

// SetFallback sets the store label returned when no sender matches. Empty
// (the default) keeps misses reported as "".
func (r *Registry) SetFallback(name string) {
	r.fallback = name
}

// Configs returns the underlying store configs.
func (r *Registry) Configs() []store.StoreConfig {
	return r.configs
}

// MatchSender resolves a sender email to a store name. Exact address match
// wins; a configured address contained in the sender (or the other way
// round, for forwarder setups) matches too. A miss returns the configured
// fallback label, or "" when none is set.
func (r *Registry) MatchSender(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return r.fallback
	}
	for _, c := range r.configs {
		if strings.EqualFold(c.Email, email) {
			return c.Name
		}
	}
	for _, c := range r.configs {
		cfg := strings.ToLower(strings.TrimSpace(c.Email))
		if cfg == "" {
			continue
		}
		if strings.Contains(email, cfg) || strings.Contains(cfg, email) {
			return c.Name
		}
	}
	return r.fallback
}

// Signature returns the configured reply signature for a store, or
// DefaultSignature when the store is unknown or has none.
func (r *Registry) Signature(storeName string) string {
	for _, c := range r.configs {
		if c.Name == storeName {
			if c.Signature == "" {
				return DefaultSignature
			}
			return c.Signature
		}
	}
	return DefaultSignature
}

// LoadSeed reads store configs from a JWCC seed file (JSON with comments and
// trailing commas permitted). Entries without a name are dropped.
func LoadSeed(path string) ([]store.StoreConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("stores: read seed: %w", err)
	}
	std, err := hujson.Standardize(raw)
	if err != nil {
		return nil, fmt.Errorf("stores: parse seed %s: %w", path, err)
	}
	var cfgs []store.StoreConfig
	if err := json.Unmarshal(std, &cfgs); err != nil {
		return nil, fmt.Errorf("stores: decode seed %s: %w", path, err)
	}
	out := cfgs[:0]
	for _, c := range cfgs {
		if strings.TrimSpace(c.Name) != "" {
			out = append(out, c)
		}
	}
	return out, nil
}

// Carrier is a detected shipping carrier with its public tracking URL.
type Carrier struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

var (
	dhlShape   = regexp.MustCompile(`^\d{10}$`)
	fedexShape = regexp.MustCompile(`^(\d{12}|\d{14})$`)
)

// CarrierFor classifies a tracking number: UPS numbers start with 1Z, DHL
// air waybills are 10 digits, FedEx numbers are 12 or 14 digits, and
// anything else is assumed USPS.
func CarrierFor(number string) Carrier {
	n := strings.ToUpper(strings.Join(strings.Fields(number), ""))
	switch {
	case strings.HasPrefix(n, "1Z"):
		return Carrier{Name: "UPS", URL: "https://www.ups.com/track?tracknum=" + n}
	case dhlShape.MatchString(n):
		return Carrier{Name: "DHL", URL: "https://www.dhl.com/en/express/tracking.html?AWB=" + n + "&brand=DHL"}
	case fedexShape.MatchString(n):
		return Carrier{Name: "FedEx", URL: "https://www.fedex.com/fedextrack/?trknbr=" + n}
	default:
		return Carrier{Name: "USPS", URL: "https://tools.usps.com/go/TrackConfirmAction?tLabels=" + n}
	}
}
