// Package dashboard defines the tiered dashboard summary model.
package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/crmsearch/internal/domain"
)

// Tier is a freshness class of dashboard data.
type Tier string

// Tier constants, in fixed order.
const (
	Realtime Tier = "realtime"
	Hourly   Tier = "hourly"
	Daily    Tier = "daily"
)

// IncludeAll selects every tier.
const IncludeAll = "all"

var tiers = []Tier{Realtime, Hourly, Daily}

// Tiers returns every tier in fixed order.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}

// TTL returns the cache lifetime of the tier.
func (t Tier) TTL() time.Duration {
	switch t {
	case Realtime:
		return 30 * time.Second
	case Hourly:
		return time.Hour
	case Daily:
		return 24 * time.Hour
	default:
		return 0
	}
}

// IsValid checks if the tier is one of the supported values.
func (t Tier) IsValid() bool {
	return t == Realtime || t == Hourly || t == Daily
}

// ParseInclude maps an include selector to the requested tiers.
// Empty input and "all" select every tier.
func ParseInclude(include string) ([]Tier, error) {
	v := strings.ToLower(strings.TrimSpace(include))
	if v == "" || v == IncludeAll {
		return Tiers(), nil
	}
	t := Tier(v)
	if !t.IsValid() {
		return nil, fmt.Errorf("%w: unknown include %q", domain.ErrInvalidRequest, include)
	}
	return []Tier{t}, nil
}
