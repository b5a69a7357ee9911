package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/crmsearch/internal/domain"
)

// TimeRange bounds the hourly and daily aggregates.
type TimeRange string

// TimeRange constants.
const (
	Range1d  TimeRange = "1d"
	Range7d  TimeRange = "7d"
	Range30d TimeRange = "30d"
	Range90d TimeRange = "90d"
)

// DefaultTimeRange is used when the caller does not specify one.
const DefaultTimeRange = Range30d

// Duration returns the look-back window of the range.
func (r TimeRange) Duration() time.Duration {
	switch r {
	case Range1d:
		return 24 * time.Hour
	case Range7d:
		return 7 * 24 * time.Hour
	case Range30d:
		return 30 * 24 * time.Hour
	case Range90d:
		return 90 * 24 * time.Hour
	default:
		return 0
	}
}

// IsValid checks if the range is one of the supported values.
func (r TimeRange) IsValid() bool {
	return r.Duration() > 0
}

// ParseTimeRange validates a raw range, falling back to def when empty.
func ParseTimeRange(raw string, def TimeRange) (TimeRange, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		if !def.IsValid() {
			return DefaultTimeRange, nil
		}
		return def, nil
	}
	r := TimeRange(v)
	if !r.IsValid() {
		return "", fmt.Errorf("%w: unknown timeRange %q", domain.ErrInvalidRequest, raw)
	}
	return r, nil
}
