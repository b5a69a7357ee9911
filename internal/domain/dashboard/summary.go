package dashboard

import "time"

// Source tells where the summary data came from.
type Source string

// Source constants.
const (
	SourceCache    Source = "cache"
	SourceDatabase Source = "database"
)

// Options selects the tiers and time range of a summary.
type Options struct {
	Tiers     []Tier
	TimeRange TimeRange
}

// NewOptions parses the include selector and time range.
func NewOptions(include, timeRange string, def TimeRange) (Options, error) {
	ts, err := ParseInclude(include)
	if err != nil {
		return Options{}, err
	}
	r, err := ParseTimeRange(timeRange, def)
	if err != nil {
		return Options{}, err
	}
	return Options{Tiers: ts, TimeRange: r}, nil
}

// Summary is the merged dashboard response.
type Summary struct {
	Data         Payload
	Source       Source
	ResponseTime time.Duration
	Timestamp    time.Time
}
