package health

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// Component names reported in Report.Checks.
const (
	CheckService  = "service"
	CheckCache    = "cache"
	CheckDatabase = "database"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]bool
}

// Service coordinates health checks.
type Service struct {
	cache    Pinger
	database Pinger
}

// New creates a Service.
func New(cache, database Pinger) *Service {
	return &Service{cache: cache, database: database}
}

// Check pings the cache and the database concurrently.
func (s *Service) Check(ctx context.Context) Report {
	var cacheOK, dbOK bool

	var g errgroup.Group
	g.Go(func() error {
		cacheOK = s.cache.Ping(ctx) == nil
		return nil
	})
	g.Go(func() error {
		dbOK = s.database.Ping(ctx) == nil
		return nil
	})
	_ = g.Wait()

	checks := map[string]bool{
		CheckService:  true,
		CheckCache:    cacheOK,
		CheckDatabase: dbOK,
	}

	status := Healthy
	for _, ok := range checks {
		if !ok {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
