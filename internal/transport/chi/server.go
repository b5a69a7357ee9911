// Package chi is the HTTP transport of the service.
package chi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kailas-cloud/crmsearch/internal/domain"
	"github.com/kailas-cloud/crmsearch/internal/domain/dashboard"
	"github.com/kailas-cloud/crmsearch/internal/domain/search/request"
	"github.com/kailas-cloud/crmsearch/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/crmsearch/internal/usecase/health"
)

type searcher interface {
	Search(ctx context.Context, principalID string, req *request.Request) (result.Response, error)
}

type summarizer interface {
	Summary(ctx context.Context, principalID string, opts dashboard.Options) (dashboard.Summary, error)
}

type healthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server holds the HTTP handlers.
type Server struct {
	search    searcher
	dashboard summarizer
	health    healthChecker
	limits    request.Limits
	defaultTR dashboard.TimeRange
	now       func() time.Time
}

// Option configures the server.
type Option func(*Server)

// WithSearchLimits overrides the default and maximum result limit per source.
func WithSearchLimits(l request.Limits) Option {
	return func(s *Server) { s.limits = l }
}

// WithDefaultTimeRange sets the dashboard time range used when none is requested.
func WithDefaultTimeRange(tr dashboard.TimeRange) Option {
	return func(s *Server) { s.defaultTR = tr }
}

// NewServer creates an HTTP API server.
func NewServer(search searcher, dash summarizer, health healthChecker, opts ...Option) *Server {
	s := &Server{
		search:    search,
		dashboard: dash,
		health:    health,
		limits:    request.DefaultLimits(),
		defaultTR: dashboard.DefaultTimeRange,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search handles GET /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	p, ok := domain.PrincipalFromContext(r.Context())
	if !ok {
		handleDomainError(w, r, domain.ErrUnauthenticated)
		return
	}

	var (
		q          string
		categories []string
		limit      *int
	)
	query := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "q", query, &q); err != nil {
		handleDomainError(w, r, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err))
		return
	}
	if err := runtime.BindQueryParameter("form", false, false, "categories", query, &categories); err != nil {
		handleDomainError(w, r, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err))
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", query, &limit); err != nil {
		handleDomainError(w, r, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err))
		return
	}

	req, err := request.New(q, categories, derefInt(limit), s.limits)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	resp, err := s.search.Search(r.Context(), p.ID, &req)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponseToDTO(&resp))
}

// DashboardSummary handles GET /dashboard/summary.
func (s *Server) DashboardSummary(w http.ResponseWriter, r *http.Request) {
	p, ok := domain.PrincipalFromContext(r.Context())
	if !ok {
		handleDomainError(w, r, domain.ErrUnauthenticated)
		return
	}

	var timeRange, include string
	query := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "timeRange", query, &timeRange); err != nil {
		handleDomainError(w, r, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err))
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "include", query, &include); err != nil {
		handleDomainError(w, r, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err))
		return
	}

	opts, err := dashboard.NewOptions(include, timeRange, s.defaultTR)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	summary, err := s.dashboard.Summary(r.Context(), p.ID, opts)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summaryToDTO(summary))
}

// DashboardHealth handles GET /dashboard/health.
func (s *Server) DashboardHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:    report.Status,
		Checks:    report.Checks,
		Timestamp: s.now().UTC(),
	})
}

// Liveness handles GET /health.
func (s *Server) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": string(healthuc.Healthy)})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
