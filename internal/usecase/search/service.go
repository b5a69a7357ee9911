package search

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/crmsearch/internal/db"
	"github.com/kailas-cloud/crmsearch/internal/domain"
	"github.com/kailas-cloud/crmsearch/internal/domain/search/category"
	"github.com/kailas-cloud/crmsearch/internal/domain/search/request"
	"github.com/kailas-cloud/crmsearch/internal/domain/search/result"
	"github.com/kailas-cloud/crmsearch/internal/logger"
)

// Service fans a query out to every selected source and ranks the merged results.
type Service struct {
	adapters map[category.Source]Adapter
	failures *prometheus.CounterVec
}

// Option configures the search service.
type Option func(*Service)

// WithFailureCounter counts recovered adapter failures by source.
func WithFailureCounter(c *prometheus.CounterVec) Option {
	return func(s *Service) { s.failures = c }
}

// New creates a search service. Sources without an adapter contribute nothing.
func New(adapters []Adapter, opts ...Option) *Service {
	s := &Service{adapters: make(map[category.Source]Adapter, len(adapters))}
	for _, a := range adapters {
		s.adapters[a.Source()] = a
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search runs a federated search for the principal.
// A failing adapter is logged and treated as empty; only a missing principal fails the call.
func (s *Service) Search(ctx context.Context, principalID string, req *request.Request) (result.Response, error) {
	if principalID == "" {
		return result.Response{}, domain.ErrUnauthenticated
	}
	if req.TooShort() {
		return result.Empty(req.Query()), nil
	}

	sources := req.Sources()
	slots := make([][]db.Row, len(sources))

	var g errgroup.Group
	for i, src := range sources {
		a, ok := s.adapters[src]
		if !ok {
			continue
		}
		g.Go(func() error {
			defer func() {
				if p := recover(); p != nil {
					s.recordFailure(ctx, src, fmt.Errorf("panic: %v", p))
				}
			}()
			rows, err := a.Search(ctx, principalID, req.Normalized(), req.Limit())
			if err != nil {
				s.recordFailure(ctx, src, err)
				return nil
			}
			slots[i] = rows
			return nil
		})
	}
	_ = g.Wait()

	categories := make(map[category.Category]int, len(req.Categories()))
	for c := range req.Categories() {
		categories[c] = 0
	}
	var merged []result.Result
	for i, src := range sources {
		categories[src.Category] += len(slots[i])
		merged = append(merged, Normalize(slots[i], src)...)
	}

	return result.NewResponse(req.Query(), Rank(merged, req.Normalized()), categories), nil
}

func (s *Service) recordFailure(ctx context.Context, src category.Source, err error) {
	logger.FromContext(ctx).Warn("Search adapter failed",
		zap.String("source", src.String()),
		zap.Error(err),
	)
	if s.failures != nil {
		s.failures.WithLabelValues(src.String()).Inc()
	}
}
