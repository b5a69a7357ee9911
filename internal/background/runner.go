// Package background runs detached fire-and-forget tasks.
package background

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a task when the runner is created without one.
const DefaultTimeout = 5 * time.Second

// Runner executes tasks detached from the caller's cancellation.
// Failures never reach the caller; they go to the logger and the error counter.
type Runner struct {
	wg      sync.WaitGroup
	timeout time.Duration
	logger  *zap.Logger
	errors  *prometheus.CounterVec
}

// New creates a runner. errors is a counter vec with label "task" and may be nil.
func New(timeout time.Duration, logger *zap.Logger, errors *prometheus.CounterVec) *Runner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Runner{timeout: timeout, logger: logger, errors: errors}
}

// Go schedules fn. The task keeps ctx values but not its deadline or cancellation.
func (r *Runner) Go(ctx context.Context, name string, fn func(ctx context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		taskCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer cancel()

		if err := r.run(taskCtx, fn); err != nil {
			r.logger.Error("Background task failed", zap.String("task", name), zap.Error(err))
			if r.errors != nil {
				r.errors.WithLabelValues(name).Inc()
			}
		}
	}()
}

// Wait blocks until every scheduled task has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return fn(ctx)
}
