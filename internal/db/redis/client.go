// Package redis implements db.Cache over Redis or Valkey via rueidis.
package redis

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/rueidis"

	"github.com/kailas-cloud/crmsearch/internal/db"
)

// Compile-time check: Store implements db.Cache.
var _ db.Cache = (*Store)(nil)

const (
	defaultRedialInterval = time.Second
	defaultDialTimeout    = 2 * time.Second
)

// Config holds connection parameters for a Redis store.
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int
}

// DialFunc opens a rueidis client for cfg.
type DialFunc func(cfg Config) (rueidis.Client, error)

// Option configures a Store.
type Option func(*Store)

// WithDialer replaces the rueidis dialer.
func WithDialer(dial DialFunc) Option {
	return func(s *Store) { s.dial = dial }
}

// WithRedialInterval sets the minimum delay between connection attempts.
func WithRedialInterval(d time.Duration) Option {
	return func(s *Store) { s.redialEvery = d }
}

// Store implements db.Cache via rueidis.
//
// The client is dialed lazily: while Redis is unreachable every operation
// fails with db.ErrUnavailable and the next call after the redial interval
// tries to connect again.
type Store struct {
	cfg         Config
	dial        DialFunc
	redialEvery time.Duration

	mu       sync.Mutex
	client   rueidis.Client
	lastDial time.Time
	dialErr  error
	closed   bool
}

// NewStore creates a Redis store and makes one connection attempt.
// An unreachable server is not an error; check WaitForReady or Ping.
func NewStore(cfg Config, opts ...Option) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}

	s := &Store{cfg: cfg, dial: dialRueidis, redialEvery: defaultRedialInterval}
	for _, o := range opts {
		o(s)
	}
	_, _ = s.conn()
	return s, nil
}

func dialRueidis(cfg Config) (rueidis.Client, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
		Dialer:       net.Dialer{Timeout: defaultDialTimeout},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

// conn returns the live client, dialing when none is connected yet.
func (s *Store) conn() (rueidis.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}
	if s.closed {
		return nil, fmt.Errorf("%w: store closed", db.ErrUnavailable)
	}
	if s.dialErr != nil && time.Since(s.lastDial) < s.redialEvery {
		return nil, fmt.Errorf("%w: %v", db.ErrUnavailable, s.dialErr)
	}

	s.lastDial = time.Now()
	client, err := s.dial(s.cfg)
	if err != nil {
		s.dialErr = err
		return nil, fmt.Errorf("%w: %v", db.ErrUnavailable, err)
	}
	s.client, s.dialErr = client, nil
	return client, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	c, err := s.conn()
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	if err := c.Do(ctx, c.B().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.client != nil {
		s.client.Close()
		s.client = nil
	}
}

// WaitForReady retries Ping with exponential backoff until the store
// responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxInterval = time.Second
	b.MaxElapsedTime = timeout

	if err := backoff.Retry(func() error { return s.Ping(ctx) }, backoff.WithContext(b, ctx)); err != nil {
		return fmt.Errorf("timeout waiting for cache: %w", err)
	}
	return nil
}
