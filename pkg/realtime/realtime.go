// Package realtime provides a polling subscription client for the
// situation endpoints. A Subscription periodically fetches one endpoint,
// decodes the JSON envelope, and exposes the latest successful payload.
// A fetch succeeds only when the response status is 2xx and the envelope
// reports success; anything else surfaces as an error while the last
// good payload is retained.
//
// Responses are applied under a monotonic sequence guard: a slow fetch
// that completes after a newer one can never overwrite fresher data, and
// nothing is applied after Unsubscribe returns the subscription closed.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Option customizes a Subscription.
type Option func(*options)

type options struct {
	httpClient *http.Client
	clock      clockwork.Clock
	logger     *slog.Logger
}

// WithHTTPClient sets the HTTP client used for polling.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithClock sets the clock driving the poll timer.
func WithClock(c clockwork.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithLogger sets the logger for fetch failures.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// envelope mirrors the service's JSON response shape.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
}

// Subscription polls one endpoint and retains the latest decoded payload.
type Subscription[T any] struct {
	url      string
	interval time.Duration
	client   *http.Client
	clock    clockwork.Clock
	logger   *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}

	mu          sync.Mutex
	closed      bool
	nextSeq     uint64
	appliedSeq  uint64
	latest      T
	hasData     bool
	loading     bool
	err         error
	lastUpdated time.Time
}

// Subscribe starts polling url every interval. The first fetch begins
// immediately. Call Unsubscribe to stop polling and release the goroutine.
func Subscribe[T any](url string, interval time.Duration, opts ...Option) (*Subscription[T], error) {
	if url == "" {
		return nil, errors.New("realtime: empty url")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("realtime: interval must be positive, got %s", interval)
	}

	o := options{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		clock:      clockwork.NewRealClock(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Subscription[T]{
		url:      url,
		interval: interval,
		client:   o.httpClient,
		clock:    o.clock,
		logger:   o.logger,
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	go s.run(ctx)
	return s, nil
}

// Latest returns the most recent successfully fetched payload. The
// second return is false until the first successful fetch completes.
func (s *Subscription[T]) Latest() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, s.hasData
}

// Loading reports whether a fetch is currently in flight.
func (s *Subscription[T]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the error from the most recent fetch, or nil if it
// succeeded. A failed fetch never clears previously fetched data.
func (s *Subscription[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// LastUpdated returns when the latest payload was applied.
func (s *Subscription[T]) LastUpdated() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUpdated
}

// Refetch triggers an immediate fetch without waiting for the next tick.
// It is a no-op on a closed subscription.
func (s *Subscription[T]) Refetch(ctx context.Context) {
	seq, ok := s.begin()
	if !ok {
		return
	}
	go s.fetch(ctx, seq)
}

// Unsubscribe stops the poll loop. No state is modified after it
// returns: in-flight responses are discarded.
func (s *Subscription[T]) Unsubscribe() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.loading = false
	s.mu.Unlock()

	s.cancel()
	<-s.done
}

func (s *Subscription[T]) run(ctx context.Context) {
	defer close(s.done)

	if seq, ok := s.begin(); ok {
		s.fetch(ctx, seq)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.clock.After(s.interval):
			if seq, ok := s.begin(); ok {
				s.fetch(ctx, seq)
			}
		}
	}
}

// begin reserves the next fetch sequence number, or reports false when
// the subscription is closed.
func (s *Subscription[T]) begin() (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, false
	}
	s.nextSeq++
	s.loading = true
	return s.nextSeq, true
}

func (s *Subscription[T]) fetch(ctx context.Context, seq uint64) {
	data, err := s.doFetch(ctx)
	if err != nil && ctx.Err() == nil {
		s.logger.Warn("fetch failed", "url", s.url, "error", err)
	}
	s.apply(seq, data, err)
}

func (s *Subscription[T]) doFetch(ctx context.Context) (T, error) {
	var zero T

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return zero, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return zero, fmt.Errorf("fetch %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	// A non-2xx response is a failed fetch regardless of what its body
	// claims, so reject it before parsing the envelope.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return zero, fmt.Errorf("fetch %s: status %d", s.url, resp.StatusCode)
	}

	var env envelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return zero, fmt.Errorf("decode %s: %w", s.url, err)
	}

	if !env.Success {
		if env.Error != "" {
			return zero, errors.New(env.Error)
		}
		return zero, fmt.Errorf("fetch %s: status %d", s.url, resp.StatusCode)
	}

	return env.Data, nil
}

// apply installs a fetch result unless the subscription has closed or a
// newer fetch already applied.
func (s *Subscription[T]) apply(seq uint64, data T, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || seq <= s.appliedSeq {
		return
	}
	s.appliedSeq = seq
	s.loading = false

	if err != nil {
		s.err = err
		return
	}
	s.err = nil
	s.latest = data
	s.hasData = true
	s.lastUpdated = s.clock.Now()
}
