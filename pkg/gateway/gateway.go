// Package gateway serializes requests to the catalog API so they respect its
// rate limit, and retries requests the API throttles.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

const DefaultMinInterval = 350 * time.Millisecond

// ErrThrottled is returned once the retry policy gave up on a 429.
var ErrThrottled = errors.New("throttled by remote service")

// Clock abstracts time so spacing and backoff can be tested without waiting.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type Gateway struct {
	client      *http.Client
	minInterval time.Duration
	budget      *rate.Limiter
	retry       RetryPolicy
	clock       Clock
	logger      *slog.Logger
	onDispatch  func(url string, at time.Time)

	// turn admits one caller at a time into the spacing wait, so dispatch
	// times are totally ordered. Queued callers still observe their own ctx.
	turn *semaphore.Weighted

	mu           sync.Mutex
	lastDispatch time.Time
}

type Option func(*Gateway)

func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) { g.client = c }
}

func WithMinInterval(d time.Duration) Option {
	return func(g *Gateway) { g.minInterval = d }
}

func WithRetryPolicy(p RetryPolicy) Option {
	return func(g *Gateway) { g.retry = p }
}

// WithPerMinute caps sustained throughput on top of the minimum interval.
// n <= 0 disables the cap.
func WithPerMinute(n int) Option {
	return func(g *Gateway) {
		if n <= 0 {
			g.budget = nil
			return
		}
		g.budget = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), n)
	}
}

func WithClock(c Clock) Option {
	return func(g *Gateway) { g.clock = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithDispatchHook is called with every recorded dispatch time, before the
// next caller is admitted.
func WithDispatchHook(fn func(url string, at time.Time)) Option {
	return func(g *Gateway) { g.onDispatch = fn }
}

func New(opts ...Option) *Gateway {
	g := &Gateway{
		client:      &http.Client{Timeout: 30 * time.Second},
		minInterval: DefaultMinInterval,
		retry:       DefaultRetryPolicy(),
		clock:       systemClock{},
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		turn:        semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// LastDispatch returns when the most recent request was sent.
func (g *Gateway) LastDispatch() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastDispatch
}

// Fetch GETs url respecting the minimum interval. A 429 is retried according
// to the retry policy; any other response is returned as is, and transport
// errors are returned unmodified.
func (g *Gateway) Fetch(ctx context.Context, url string) (*http.Response, error) {
	schedule := g.retry.NewBackOff()

	for attempt := 1; ; attempt++ {
		resp, err := g.dispatch(ctx, url)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		wait := schedule.NextBackOff()
		if wait == backoff.Stop {
			g.logger.Error("giving up on throttled request", "url", url, "attempts", attempt)
			return nil, fmt.Errorf("%w: %s after %d attempts", ErrThrottled, url, attempt)
		}

		g.logger.Warn("throttled, backing off", "url", url, "attempt", attempt, "wait", wait)
		if err := g.clock.Sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
}

func (g *Gateway) dispatch(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "mangaverse/1.0")

	if err := g.throttle(ctx, url); err != nil {
		return nil, err
	}
	return g.client.Do(req)
}

func (g *Gateway) throttle(ctx context.Context, url string) error {
	if err := g.turn.Acquire(ctx, 1); err != nil {
		return err
	}
	defer g.turn.Release(1)

	if last := g.LastDispatch(); !last.IsZero() {
		if wait := g.minInterval - g.clock.Now().Sub(last); wait > 0 {
			if err := g.clock.Sleep(ctx, wait); err != nil {
				return err
			}
		}
	}

	if g.budget != nil {
		now := g.clock.Now()
		r := g.budget.ReserveN(now, 1)
		if wait := r.DelayFrom(now); wait > 0 {
			g.logger.Debug("per-minute budget exhausted", "wait", wait)
			if err := g.clock.Sleep(ctx, wait); err != nil {
				r.CancelAt(g.clock.Now())
				return err
			}
		}
	}

	at := g.clock.Now()
	g.mu.Lock()
	g.lastDispatch = at
	g.mu.Unlock()

	g.logger.Debug("dispatch", "url", url, "at", at)
	if g.onDispatch != nil {
		g.onDispatch(url, at)
	}
	return nil
}
