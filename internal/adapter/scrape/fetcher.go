package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/couchcryptid/demand-forecast-service/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/sony/gobreaker"
)

// DefaultUserAgent identifies requests as a desktop browser; both listing
// sites reject obvious bot agents.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

const maxBodyBytes = 8 << 20

var (
	// ErrCircuitOpen is returned when the host's breaker rejects the request.
	ErrCircuitOpen = errors.New("circuit breaker open")

	errUnexpectedStatus = errors.New("unexpected status code")
)

// FetcherConfig controls the retry loop of a Fetcher.
type FetcherConfig struct {
	Timeout     time.Duration
	MaxAttempts int
	RetryDelay  time.Duration
	UserAgent   string
}

// Fetcher performs bounded-retry GETs against listing pages. Retries wait on
// an injected clock, and each host sits behind its own circuit breaker.
type Fetcher struct {
	client      *http.Client
	clock       clockwork.Clock
	maxAttempts int
	delay       time.Duration
	userAgent   string
	metrics     *observability.Metrics
	logger      *slog.Logger

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

// NewFetcher creates a Fetcher. A nil clock means the real clock.
func NewFetcher(cfg FetcherConfig, clock clockwork.Clock, metrics *observability.Metrics, logger *slog.Logger) *Fetcher {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	return &Fetcher{
		client:      &http.Client{Timeout: cfg.Timeout},
		clock:       clock,
		maxAttempts: cfg.MaxAttempts,
		delay:       cfg.RetryDelay,
		userAgent:   cfg.UserAgent,
		metrics:     metrics,
		logger:      logger,
		breakers:    make(map[string]*gobreaker.CircuitBreaker),
	}
}

// Fetch returns the body of rawURL, trying up to the configured number of
// attempts with a fixed delay in between. source labels logs and metrics.
func (f *Fetcher) Fetch(ctx context.Context, source, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	cb := f.breaker(u.Host)

	var lastErr error
	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f.metrics.FetchAttempts.WithLabelValues(source).Inc()

		result, err := cb.Execute(func() (interface{}, error) {
			return f.get(ctx, rawURL)
		})
		if err == nil {
			body, ok := result.([]byte)
			if !ok {
				return nil, fmt.Errorf("unexpected result type %T from circuit breaker", result)
			}
			return body, nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %s: %v", ErrCircuitOpen, u.Host, err)
		}

		lastErr = err
		f.logger.Warn("fetch attempt failed",
			"source", source,
			"attempt", attempt,
			"max_attempts", f.maxAttempts,
			"error", err,
		)
		if attempt == f.maxAttempts {
			break
		}
		if !f.wait(ctx) {
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("giving up after %d attempts: %w", f.maxAttempts, lastErr)
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %d", errUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

func (f *Fetcher) wait(ctx context.Context) bool {
	if f.delay <= 0 {
		return true
	}
	select {
	case <-ctx.Done():
		return false
	case <-f.clock.After(f.delay):
		return true
	}
}

func (f *Fetcher) breaker(host string) *gobreaker.CircuitBreaker {
	f.mu.Lock()
	defer f.mu.Unlock()

	if cb, ok := f.breakers[host]; ok {
		return cb
	}
	// Trips once a full retry budget has failed against the host.
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        host,
		MaxRequests: 1,
		Interval:    5 * time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(f.maxAttempts)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			f.logger.Warn("circuit breaker state changed", "host", name, "from", from.String(), "to", to.String())
		},
	})
	f.breakers[host] = cb
	return cb
}
