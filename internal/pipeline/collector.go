package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/demand-forecast-service/internal/domain"
	"github.com/couchcryptid/demand-forecast-service/internal/observability"
)

// EventSource produces local events relative to now. Implementations degrade
// to an empty result instead of returning errors.
type EventSource interface {
	Name() string
	FetchEvents(ctx context.Context, now time.Time) []domain.Event
}

// RecurringSource emits the weekly farmers markets.
type RecurringSource struct {
	metrics *observability.Metrics
}

// NewRecurringSource creates the fixed-schedule market source.
func NewRecurringSource(metrics *observability.Metrics) *RecurringSource {
	return &RecurringSource{metrics: metrics}
}

func (s *RecurringSource) Name() string { return "recurring" }

func (s *RecurringSource) FetchEvents(_ context.Context, now time.Time) []domain.Event {
	events := domain.RecurringMarkets(now, domain.RecurringWindowDays)
	s.metrics.SourceFetches.WithLabelValues(s.Name(), observability.OutcomeSuccess).Inc()
	s.metrics.SourceEvents.WithLabelValues(s.Name()).Add(float64(len(events)))
	return events
}

// Collector concatenates the events of its sources in registration order.
type Collector struct {
	sources []EventSource
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewCollector creates a Collector over sources.
func NewCollector(logger *slog.Logger, metrics *observability.Metrics, sources ...EventSource) *Collector {
	return &Collector{sources: sources, logger: logger, metrics: metrics}
}

// Collect runs every source once. A source that panics contributes nothing;
// the others are unaffected. The result is never nil.
func (c *Collector) Collect(ctx context.Context, now time.Time) []domain.Event {
	events := []domain.Event{}
	for _, src := range c.sources {
		got, err := c.fetch(ctx, src, now)
		if err != nil {
			c.logger.Error("event source failed", "source", src.Name(), "error", err)
			c.metrics.SourceFetches.WithLabelValues(src.Name(), observability.OutcomeError).Inc()
			continue
		}
		c.logger.Debug("event source collected", "source", src.Name(), "count", len(got))
		events = append(events, got...)
	}
	c.logger.Info("events collected", "sources", len(c.sources), "count", len(events))
	return events
}

func (c *Collector) fetch(ctx context.Context, src EventSource, now time.Time) (events []domain.Event, err error) {
	defer func() {
		if r := recover(); r != nil {
			events = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return src.FetchEvents(ctx, now), nil
}
