package scrape

import (
	"context"
	"log/slog"
	"regexp"
	"time"

	"github.com/couchcryptid/demand-forecast-service/internal/domain"
	"github.com/couchcryptid/demand-forecast-service/internal/observability"
)

const (
	cruiseSourceName = "cruise"
	defaultShipName  = "Cruise Ship"
	cruiseVisitors   = 2000
)

// DefaultCruiseLimit caps how many arrival dates are read from one page.
const DefaultCruiseLimit = 5

var (
	cruiseDatePattern = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)
	cruiseShipPattern = regexp.MustCompile(`(?i)([A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,2})\s+\((?:arrives|departs)`)
)

// CruiseSource scrapes ship arrivals from a port schedule page.
type CruiseSource struct {
	fetcher *Fetcher
	url     string
	limit   int
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewCruiseSource creates a cruise arrivals source reading url.
func NewCruiseSource(fetcher *Fetcher, url string, limit int, metrics *observability.Metrics, logger *slog.Logger) *CruiseSource {
	if limit <= 0 {
		limit = DefaultCruiseLimit
	}
	return &CruiseSource{fetcher: fetcher, url: url, limit: limit, metrics: metrics, logger: logger}
}

func (s *CruiseSource) Name() string { return cruiseSourceName }

// FetchEvents returns the scraped arrivals, or nil when the page could not be
// fetched.
func (s *CruiseSource) FetchEvents(ctx context.Context, _ time.Time) []domain.Event {
	body, err := s.fetcher.Fetch(ctx, cruiseSourceName, s.url)
	if err != nil {
		s.logger.Warn("cruise schedule unavailable", "url", s.url, "error", err)
		s.metrics.SourceFetches.WithLabelValues(cruiseSourceName, observability.OutcomeError).Inc()
		return nil
	}

	events := ParseCruiseArrivals(string(body), s.limit)
	recordOutcome(s.metrics, cruiseSourceName, len(events))
	s.logger.Info("cruise arrivals scraped", "count", len(events))
	return events
}

// ParseCruiseArrivals extracts up to limit arrivals from page text. The first
// limit ISO dates are paired by position with ship names found next to an
// "(arrives" or "(departs" marker; dates without a partner get a generic name.
// Impossible dates are dropped.
func ParseCruiseArrivals(html string, limit int) []domain.Event {
	dates := cruiseDatePattern.FindAllString(html, limit)
	ships := cruiseShipPattern.FindAllStringSubmatch(html, -1)

	var events []domain.Event
	for i, raw := range dates {
		d, err := domain.ParseDate(raw)
		if err != nil {
			continue
		}
		ship := defaultShipName
		if i < len(ships) {
			ship = ships[i][1]
		}
		events = append(events, domain.Event{
			Date:              d,
			Name:              ship + " Arrival",
			Type:              domain.EventCruise,
			Impact:            domain.ImpactHigh,
			EstimatedVisitors: cruiseVisitors,
		})
	}
	return events
}

func recordOutcome(m *observability.Metrics, source string, n int) {
	if n == 0 {
		m.SourceFetches.WithLabelValues(source, observability.OutcomeEmpty).Inc()
		return
	}
	m.SourceFetches.WithLabelValues(source, observability.OutcomeSuccess).Inc()
	m.SourceEvents.WithLabelValues(source).Add(float64(n))
}
