package scrape

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"time"

	"github.com/couchcryptid/demand-forecast-service/internal/domain"
	"github.com/couchcryptid/demand-forecast-service/internal/observability"
)

const (
	concertSourceName = "concert"
	concertVisitors   = 4500
)

// DefaultConcertLimit caps how many listings are read from one page.
const DefaultConcertLimit = 10

var concertPattern = regexp.MustCompile(`([A-Z][a-z]{2,8})\s+(\d{1,2}).*?([A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,3})`)

var monthPrefixes = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Oct": time.October, "Nov": time.November, "Dec": time.December,
}

// ConcertSource scrapes upcoming shows from a venue listing page.
type ConcertSource struct {
	fetcher *Fetcher
	url     string
	venue   string
	limit   int
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewConcertSource creates a concert listing source for venue.
func NewConcertSource(fetcher *Fetcher, url, venue string, limit int, metrics *observability.Metrics, logger *slog.Logger) *ConcertSource {
	if limit <= 0 {
		limit = DefaultConcertLimit
	}
	return &ConcertSource{fetcher: fetcher, url: url, venue: venue, limit: limit, metrics: metrics, logger: logger}
}

func (s *ConcertSource) Name() string { return concertSourceName }

// FetchEvents returns the scraped concerts dated relative to now, or nil when
// the page could not be fetched.
func (s *ConcertSource) FetchEvents(ctx context.Context, now time.Time) []domain.Event {
	body, err := s.fetcher.Fetch(ctx, concertSourceName, s.url)
	if err != nil {
		s.logger.Warn("concert listing unavailable", "url", s.url, "error", err)
		s.metrics.SourceFetches.WithLabelValues(concertSourceName, observability.OutcomeError).Inc()
		return nil
	}

	events := ParseConcerts(string(body), now, s.venue, s.limit)
	recordOutcome(s.metrics, concertSourceName, len(events))
	s.logger.Info("concerts scraped", "count", len(events))
	return events
}

// ParseConcerts extracts up to limit "Month Day ... Artist" listings from page
// text. Listings carry no year: the current year is assumed and a date already
// behind today moves to next year. Unknown months and impossible dates are
// skipped.
func ParseConcerts(html string, now time.Time, venue string, limit int) []domain.Event {
	matches := concertPattern.FindAllStringSubmatch(html, limit)
	today := domain.DateOf(now)

	var events []domain.Event
	for _, m := range matches {
		d, ok := concertDate(m[1], m[2], today)
		if !ok {
			continue
		}
		events = append(events, domain.Event{
			Date:              d,
			Name:              m[3] + " at " + venue,
			Type:              domain.EventConcert,
			Impact:            domain.ImpactHigh,
			EstimatedVisitors: concertVisitors,
		})
	}
	return events
}

func concertDate(monthText, dayText string, today domain.Date) (domain.Date, bool) {
	month, ok := monthPrefixes[monthText[:3]]
	if !ok {
		return domain.Date{}, false
	}
	day, err := strconv.Atoi(dayText)
	if err != nil {
		return domain.Date{}, false
	}
	d, ok := domain.NewDate(today.Year, month, day)
	if !ok {
		return domain.Date{}, false
	}
	if d.Before(today) {
		return domain.NewDate(today.Year+1, month, day)
	}
	return d, true
}
