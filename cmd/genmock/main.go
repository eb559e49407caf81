// Command genmock builds a forecast report fixture offline from stored source
// pages. It runs the real parsers, scorer and assembler against a fixed clock
// so the output is reproducible.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -fixtures data/mock \
//	  -out data/mock/forecast_data.json \
//	  -now 2026-10-18T09:00:00-07:00
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/demand-forecast-service/internal/adapter/openmeteo"
	"github.com/couchcryptid/demand-forecast-service/internal/adapter/report"
	"github.com/couchcryptid/demand-forecast-service/internal/adapter/scrape"
	"github.com/couchcryptid/demand-forecast-service/internal/domain"
	"github.com/couchcryptid/demand-forecast-service/internal/observability"
	"github.com/couchcryptid/demand-forecast-service/internal/pipeline"
	"github.com/jonboulle/clockwork"
)

const (
	weatherFixture = "openmeteo_forecast.json"
	cruiseFixture  = "cruise_schedule.html"
	concertFixture = "concert_listing.html"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	fixtures := flag.String("fixtures", "data/mock", "directory containing stored source pages")
	out := flag.String("out", "data/mock/forecast_data.json", "output path for the report fixture")
	nowFlag := flag.String("now", "2026-10-18T09:00:00-07:00", "reference instant (RFC 3339)")
	tz := flag.String("timezone", "America/Los_Angeles", "forecast timezone")
	venue := flag.String("venue", "SB Bowl", "concert venue name")
	flag.Parse()

	now, err := time.Parse(time.RFC3339, *nowFlag)
	if err != nil {
		return fmt.Errorf("parse -now: %w", err)
	}
	loc, err := time.LoadLocation(*tz)
	if err != nil {
		return fmt.Errorf("load -timezone: %w", err)
	}

	weatherBody, err := os.ReadFile(filepath.Join(*fixtures, weatherFixture))
	if err != nil {
		return fmt.Errorf("read weather fixture: %w", err)
	}
	cruisePage, err := os.ReadFile(filepath.Join(*fixtures, cruiseFixture))
	if err != nil {
		return fmt.Errorf("read cruise fixture: %w", err)
	}
	concertPage, err := os.ReadFile(filepath.Join(*fixtures, concertFixture))
	if err != nil {
		return fmt.Errorf("read concert fixture: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()

	collector := pipeline.NewCollector(logger, metrics,
		pipeline.NewRecurringSource(metrics),
		pageSource{name: "cruise", parse: func(_ time.Time) []domain.Event {
			return scrape.ParseCruiseArrivals(string(cruisePage), scrape.DefaultCruiseLimit)
		}},
		pageSource{name: "concert", parse: func(now time.Time) []domain.Event {
			return scrape.ParseConcerts(string(concertPage), now, *venue, scrape.DefaultConcertLimit)
		}},
	)
	weather := storedWeather{body: weatherBody}

	clock := clockwork.NewFakeClockAt(now)
	assembler := pipeline.NewAssembler(weather, collector, clock, loc, domain.ForecastDays, logger, metrics)

	r, err := assembler.Build(context.Background())
	if err != nil {
		return fmt.Errorf("build report: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return err
	}
	if err := report.NewFileSink(*out, logger).Publish(context.Background(), r); err != nil {
		return err
	}
	log.Printf("wrote report fixture: %s (%d days, %d events, weather=%t)",
		*out, len(r.Forecast), r.DataQuality.EventsCount, r.DataQuality.WeatherAvailable)

	return report.WriteSummary(os.Stdout, r)
}

// pageSource replays a stored listing page through its parser.
type pageSource struct {
	name  string
	parse func(now time.Time) []domain.Event
}

func (s pageSource) Name() string { return s.name }

func (s pageSource) FetchEvents(_ context.Context, now time.Time) []domain.Event {
	return s.parse(now)
}

// storedWeather decodes a stored Open-Meteo response.
type storedWeather struct {
	body []byte
}

func (w storedWeather) Forecast(_ context.Context, days int) (domain.WeatherForecast, bool) {
	forecast, err := openmeteo.DecodeForecast(bytes.NewReader(w.body), days)
	if err != nil {
		log.Printf("weather fixture unusable: %v", err)
		return nil, false
	}
	return forecast, true
}
