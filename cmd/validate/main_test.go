package main

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/demand-forecast-service/internal/adapter/report"
	"github.com/couchcryptid/demand-forecast-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validReport() domain.ForecastReport {
	now := time.Date(2026, time.October, 18, 9, 0, 0, 0, time.UTC)
	days := domain.NextDays(now, domain.ForecastDays)
	events := domain.RecurringMarkets(now, domain.RecurringWindowDays)
	weather := &domain.WeatherDay{TempHigh: 68, TempLow: 52, RainProb: 40}

	forecast := make([]domain.DayForecast, 0, len(days))
	for _, d := range days {
		forecast = append(forecast, domain.DayForecast{
			CalendarDay: d,
			Demand:      domain.Score(d, weather, events),
			Weather:     weather,
		})
	}
	return domain.ForecastReport{
		GeneratedAt: now,
		Forecast:    forecast,
		Events:      events,
		DataQuality: domain.DataQuality{WeatherAvailable: true, EventsCount: len(events), ForecastDays: len(forecast)},
	}
}

func failedPhases(phases []*phase) []string {
	var names []string
	for _, p := range phases {
		if !p.passed() {
			names = append(names, p.name)
		}
	}
	return names
}

func TestValidate_ValidReportPasses(t *testing.T) {
	assert.Empty(t, failedPhases(validate(validReport())))
}

func TestValidate_DetectsTampering(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *domain.ForecastReport)
		phase  string
	}{
		{"short forecast", func(r *domain.ForecastReport) {
			r.Forecast = r.Forecast[:6]
			r.DataQuality.ForecastDays = 6
		}, "Phase 1: Calendar window"},
		{"wrong day abbreviation", func(r *domain.ForecastReport) {
			r.Forecast[1].DayShort = "MO"
		}, "Phase 1: Calendar window"},
		{"edited score", func(r *domain.ForecastReport) {
			r.Forecast[3].Demand.Score = 99
		}, "Phase 2: Demand scores"},
		{"unknown event type outside the window", func(r *domain.ForecastReport) {
			r.Events[len(r.Events)-1].Type = "parade"
		}, "Phase 3: Events"},
		{"stale events_count", func(r *domain.ForecastReport) {
			r.DataQuality.EventsCount++
		}, "Phase 4: Data quality counters"},
		{"weather flag without weather", func(r *domain.ForecastReport) {
			for i := range r.Forecast {
				r.Forecast[i].Weather = nil
				r.Forecast[i].Demand = domain.Score(r.Forecast[i].CalendarDay, nil, r.Events)
			}
		}, "Phase 4: Data quality counters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validReport()
			tt.mutate(&r)
			assert.Equal(t, []string{tt.phase}, failedPhases(validate(r)))
		})
	}
}

func TestRun_ExitCodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forecast_data.json")
	sink := report.NewFileSink(path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, sink.Publish(context.Background(), validReport()))

	assert.Equal(t, 0, run(path))
	assert.Equal(t, 1, run(filepath.Join(t.TempDir(), "missing.json")))
}
