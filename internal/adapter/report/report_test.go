package report

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/demand-forecast-service/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleReport(t *testing.T) domain.ForecastReport {
	t.Helper()
	now := time.Date(2026, time.October, 18, 9, 0, 0, 0, time.UTC)
	days := domain.NextDays(now, domain.ForecastDays)
	markets := domain.RecurringMarkets(now, domain.RecurringWindowDays)
	weather := &domain.WeatherDay{TempHigh: 71, TempLow: 54, RainProb: 5, Condition: domain.ConditionClear}

	forecast := make([]domain.DayForecast, 0, len(days))
	for i, d := range days {
		var w *domain.WeatherDay
		if i < 3 {
			w = weather
		}
		forecast = append(forecast, domain.DayForecast{
			CalendarDay: d,
			Demand:      domain.Score(d, w, markets),
			Weather:     w,
		})
	}
	return domain.ForecastReport{
		GeneratedAt: now,
		Forecast:    forecast,
		Events:      markets,
		DataQuality: domain.DataQuality{WeatherAvailable: true, EventsCount: len(markets), ForecastDays: len(forecast)},
	}
}

func TestFileSink_PublishRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forecast_data.json")
	sink := NewFileSink(path, discardLogger())
	want := sampleReport(t)

	require.NoError(t, sink.Publish(context.Background(), want))

	got, err := ReadFile(path)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestFileSink_IndentedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forecast_data.json")
	require.NoError(t, NewFileSink(path, discardLogger()).Publish(context.Background(), sampleReport(t)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("{\n  \"generated_at\": \"2026-10-18T09:00:00Z\",\n  \"forecast\": [")))
	assert.True(t, json.Valid(data))
}

func TestFileSink_OverwritesAndLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "forecast_data.json")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	sink := NewFileSink(path, discardLogger())
	require.NoError(t, sink.Publish(context.Background(), sampleReport(t)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "forecast_data.json", entries[0].Name())

	_, err = ReadFile(path)
	require.NoError(t, err)
}

func TestFileSink_FailureKeepsPreviousFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "forecast_data.json")
	require.NoError(t, os.WriteFile(path, []byte("previous"), 0o644))

	// The destination's directory does not exist, so nothing can be staged.
	bad := NewFileSink(filepath.Join(dir, "missing", "forecast_data.json"), discardLogger())
	require.Error(t, bad.Publish(context.Background(), sampleReport(t)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))
}

func TestReadFile_Errors(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"forecast": [`), 0o644))
	_, err = ReadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode report")
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, sampleReport(t)))
	out := buf.String()

	assert.Contains(t, out, "FORECAST GENERATED SUCCESSFULLY")
	assert.Contains(t, out, "7 days forecasted")
	assert.Contains(t, out, "4 events included")
	assert.Contains(t, out, "Weather: available")
	assert.Contains(t, out, "Generated: 2026-10-18T09:00:00Z")
	// Sunday 10/18 with perfect weather: 50 + 30 + 15.
	assert.Contains(t, out, "  Sunday    10/18 -> HIGH   ( 95/100)\n")
	// Tuesday 10/20 with perfect weather and the weekday market.
	assert.Contains(t, out, "  Tuesday   10/20 -> HIGH   ( 80/100) (1 events)\n")
	// Thursday 10/22 without weather or events.
	assert.Contains(t, out, "  Thursday  10/22 -> LOW    ( 50/100)\n")
}
