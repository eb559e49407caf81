package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/demand-forecast-service/internal/domain"
	"github.com/couchcryptid/demand-forecast-service/internal/observability"
	"github.com/jonboulle/clockwork"
)

// ErrQualityCheck is returned when an assembled report does not cover the
// whole forecast horizon. No report accompanies it.
var ErrQualityCheck = errors.New("forecast quality check failed")

// WeatherSource returns a daily forecast aligned with the calendar window, or
// false when weather is unavailable.
type WeatherSource interface {
	Forecast(ctx context.Context, days int) (domain.WeatherForecast, bool)
}

// EventCollector gathers every known event relative to now.
type EventCollector interface {
	Collect(ctx context.Context, now time.Time) []domain.Event
}

// Assembler builds the weekly demand forecast.
type Assembler struct {
	weather WeatherSource
	events  EventCollector
	clock   clockwork.Clock
	loc     *time.Location
	days    int
	logger  *slog.Logger
	metrics *observability.Metrics

	// Calendar produces the forecast window. Defaults to domain.NextDays.
	Calendar func(now time.Time, n int) []domain.CalendarDay

	latest atomic.Pointer[domain.ForecastReport]
}

// NewAssembler creates an Assembler. now is read from clock in loc; a nil
// clock means the real clock and a nil loc means time.Local.
func NewAssembler(weather WeatherSource, events EventCollector, clock clockwork.Clock, loc *time.Location, days int, logger *slog.Logger, metrics *observability.Metrics) *Assembler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Assembler{
		weather:  weather,
		events:   events,
		clock:    clock,
		loc:      loc,
		days:     days,
		logger:   logger,
		metrics:  metrics,
		Calendar: domain.NextDays,
	}
}

// Build runs one forecast: calendar, weather, events, per-day scoring and the
// quality check. The calendar is generated once and reused for weather
// alignment.
func (a *Assembler) Build(ctx context.Context) (domain.ForecastReport, error) {
	start := a.clock.Now()
	now := start.In(a.loc)
	defer func() {
		a.metrics.RunDuration.Observe(a.clock.Since(start).Seconds())
	}()

	calendar := a.Calendar(now, a.days)
	weather, weatherOK := a.weather.Forecast(ctx, a.days)
	events := a.events.Collect(ctx, now)
	if events == nil {
		events = []domain.Event{}
	}

	forecast := make([]domain.DayForecast, 0, len(calendar))
	for i, day := range calendar {
		var w *domain.WeatherDay
		if weatherOK {
			w = weather.Day(i)
		}
		forecast = append(forecast, domain.DayForecast{
			CalendarDay: day,
			Demand:      domain.Score(day, w, events),
			Weather:     w,
		})
	}
	a.metrics.ForecastDays.Set(float64(len(forecast)))

	if len(forecast) != a.days {
		a.metrics.QualityOK.Set(0)
		a.logger.Error("forecast quality check failed", "days", len(forecast), "expected", a.days)
		return domain.ForecastReport{}, fmt.Errorf("%w: assembled %d of %d days", ErrQualityCheck, len(forecast), a.days)
	}
	a.metrics.QualityOK.Set(1)

	report := domain.ForecastReport{
		GeneratedAt: now,
		Forecast:    forecast,
		Events:      events,
		DataQuality: domain.DataQuality{
			WeatherAvailable: weatherOK,
			EventsCount:      len(events),
			ForecastDays:     len(forecast),
		},
	}
	a.latest.Store(&report)

	a.logger.Info("forecast assembled",
		"days", len(forecast),
		"weather_available", weatherOK,
		"events", len(events),
	)
	return report, nil
}

// Latest returns the most recent successful report.
func (a *Assembler) Latest() (domain.ForecastReport, bool) {
	r := a.latest.Load()
	if r == nil {
		return domain.ForecastReport{}, false
	}
	return *r, true
}

// CheckReadiness returns nil once a report has been built successfully.
func (a *Assembler) CheckReadiness(_ context.Context) error {
	if a.latest.Load() == nil {
		return errors.New("no forecast has been built yet")
	}
	return nil
}
