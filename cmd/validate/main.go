// Command validate checks a forecast report file for internal consistency:
// calendar shape, day metadata, recomputed scores and data quality counters.
// It exits non-zero when any phase fails.
//
// Usage:
//
//	go run ./cmd/validate -report forecast_data.json
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/couchcryptid/demand-forecast-service/internal/adapter/report"
	"github.com/couchcryptid/demand-forecast-service/internal/domain"
	"github.com/google/go-cmp/cmp"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	path := flag.String("report", "forecast_data.json", "path to the forecast report")
	flag.Parse()

	os.Exit(run(*path))
}

func run(path string) int {
	fmt.Println("=== Forecast Report Validation ===")
	fmt.Println()

	r, err := report.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	phases := validate(r)

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Report: %d days, %d events, generated %s\n",
		len(r.Forecast), len(r.Events), r.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func validate(r domain.ForecastReport) []*phase {
	return []*phase{
		validateCalendar(r),
		validateScores(r),
		validateEvents(r),
		validateDataQuality(r),
	}
}

// validateCalendar checks the horizon and that each day's metadata derives
// from its date.
func validateCalendar(r domain.ForecastReport) *phase {
	p := &phase{name: "Phase 1: Calendar window"}

	if len(r.Forecast) != domain.ForecastDays {
		p.errorf("forecast has %d days, want %d", len(r.Forecast), domain.ForecastDays)
	}
	for i, day := range r.Forecast {
		if want := domain.NewCalendarDay(day.Date); day.CalendarDay != want {
			p.errorf("day %d (%s): metadata mismatch: %s", i, day.Date, cmp.Diff(want, day.CalendarDay))
		}
		if i > 0 && r.Forecast[i-1].Date.AddDays(1) != day.Date {
			p.errorf("day %d (%s) does not follow %s", i, day.Date, r.Forecast[i-1].Date)
		}
	}
	return p
}

// validateScores rescores every day from the report's own inputs.
func validateScores(r domain.ForecastReport) *phase {
	p := &phase{name: "Phase 2: Demand scores"}

	for _, day := range r.Forecast {
		d := day.Demand
		if d.Score < 0 || d.Score > 100 {
			p.errorf("%s: score %d out of range", day.Date, d.Score)
		}
		want := domain.Score(day.CalendarDay, day.Weather, r.Events)
		if diff := cmp.Diff(want, d); diff != "" {
			p.errorf("%s: assessment differs from rescoring (-want +got):\n%s", day.Date, diff)
		}
	}
	return p
}

func validateEvents(r domain.ForecastReport) *phase {
	p := &phase{name: "Phase 3: Events"}

	for i, e := range r.Events {
		if e.Name == "" {
			p.errorf("event %d: empty name", i)
		}
		if e.Date.IsZero() {
			p.errorf("event %d (%s): missing date", i, e.Name)
		}
		switch e.Type {
		case domain.EventMarket, domain.EventCruise, domain.EventConcert:
		default:
			p.errorf("event %d (%s): unknown type %q", i, e.Name, e.Type)
		}
		switch e.Impact {
		case domain.ImpactLow, domain.ImpactMedium, domain.ImpactHigh:
		default:
			p.errorf("event %d (%s): unknown impact %q", i, e.Name, e.Impact)
		}
		if e.EstimatedVisitors < 0 {
			p.errorf("event %d (%s): negative visitors %d", i, e.Name, e.EstimatedVisitors)
		}
	}
	return p
}

func validateDataQuality(r domain.ForecastReport) *phase {
	p := &phase{name: "Phase 4: Data quality counters"}
	q := r.DataQuality

	if q.EventsCount != len(r.Events) {
		p.errorf("events_count %d, report has %d events", q.EventsCount, len(r.Events))
	}
	if q.ForecastDays != len(r.Forecast) {
		p.errorf("forecast_days %d, report has %d days", q.ForecastDays, len(r.Forecast))
	}

	withWeather := 0
	for _, day := range r.Forecast {
		if day.Weather != nil {
			withWeather++
		}
	}
	switch {
	case !q.WeatherAvailable && withWeather > 0:
		p.errorf("weather_available is false but %d days carry weather", withWeather)
	case q.WeatherAvailable && withWeather == 0:
		p.errorf("weather_available is true but no day carries weather")
	}
	return p
}
