package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/couchcryptid/demand-forecast-service/internal/domain"
)

const rule = "============================================================"

// WriteSummary prints the human-readable run summary and week overview.
func WriteSummary(w io.Writer, r domain.ForecastReport) error {
	var b strings.Builder

	weather := "unavailable"
	if r.DataQuality.WeatherAvailable {
		weather = "available"
	}

	fmt.Fprintf(&b, "\n%s\nFORECAST GENERATED SUCCESSFULLY\n%s\n", rule, rule)
	fmt.Fprintf(&b, "%d days forecasted\n", r.DataQuality.ForecastDays)
	fmt.Fprintf(&b, "%d events included\n", r.DataQuality.EventsCount)
	fmt.Fprintf(&b, "Weather: %s\n", weather)
	fmt.Fprintf(&b, "Generated: %s\n", r.GeneratedAt.Format(time.RFC3339))

	b.WriteString("\nWEEK OVERVIEW:\n")
	b.WriteString(strings.Repeat("-", len(rule)) + "\n")
	for _, day := range r.Forecast {
		var events string
		if n := len(day.Demand.Events); n > 0 {
			events = fmt.Sprintf(" (%d events)", n)
		}
		fmt.Fprintf(&b, "  %-9s %-5s -> %-6s (%3d/100)%s\n",
			day.DayName, day.MonthDay, day.Demand.Level, day.Demand.Score, events)
	}
	b.WriteString("\n" + rule + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}
