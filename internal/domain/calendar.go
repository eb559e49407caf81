package domain

import (
	"strings"
	"time"
)

// ForecastDays is the fixed horizon of every report.
const ForecastDays = 7

// CalendarDay describes one day of the forecast window.
type CalendarDay struct {
	Date      Date   `json:"date"`
	DayName   string `json:"day_name"`
	DayShort  string `json:"day_short"`
	DayOfWeek int    `json:"day_of_week"` // 0 = Monday .. 6 = Sunday
	IsWeekend bool   `json:"is_weekend"`
	MonthDay  string `json:"month_day"` // MM/DD
}

// NextDays returns n consecutive calendar days starting at now's civil date.
// Callers generate the window once per run and reuse it, since "now" moves.
func NextDays(now time.Time, n int) []CalendarDay {
	if n <= 0 {
		return nil
	}
	start := DateOf(now)
	days := make([]CalendarDay, 0, n)
	for i := range n {
		days = append(days, NewCalendarDay(start.AddDays(i)))
	}
	return days
}

// NewCalendarDay derives the day-of-week metadata for d.
func NewCalendarDay(d Date) CalendarDay {
	wd := d.Weekday()
	name := wd.String()
	dow := mondayIndex(wd)
	return CalendarDay{
		Date:      d,
		DayName:   name,
		DayShort:  strings.ToUpper(name[:3]),
		DayOfWeek: dow,
		IsWeekend: dow >= 5,
		MonthDay:  d.Time(time.UTC).Format("01/02"),
	}
}

// mondayIndex converts Go's Sunday=0 weekday to a Monday=0 index.
func mondayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}
