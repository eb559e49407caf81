package domain

import "time"

// DayForecast is one entry of the report: the calendar day, its assessment,
// and the weather for that day when available.
type DayForecast struct {
	CalendarDay
	Demand  DemandAssessment `json:"demand"`
	Weather *WeatherDay      `json:"weather,omitempty"`
}

// DataQuality summarizes which inputs contributed to a report.
type DataQuality struct {
	WeatherAvailable bool `json:"weather_available"`
	EventsCount      int  `json:"events_count"`
	ForecastDays     int  `json:"forecast_days"`
}

// ForecastReport is the single artifact produced by a run.
type ForecastReport struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Forecast    []DayForecast `json:"forecast"`
	Events      []Event       `json:"events"`
	DataQuality DataQuality   `json:"data_quality"`
}
