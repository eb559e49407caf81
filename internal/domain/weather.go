package domain

// Condition is a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionFog     Condition = "fog"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
)

// WeatherDay is the daily forecast for one calendar day, in Fahrenheit.
type WeatherDay struct {
	TempHigh  int       `json:"temp_high"`
	TempLow   int       `json:"temp_low"`
	RainProb  int       `json:"rain_prob"` // 0-100
	Condition Condition `json:"condition,omitempty"`
}

// WeatherForecast is a daily block aligned by index with the calendar window.
// A nil forecast means weather is unavailable for the whole run.
type WeatherForecast []WeatherDay

// Day returns the forecast for index i, or nil when the block does not cover it.
func (f WeatherForecast) Day(i int) *WeatherDay {
	if i < 0 || i >= len(f) {
		return nil
	}
	w := f[i]
	return &w
}
