package domain

import (
	"fmt"
	"time"
)

// Level is the coarse demand category derived from the score.
type Level string

const (
	LevelLow    Level = "LOW"
	LevelMedium Level = "MEDIUM"
	LevelHigh   Level = "HIGH"
)

// Scoring constants. See the package documentation for the model.
const (
	baselineScore = 50

	weekendBoost   = 30
	fridayBoost    = 20
	wednesdayBoost = 10

	perfectTempMin   = 65
	perfectTempMax   = 85
	coolTempBelow    = 60
	perfectTempBoost = 15
	hotTempPenalty   = -5
	coolTempPenalty  = -10

	heavyRainAbove   = 50
	lightRainAbove   = 30
	heavyRainPenalty = -20
	lightRainPenalty = -10

	highImpactBoost   = 25
	mediumImpactBoost = 15

	highLevelMin   = 75
	mediumLevelMin = 55

	minScore = 0
	maxScore = 100
)

const (
	recommendationHigh   = "Staff up, extend hours, maximize capacity"
	recommendationMedium = "Normal staffing, run targeted promotions"
	recommendationLow    = "Minimal staff, push deals to locals"
)

// DemandAssessment is the scored outcome for a single day.
type DemandAssessment struct {
	Score          int        `json:"score"`
	Level          Level      `json:"level"`
	Factors        []string   `json:"factors"`
	Recommendation string     `json:"recommendation"`
	Events         []EventRef `json:"events"`
}

// Score rates a day's expected demand. weather may be nil and events may be
// empty; events for other dates are ignored. Score is pure: the same inputs
// always produce the same assessment.
func Score(day CalendarDay, weather *WeatherDay, events []Event) DemandAssessment {
	score := baselineScore
	factors := []string{}

	switch {
	case day.IsWeekend:
		score += weekendBoost
		factors = append(factors, fmt.Sprintf("Weekend traffic (%+d)", weekendBoost))
	case day.DayOfWeek == mondayIndex(time.Friday):
		score += fridayBoost
		factors = append(factors, fmt.Sprintf("Friday evening (%+d)", fridayBoost))
	case day.DayOfWeek == mondayIndex(time.Wednesday):
		score += wednesdayBoost
		factors = append(factors, fmt.Sprintf("Midweek activity (%+d)", wednesdayBoost))
	}

	if weather != nil {
		delta, factor := temperatureAdjustment(weather.TempHigh)
		if factor != "" {
			score += delta
			factors = append(factors, factor)
		}
		delta, factor = rainAdjustment(weather.RainProb)
		if factor != "" {
			score += delta
			factors = append(factors, factor)
		}
	}

	dayEvents := EventsOn(events, day.Date)
	refs := make([]EventRef, 0, len(dayEvents))
	for _, e := range dayEvents {
		if boost := impactBoost(e.Impact); boost > 0 {
			score += boost
			factors = append(factors, fmt.Sprintf("%s (%+d)", e.Name, boost))
		}
		refs = append(refs, EventRef{Name: e.Name, Type: e.Type})
	}

	score = clamp(score, minScore, maxScore)
	level, recommendation := classify(score)

	return DemandAssessment{
		Score:          score,
		Level:          level,
		Factors:        factors,
		Recommendation: recommendation,
		Events:         refs,
	}
}

// temperatureAdjustment scores the daily high. 60-64°F is a neutral band.
func temperatureAdjustment(temp int) (int, string) {
	switch {
	case temp >= perfectTempMin && temp <= perfectTempMax:
		return perfectTempBoost, fmt.Sprintf("Perfect weather %d°F (%+d)", temp, perfectTempBoost)
	case temp > perfectTempMax:
		return hotTempPenalty, fmt.Sprintf("Hot weather %d°F (%+d)", temp, hotTempPenalty)
	case temp < coolTempBelow:
		return coolTempPenalty, fmt.Sprintf("Cool weather %d°F (%+d)", temp, coolTempPenalty)
	default:
		return 0, ""
	}
}

// rainAdjustment scores precipitation probability. 30% or less is neutral.
func rainAdjustment(prob int) (int, string) {
	switch {
	case prob > heavyRainAbove:
		return heavyRainPenalty, fmt.Sprintf("%d%% rain chance (%+d)", prob, heavyRainPenalty)
	case prob > lightRainAbove:
		return lightRainPenalty, fmt.Sprintf("%d%% rain chance (%+d)", prob, lightRainPenalty)
	default:
		return 0, ""
	}
}

func impactBoost(impact Impact) int {
	switch impact {
	case ImpactHigh:
		return highImpactBoost
	case ImpactMedium:
		return mediumImpactBoost
	default:
		return 0
	}
}

func classify(score int) (Level, string) {
	switch {
	case score >= highLevelMin:
		return LevelHigh, recommendationHigh
	case score >= mediumLevelMin:
		return LevelMedium, recommendationMedium
	default:
		return LevelLow, recommendationLow
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
