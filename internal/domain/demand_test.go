package domain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dayOn(t *testing.T, s string) CalendarDay {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return NewCalendarDay(d)
}

const (
	testSaturday  = "2026-10-17"
	testSunday    = "2026-10-18"
	testTuesday   = "2026-10-20"
	testWednesday = "2026-10-21"
	testThursday  = "2026-10-22"
	testFriday    = "2026-10-23"
)

func TestScore_SaturdayWithoutInputs(t *testing.T) {
	got := Score(dayOn(t, testSaturday), nil, nil)

	assert.Equal(t, 80, got.Score)
	assert.Equal(t, LevelHigh, got.Level)
	assert.Equal(t, []string{"Weekend traffic (+30)"}, got.Factors)
	assert.Equal(t, recommendationHigh, got.Recommendation)
	assert.Empty(t, got.Events)
}

func TestScore_WednesdayPerfectWeather(t *testing.T) {
	got := Score(dayOn(t, testWednesday), &WeatherDay{TempHigh: 70, TempLow: 55, RainProb: 20}, nil)

	assert.Equal(t, 75, got.Score)
	assert.Equal(t, LevelHigh, got.Level)
	assert.Equal(t, []string{
		"Midweek activity (+10)",
		"Perfect weather 70°F (+15)",
	}, got.Factors)
}

func TestScore_TuesdayHotRainyWithEvent(t *testing.T) {
	day := dayOn(t, testTuesday)
	events := []Event{
		{Date: day.Date, Name: "Harbor Festival", Type: EventConcert, Impact: ImpactHigh, EstimatedVisitors: 4500},
	}

	got := Score(day, &WeatherDay{TempHigh: 90, TempLow: 70, RainProb: 60}, events)

	want := DemandAssessment{
		Score: 50,
		Level: LevelLow,
		Factors: []string{
			"Hot weather 90°F (-5)",
			"60% rain chance (-20)",
			"Harbor Festival (+25)",
		},
		Recommendation: recommendationLow,
		Events:         []EventRef{{Name: "Harbor Festival", Type: EventConcert}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("assessment mismatch (-want +got):\n%s", diff)
	}
}

func TestScore_DayOfWeekTerms(t *testing.T) {
	tests := []struct {
		date   string
		score  int
		factor string
	}{
		{testSunday, 80, "Weekend traffic (+30)"},
		{testFriday, 70, "Friday evening (+20)"},
		{testWednesday, 60, "Midweek activity (+10)"},
		{testTuesday, 50, ""},
		{testThursday, 50, ""},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			got := Score(dayOn(t, tt.date), nil, nil)
			assert.Equal(t, tt.score, got.Score)
			if tt.factor == "" {
				assert.Empty(t, got.Factors)
				return
			}
			assert.Equal(t, []string{tt.factor}, got.Factors)
		})
	}
}

func TestScore_TemperatureBands(t *testing.T) {
	tests := []struct {
		temp   int
		delta  int
		factor string
	}{
		{59, -10, "Cool weather 59°F (-10)"},
		{60, 0, ""},
		{64, 0, ""},
		{65, 15, "Perfect weather 65°F (+15)"},
		{85, 15, "Perfect weather 85°F (+15)"},
		{86, -5, "Hot weather 86°F (-5)"},
	}
	for _, tt := range tests {
		got := Score(dayOn(t, testThursday), &WeatherDay{TempHigh: tt.temp}, nil)
		assert.Equal(t, baselineScore+tt.delta, got.Score, "temp %d", tt.temp)
		if tt.factor == "" {
			assert.Empty(t, got.Factors, "temp %d", tt.temp)
		} else {
			assert.Equal(t, []string{tt.factor}, got.Factors, "temp %d", tt.temp)
		}
	}
}

func TestScore_RainBands(t *testing.T) {
	tests := []struct {
		prob  int
		delta int
	}{
		{0, 0},
		{30, 0},
		{31, -10},
		{50, -10},
		{51, -20},
		{100, -20},
	}
	for _, tt := range tests {
		// 62°F sits in the neutral temperature band, isolating the rain term.
		got := Score(dayOn(t, testThursday), &WeatherDay{TempHigh: 62, RainProb: tt.prob}, nil)
		assert.Equal(t, baselineScore+tt.delta, got.Score, "rain %d%%", tt.prob)
	}
}

func TestScore_EventImpactsAndMatching(t *testing.T) {
	day := dayOn(t, testThursday)
	other := day.Date.AddDays(1)
	events := []Event{
		{Date: day.Date, Name: "Weekday Farmers Market", Type: EventMarket, Impact: ImpactMedium},
		{Date: other, Name: "Tomorrow Concert", Type: EventConcert, Impact: ImpactHigh},
		{Date: day.Date, Name: "Poetry Reading", Type: EventConcert, Impact: ImpactLow},
		{Date: day.Date, Name: "Island Princess Arrival", Type: EventCruise, Impact: ImpactHigh},
	}

	got := Score(day, nil, events)

	assert.Equal(t, 90, got.Score)
	assert.Equal(t, []string{
		"Weekday Farmers Market (+15)",
		"Island Princess Arrival (+25)",
	}, got.Factors)
	assert.Equal(t, []EventRef{
		{Name: "Weekday Farmers Market", Type: EventMarket},
		{Name: "Poetry Reading", Type: EventConcert},
		{Name: "Island Princess Arrival", Type: EventCruise},
	}, got.Events)
}

func TestScore_ClampsToRange(t *testing.T) {
	day := dayOn(t, testSaturday)
	var events []Event
	for range 4 {
		events = append(events, Event{Date: day.Date, Name: "Big Show", Type: EventConcert, Impact: ImpactHigh})
	}

	high := Score(day, &WeatherDay{TempHigh: 72}, events)
	assert.Equal(t, 100, high.Score)
	assert.Equal(t, LevelHigh, high.Level)

	low := Score(dayOn(t, testThursday), &WeatherDay{TempHigh: 40, RainProb: 90}, nil)
	assert.Equal(t, 20, low.Score)
	assert.Equal(t, LevelLow, low.Level)
	assert.Equal(t, recommendationLow, low.Recommendation)
}

func TestScore_LevelBoundaries(t *testing.T) {
	tests := []struct {
		score int
		level Level
	}{
		{0, LevelLow},
		{54, LevelLow},
		{55, LevelMedium},
		{74, LevelMedium},
		{75, LevelHigh},
		{100, LevelHigh},
	}
	for _, tt := range tests {
		level, _ := classify(tt.score)
		assert.Equal(t, tt.level, level, "score %d", tt.score)
	}
}

func TestScore_BoundedAndPure(t *testing.T) {
	start := DateOf(time.Date(2026, time.October, 12, 0, 0, 0, 0, time.UTC))
	weathers := []*WeatherDay{
		nil,
		{TempHigh: 30, RainProb: 100},
		{TempHigh: 70, RainProb: 0},
		{TempHigh: 99, RainProb: 45},
	}
	impacts := []Impact{ImpactLow, ImpactMedium, ImpactHigh}

	for i := range 7 {
		day := NewCalendarDay(start.AddDays(i))
		for _, w := range weathers {
			for n := range 6 {
				events := make([]Event, 0, n)
				for j := range n {
					events = append(events, Event{Date: day.Date, Name: "e", Impact: impacts[j%len(impacts)]})
				}

				first := Score(day, w, events)
				second := Score(day, w, events)

				assert.GreaterOrEqual(t, first.Score, 0)
				assert.LessOrEqual(t, first.Score, 100)
				assert.Contains(t, []Level{LevelLow, LevelMedium, LevelHigh}, first.Level)
				wantLevel, _ := classify(first.Score)
				assert.Equal(t, wantLevel, first.Level)
				if diff := cmp.Diff(first, second); diff != "" {
					t.Fatalf("score not deterministic (-first +second):\n%s", diff)
				}
			}
		}
	}
}

func TestScore_DoesNotMutateInputs(t *testing.T) {
	day := dayOn(t, testTuesday)
	w := &WeatherDay{TempHigh: 70, RainProb: 40}
	events := []Event{{Date: day.Date, Name: "Market", Type: EventMarket, Impact: ImpactMedium}}

	_ = Score(day, w, events)

	assert.Equal(t, WeatherDay{TempHigh: 70, RainProb: 40}, *w)
	assert.Len(t, events, 1)
	assert.Equal(t, "Market", events[0].Name)
}
