package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecurringMarkets_TwoWeeks(t *testing.T) {
	// Sunday 2026-10-18.
	now := time.Date(2026, time.October, 18, 8, 0, 0, 0, time.UTC)

	events := RecurringMarkets(now, RecurringWindowDays)
	require.Len(t, events, 4)

	want := []struct {
		date     string
		name     string
		visitors int
	}{
		{"2026-10-20", "Weekday Farmers Market", 500},
		{"2026-10-24", "Weekend Farmers Market", 1000},
		{"2026-10-27", "Weekday Farmers Market", 500},
		{"2026-10-31", "Weekend Farmers Market", 1000},
	}
	for i, w := range want {
		assert.Equal(t, w.date, events[i].Date.String())
		assert.Equal(t, w.name, events[i].Name)
		assert.Equal(t, w.visitors, events[i].EstimatedVisitors)
		assert.Equal(t, EventMarket, events[i].Type)
		assert.Equal(t, ImpactMedium, events[i].Impact)
	}
}

func TestRecurringMarkets_IncludesToday(t *testing.T) {
	// Tuesday.
	now := time.Date(2026, time.October, 20, 18, 0, 0, 0, time.UTC)

	events := RecurringMarkets(now, 1)
	require.Len(t, events, 1)
	assert.Equal(t, "2026-10-20", events[0].Date.String())
}

func TestRecurringMarkets_EmptyWindow(t *testing.T) {
	assert.Empty(t, RecurringMarkets(time.Now(), 0))
}
