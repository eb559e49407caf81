package domain

import "time"

// RecurringWindowDays is how far ahead recurring events are generated.
const RecurringWindowDays = 14

// recurringMarket is a weekly market held on a fixed weekday.
type recurringMarket struct {
	weekday  time.Weekday
	name     string
	visitors int
}

var weeklyMarkets = []recurringMarket{
	{weekday: time.Tuesday, name: "Weekday Farmers Market", visitors: 500},
	{weekday: time.Saturday, name: "Weekend Farmers Market", visitors: 1000},
}

// RecurringMarkets emits the weekly farmers markets falling within the next
// days days starting at now's civil date. It never fails.
func RecurringMarkets(now time.Time, days int) []Event {
	start := DateOf(now)
	var events []Event
	for i := range days {
		d := start.AddDays(i)
		for _, m := range weeklyMarkets {
			if d.Weekday() != m.weekday {
				continue
			}
			events = append(events, Event{
				Date:              d,
				Name:              m.name,
				Type:              EventMarket,
				Impact:            ImpactMedium,
				EstimatedVisitors: m.visitors,
			})
		}
	}
	return events
}
