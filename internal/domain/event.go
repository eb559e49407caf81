package domain

// EventType classifies where an event came from.
type EventType string

const (
	EventMarket  EventType = "market"
	EventCruise  EventType = "cruise"
	EventConcert EventType = "concert"
)

// Impact is the coarse tier that drives an event's score boost.
type Impact string

const (
	ImpactLow    Impact = "low"
	ImpactMedium Impact = "medium"
	ImpactHigh   Impact = "high"
)

// Event is a local happening expected to change foot traffic on its date.
type Event struct {
	Date              Date      `json:"date"`
	Name              string    `json:"name"`
	Type              EventType `json:"type"`
	Impact            Impact    `json:"impact"`
	EstimatedVisitors int       `json:"estimated_visitors"`
}

// EventRef is the short form of an event attached to a day's assessment.
type EventRef struct {
	Name string    `json:"name"`
	Type EventType `json:"type"`
}

// EventsOn returns the events whose date equals d, preserving input order.
func EventsOn(events []Event, d Date) []Event {
	var out []Event
	for _, e := range events {
		if e.Date == d {
			out = append(out, e)
		}
	}
	return out
}
