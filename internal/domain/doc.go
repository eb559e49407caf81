// Package domain models the weekly demand forecast: the calendar window, the
// daily weather block, local events, and the additive scoring model that turns
// them into a demand level per day.
//
// # Calendar
//
// The forecast window is seven consecutive civil dates starting today, in the
// business's local timezone. Day-of-week indexes use a Monday=0 convention:
//
//	0 Monday | 1 Tuesday | 2 Wednesday | 3 Thursday | 4 Friday | 5 Saturday | 6 Sunday
//
// Saturday and Sunday are the weekend. The window is generated once per run by
// [NextDays] and shared by weather alignment and scoring, since regenerating it
// near midnight could shift it by a day.
//
// # Dates
//
// Every producer normalizes to [Date] (YYYY-MM-DD on the wire) before events
// are matched to days, so a scraper and the calendar cannot disagree on
// formatting.
//
// # Scoring Model
//
// [Score] starts from a baseline of 50 and applies terms in a fixed order, so
// the factor list reads as a running commentary:
//
//	Day of week (first match only):
//	  weekend +30 | Friday +20 | Wednesday +10
//	Temperature (daily high, °F):
//	  65-85 +15 | >85 -5 | <60 -10 | 60-64 no change
//	Rain probability:
//	  >50% -20 | >30% -10 | otherwise no change
//	Events on the same date:
//	  high +25 | medium +15 | low no change
//
// The sum is clamped to [0, 100] and mapped to a level:
//
//	>=75 HIGH | >=55 MEDIUM | <55 LOW
//
// Thresholds and recommendation wording are fixed constants. The neutral bands
// (60-64°F, 30% rain or less) are literal and not interpolated.
//
// # Events
//
// Recurring farmers markets come from [RecurringMarkets]. Cruise arrivals and
// concerts are scraped best-effort by adapters and may be missing on any run.
// Events are concatenated in source order without deduplication.
package domain
