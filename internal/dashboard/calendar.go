package dashboard

import (
	"slices"
	"strings"
	"time"
)

// Calendar mirrors /api/calendar. The backend partitions events into
// Today and Upcoming and also sends the flat All list with is_today and
// is_upcoming flags; the first calendar push carries only the flat list.
type Calendar struct {
	Today    []CalendarEvent `json:"today"`
	Upcoming []CalendarEvent `json:"upcoming"`
	All      []CalendarEvent `json:"all,omitempty"`
}

// CalendarEvent is a single calendar entry. Date is a display label such
// as "Nov 03" and Time one such as "02:30 PM"; Datetime is ISO 8601.
type CalendarEvent struct {
	ID         string `json:"id,omitempty"`
	Title      string `json:"title"`
	Datetime   string `json:"datetime"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	AllDay     bool   `json:"all_day,omitempty"`
	Notes      string `json:"notes,omitempty"`
	IsToday    bool   `json:"is_today,omitempty"`
	IsUpcoming bool   `json:"is_upcoming,omitempty"`
	Account    string `json:"account,omitempty"`
	Source     string `json:"source,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
}

var eventLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Start parses the event start. The zero time is returned when neither
// Datetime nor Date parse.
func (e CalendarEvent) Start() time.Time {
	for _, value := range []string{e.Datetime, e.Date} {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		for _, layout := range eventLayouts {
			if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}

// DisplayTime is the short time label for the event.
func (e CalendarEvent) DisplayTime() string {
	if e.AllDay {
		return "All day"
	}
	if t := strings.TrimSpace(e.Time); t != "" {
		return t
	}
	start := e.Start()
	if start.IsZero() || !strings.ContainsAny(strings.TrimSpace(e.Datetime), "T ") {
		return ""
	}
	return start.Format("15:04")
}

// DisplayDate is the short date label used in the upcoming card.
func (e CalendarEvent) DisplayDate() string {
	start := e.Start()
	if start.IsZero() {
		return strings.TrimSpace(e.Date)
	}
	return start.Format("Mon Jan 2")
}

// Normalize returns a copy with both lists sorted ascending by start. When
// the backend sent only the flat list it is partitioned using the
// is_today/is_upcoming flags, and All is dropped.
func (c Calendar) Normalize() Calendar {
	out := Calendar{
		Today:    slices.Clone(c.Today),
		Upcoming: slices.Clone(c.Upcoming),
	}
	if len(out.Today) == 0 && len(out.Upcoming) == 0 && len(c.All) > 0 {
		for _, ev := range c.All {
			switch {
			case ev.IsToday:
				out.Today = append(out.Today, ev)
			case ev.IsUpcoming:
				out.Upcoming = append(out.Upcoming, ev)
			}
		}
	}
	sortEvents(out.Today)
	sortEvents(out.Upcoming)
	return out
}

func sortEvents(events []CalendarEvent) {
	slices.SortStableFunc(events, func(a, b CalendarEvent) int {
		as, bs := a.Start(), b.Start()
		if !as.IsZero() && !bs.IsZero() {
			return as.Compare(bs)
		}
		return strings.Compare(a.Datetime, b.Datetime)
	})
}
