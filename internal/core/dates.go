package core

import "time"

// apiDateLayouts are tried in order when normalizing remote date strings.
// The sandbox API is inconsistent: some records carry full ISO-8601
// timestamps, some a numeric-zone variant, some a bare date.
var apiDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02",
}

// ParseAPIDate normalizes a date string from the remote API.
//
// The first layout that parses wins. When nothing parses it returns the
// current wall-clock time and ok=false so the caller can log a data-quality
// event; a malformed upstream date must not abort an otherwise valid batch.
func ParseAPIDate(raw string) (t time.Time, ok bool) {
	for _, layout := range apiDateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, true
		}
	}
	return time.Now(), false
}

// Window is a half-open date interval [Start, End). All "this month"
// aggregates are scoped by one.
type Window struct {
	Start time.Time
	End   time.Time
}

// MonthWindow returns the calendar-month window containing ref:
// [first of month, first of next month).
func MonthWindow(ref time.Time) Window {
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	return Window{Start: start, End: start.AddDate(0, 1, 0)}
}

// Contains reports whether t falls inside the window. The start is
// inclusive, the end exclusive.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// MonthSelector tracks the month currently being viewed and guards
// forward navigation: the current calendar month is the ceiling.
type MonthSelector struct {
	selected time.Time
	now      func() time.Time
}

func NewMonthSelector() *MonthSelector {
	return &MonthSelector{selected: time.Now(), now: time.Now}
}

// Window returns the calendar-month window for the selected date.
func (s *MonthSelector) Window() Window {
	return MonthWindow(s.selected)
}

// Selected returns the reference date inside the selected month.
func (s *MonthSelector) Selected() time.Time {
	return s.selected
}

// IsCurrentMonth reports whether the selected month is the current
// calendar month.
func (s *MonthSelector) IsCurrentMonth() bool {
	now := s.now()
	return s.selected.Year() == now.Year() && s.selected.Month() == now.Month()
}

// Next advances one month. It refuses to move past the current calendar
// month and reports whether it advanced; future months are unreachable.
func (s *MonthSelector) Next() bool {
	if s.IsCurrentMonth() {
		return false
	}
	s.selected = MonthWindow(s.selected).Start.AddDate(0, 1, 0)
	return true
}

// Previous retreats one month, unconditionally.
// Navigation normalizes to the first of the month so a day-31 selection
// cannot skip a short month.
func (s *MonthSelector) Previous() {
	s.selected = MonthWindow(s.selected).Start.AddDate(0, -1, 0)
}
