// Package date holds the calendar-day helpers shared by the store and
// the due-today checks. Tasks carry full timestamps, but every rule in
// the app works at day granularity.
package date

import "time"

// localDateLayout is the wire format used by the form's date field.
const localDateLayout = "2006-01-02"

// SameDay reports whether a and b fall on the same calendar day,
// ignoring time-of-day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Noon returns t's calendar day with the time pinned to 12:00:00 local.
// Keeping due dates at noon avoids day rollover when a timestamp is
// serialized in one timezone and read back in another.
func Noon(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, t.Location())
}

// Today returns the current day at noon.
func Today() time.Time {
	return Noon(time.Now())
}

// ParseLocal parses a YYYY-MM-DD form value into a noon-pinned date in
// the local timezone.
func ParseLocal(s string) (time.Time, error) {
	t, err := time.ParseInLocation(localDateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, err
	}
	return Noon(t), nil
}

// LocalDateString formats t as YYYY-MM-DD.
func LocalDateString(t time.Time) string {
	return t.Format(localDateLayout)
}
