package timelog

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Minutes is a logged duration in whole minutes.
type Minutes = int

// TaskEntry is a single logged unit of work.
type TaskEntry struct {
	ID              uuid.UUID
	Project         string
	Description     string
	DurationMinutes Minutes
}

// DailyLog groups the entries recorded for one calendar day.
type DailyLog struct {
	ID      uuid.UUID
	Date    time.Time
	Entries []TaskEntry
}

// TotalMinutes sums the durations of all entries in the log.
func (l DailyLog) TotalMinutes() Minutes {
	total := 0
	for _, e := range l.Entries {
		total += e.DurationMinutes
	}
	return total
}

// Clone returns a copy of the log that shares no memory with l.
func (l DailyLog) Clone() DailyLog {
	c := l
	c.Entries = append([]TaskEntry(nil), l.Entries...)
	return c
}

// IndexOf returns the position of the entry with the given ID, or -1.
func (l DailyLog) IndexOf(id uuid.UUID) int {
	for i, e := range l.Entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// StartOfDay truncates t to midnight of its calendar day in loc.
// A nil loc keeps t's own location.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// FormatMinutes renders a duration as "45m", "2h" or "1h 30m".
func FormatMinutes(minutes Minutes) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	h := minutes / 60
	m := minutes % 60
	if m > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dh", h)
}
