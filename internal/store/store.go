// Package store holds the in-memory collection of daily logs.
//
// LogStore keeps at most one log per calendar day, never keeps an empty
// log, and orders logs newest first. It is not safe for concurrent use; it
// is meant to be driven from a single UI event loop.
package store

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"timetracker/internal/timelog"
)

// LogStore owns the daily logs and every entry inside them.
type LogStore struct {
	logs      []timelog.DailyLog
	loc       *time.Location
	newID     func() uuid.UUID
	observers []*subscription
}

type subscription struct {
	obs Observer
}

// Option configures a LogStore.
type Option func(*LogStore)

// WithLocation sets the location whose midnight defines a day boundary.
func WithLocation(loc *time.Location) Option {
	return func(s *LogStore) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithIDGenerator replaces uuid.New for entry and log identifiers.
func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(s *LogStore) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func New(opts ...Option) *LogStore {
	s := &LogStore{
		loc:   time.Local,
		newID: uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the location used for day normalization.
func (s *LogStore) Location() *time.Location {
	return s.loc
}

// AddEntry records a new entry on the day containing date. The log for
// that day is created if it does not exist yet.
func (s *LogStore) AddEntry(date time.Time, project, description string, durationMinutes timelog.Minutes) timelog.TaskEntry {
	day := timelog.StartOfDay(date, s.loc)
	entry := timelog.TaskEntry{
		ID:              s.newID(),
		Project:         project,
		Description:     description,
		DurationMinutes: durationMinutes,
	}

	created := false
	idx := s.indexOfDay(day)
	if idx >= 0 {
		s.logs[idx].Entries = append(s.logs[idx].Entries, entry)
	} else {
		s.logs = append(s.logs, timelog.DailyLog{
			ID:      s.newID(),
			Date:    day,
			Entries: []timelog.TaskEntry{entry},
		})
		s.sortLogs()
		idx = s.indexOfDay(day)
		created = true
	}

	s.notify(Change{
		Kind:       Added,
		Entry:      entry,
		Day:        day,
		LogCreated: created,
		DayTotal:   s.logs[idx].TotalMinutes(),
	})
	return entry
}

// UpdateEntry replaces the first entry whose ID matches entry.ID. The entry
// stays in its log and position. It reports whether anything was replaced.
func (s *LogStore) UpdateEntry(entry timelog.TaskEntry) bool {
	for i := range s.logs {
		j := s.logs[i].IndexOf(entry.ID)
		if j < 0 {
			continue
		}
		s.logs[i].Entries[j] = entry
		s.notify(Change{
			Kind:     Updated,
			Entry:    entry,
			Day:      s.logs[i].Date,
			DayTotal: s.logs[i].TotalMinutes(),
		})
		return true
	}
	return false
}

// DeleteEntry removes the first entry equal to entry in every field, not
// just ID. A copy that no longer matches the stored value is ignored. The
// containing log is dropped once it is empty.
func (s *LogStore) DeleteEntry(entry timelog.TaskEntry) bool {
	for i := range s.logs {
		j := slices.Index(s.logs[i].Entries, entry)
		if j < 0 {
			continue
		}
		day := s.logs[i].Date
		s.logs[i].Entries = slices.Delete(s.logs[i].Entries, j, j+1)

		removed := len(s.logs[i].Entries) == 0
		total := s.logs[i].TotalMinutes()
		if removed {
			s.logs = slices.Delete(s.logs, i, i+1)
		}

		s.notify(Change{
			Kind:       Deleted,
			Entry:      entry,
			Day:        day,
			LogRemoved: removed,
			DayTotal:   total,
		})
		return true
	}
	return false
}

// TotalMinutes sums the durations of the entries in log.
func (s *LogStore) TotalMinutes(log timelog.DailyLog) timelog.Minutes {
	return log.TotalMinutes()
}

// Logs returns a snapshot of every log, most recent day first.
func (s *LogStore) Logs() []timelog.DailyLog {
	out := make([]timelog.DailyLog, len(s.logs))
	for i, l := range s.logs {
		out[i] = l.Clone()
	}
	return out
}

// Log returns a snapshot of the log for the day containing date.
func (s *LogStore) Log(date time.Time) (timelog.DailyLog, bool) {
	idx := s.indexOfDay(timelog.StartOfDay(date, s.loc))
	if idx < 0 {
		return timelog.DailyLog{}, false
	}
	return s.logs[idx].Clone(), true
}

// Len returns the number of daily logs.
func (s *LogStore) Len() int {
	return len(s.logs)
}

// Subscribe registers obs for change notifications. The returned function
// removes it again and may be called more than once.
func (s *LogStore) Subscribe(obs Observer) func() {
	sub := &subscription{obs: obs}
	s.observers = append(s.observers, sub)
	return func() {
		s.observers = slices.DeleteFunc(s.observers, func(o *subscription) bool {
			return o == sub
		})
	}
}

func (s *LogStore) notify(c Change) {
	// Copy so an observer may unsubscribe while being notified.
	for _, sub := range slices.Clone(s.observers) {
		sub.obs.LogsChanged(c)
	}
}

func (s *LogStore) indexOfDay(day time.Time) int {
	for i, l := range s.logs {
		if l.Date.Equal(day) {
			return i
		}
	}
	return -1
}

func (s *LogStore) sortLogs() {
	slices.SortStableFunc(s.logs, func(a, b timelog.DailyLog) int {
		return b.Date.Compare(a.Date)
	})
}
