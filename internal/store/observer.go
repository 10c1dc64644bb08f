package store

import (
	"io"
	"log/slog"
	"time"

	"timetracker/internal/timelog"
)

// ChangeKind identifies the mutation that produced a Change.
type ChangeKind int

const (
	Added ChangeKind = iota + 1
	Updated
	Deleted
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Updated:
		return "updated"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Change describes one successful store mutation.
type Change struct {
	Kind ChangeKind
	// Entry is the new value for Added and Updated, the removed value for Deleted.
	Entry timelog.TaskEntry
	// Day is the normalized date of the log the entry belongs to.
	Day        time.Time
	LogCreated bool
	LogRemoved bool
	// DayTotal is the log's total after the change; 0 when the log was removed.
	DayTotal timelog.Minutes
}

// Observer receives store changes synchronously, after the mutation.
type Observer interface {
	LogsChanged(c Change)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(c Change)

func (f ObserverFunc) LogsChanged(c Change) { f(c) }

// NoopObserver ignores all changes.
type NoopObserver struct{}

func (NoopObserver) LogsChanged(Change) {}

type logObserver struct {
	logger *slog.Logger
}

// NewLogObserver writes every change to logger. A nil logger yields a NoopObserver.
func NewLogObserver(logger *slog.Logger) Observer {
	if logger == nil {
		return NoopObserver{}
	}
	return &logObserver{logger: logger}
}

// NewWriterObserver is NewLogObserver over a text handler writing to w.
func NewWriterObserver(w io.Writer) Observer {
	if w == nil {
		return NoopObserver{}
	}
	return NewLogObserver(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})))
}

func (o *logObserver) LogsChanged(c Change) {
	o.logger.Info("store_change",
		"kind", c.Kind.String(),
		"entry_id", c.Entry.ID.String(),
		"project", c.Entry.Project,
		"minutes", c.Entry.DurationMinutes,
		"day", c.Day.Format("2006-01-02"),
		"day_total", c.DayTotal,
		"log_created", c.LogCreated,
		"log_removed", c.LogRemoved,
	)
}
