package notify

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gen2brain/beeep"

	"timetracker/internal/store"
	"timetracker/internal/timelog"
)

// Notifier delivers a desktop notification.
type Notifier interface {
	Notify(title, message string) error
}

// BeeepNotifier sends notifications through the OS notification service.
type BeeepNotifier struct{}

func (BeeepNotifier) Notify(title, message string) error {
	return beeep.Notify(title, message, "")
}

// FormatGoalReached returns the title and body announcing a met daily goal.
func FormatGoalReached(day time.Time, total, goal timelog.Minutes) (string, string) {
	title := "Daily goal reached"
	msg := fmt.Sprintf("%s: %s logged (goal %s)",
		day.Format("Mon Jan 2"), timelog.FormatMinutes(total), timelog.FormatMinutes(goal))
	return title, msg
}

// GoalObserver notifies once per day when that day's total first reaches
// the goal. Falling back below the goal re-arms the day.
type GoalObserver struct {
	goal     timelog.Minutes
	notifier Notifier
	logger   *slog.Logger
	reached  map[time.Time]bool
}

func NewGoalObserver(goal timelog.Minutes, notifier Notifier, logger *slog.Logger) *GoalObserver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &GoalObserver{
		goal:     goal,
		notifier: notifier,
		logger:   logger,
		reached:  make(map[time.Time]bool),
	}
}

func (g *GoalObserver) LogsChanged(c store.Change) {
	if g.goal <= 0 || g.notifier == nil {
		return
	}
	day := c.Day.UTC()
	if c.LogRemoved || c.DayTotal < g.goal {
		delete(g.reached, day)
		return
	}
	if g.reached[day] {
		return
	}
	g.reached[day] = true

	title, msg := FormatGoalReached(c.Day, c.DayTotal, g.goal)
	if err := g.notifier.Notify(title, msg); err != nil {
		g.logger.Warn("goal_notify_failed", "day", c.Day.Format("2006-01-02"), "error", err.Error())
		return
	}
	g.logger.Info("goal_reached", "day", c.Day.Format("2006-01-02"), "total", c.DayTotal, "goal", g.goal)
}

var _ store.Observer = (*GoalObserver)(nil)
