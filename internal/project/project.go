package project

import "timetracker/internal/timelog"

// Summary aggregates every logged entry that shares a project code.
type Summary struct {
	Project string
	Minutes timelog.Minutes
	Entries int
	Days    int
}

// Share returns the fraction of total spent on this project, in [0, 1].
func (s Summary) Share(total timelog.Minutes) float64 {
	if total <= 0 || s.Minutes <= 0 {
		return 0
	}
	return float64(s.Minutes) / float64(total)
}

// GrandTotal sums the minutes of all summaries.
func GrandTotal(summaries []Summary) timelog.Minutes {
	total := 0
	for _, s := range summaries {
		total += s.Minutes
	}
	return total
}
