package internal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"timetracker/internal/timelog"
)

const dateLayout = "2006-01-02"

var (
	ErrProjectRequired     = errors.New("project code is required")
	ErrDescriptionRequired = errors.New("subtask description is required")
	ErrDurationRequired    = errors.New("duration is required")
	ErrDurationNotInteger  = errors.New("duration must be a whole number of minutes")
	ErrDurationNegative    = errors.New("duration cannot be negative")
)

// EntryInput is the raw text of the new-entry form.
type EntryInput struct {
	Date        string
	Project     string
	Description string
	Duration    string
}

// ParsedEntry is an EntryInput that passed validation.
type ParsedEntry struct {
	Date        time.Time
	Project     string
	Description string
	Minutes     timelog.Minutes
}

// ValidateEntry checks the form and converts it. now and loc resolve
// relative dates such as "today".
func ValidateEntry(in EntryInput, now time.Time, loc *time.Location) (ParsedEntry, error) {
	var p ParsedEntry

	date, err := ParseDate(in.Date, now, loc)
	if err != nil {
		return p, err
	}
	if err := validateRequired(in.Project, ErrProjectRequired); err != nil {
		return p, err
	}
	if err := validateRequired(in.Description, ErrDescriptionRequired); err != nil {
		return p, err
	}
	minutes, err := parseMinutes(in.Duration)
	if err != nil {
		return p, err
	}

	p.Date = date
	p.Project = strings.TrimSpace(in.Project)
	p.Description = strings.TrimSpace(in.Description)
	p.Minutes = minutes
	return p, nil
}

func validateRequired(s string, errEmpty error) error {
	if strings.TrimSpace(s) == "" {
		return errEmpty
	}
	return nil
}

func validateMinutes(s string) error {
	_, err := parseMinutes(s)
	return err
}

func parseMinutes(s string) (timelog.Minutes, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrDurationRequired
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, ErrDurationNotInteger
	}
	if v < 0 {
		return 0, ErrDurationNegative
	}
	return v, nil
}

// ParseDate accepts "", "today", "yesterday" and a handful of absolute
// day formats. The result is in loc; time of day is left for the store to
// discard.
func ParseDate(input string, now time.Time, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)

	input = strings.TrimSpace(strings.ToLower(input))
	switch input {
	case "", "today":
		return now, nil
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	}

	formats := []string{
		dateLayout,
		"2006/01/02",
		"Jan 2, 2006",
		"2 Jan 2006",
		"January 2, 2006",
	}
	for _, format := range formats {
		if t, err := time.ParseInLocation(format, input, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date %q (use YYYY-MM-DD)", input)
}
