package internal

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"timetracker/internal/timelog"
)

// editFields holds form-bound values for the edit sheet.
type editFields struct {
	project     string
	description string
	duration    string
}

// apply returns e with the edited fields. The ID never changes.
func (f *editFields) apply(e timelog.TaskEntry) (timelog.TaskEntry, error) {
	if err := validateRequired(f.project, ErrProjectRequired); err != nil {
		return e, err
	}
	if err := validateRequired(f.description, ErrDescriptionRequired); err != nil {
		return e, err
	}
	minutes, err := parseMinutes(f.duration)
	if err != nil {
		return e, err
	}
	e.Project = strings.TrimSpace(f.project)
	e.Description = strings.TrimSpace(f.description)
	e.DurationMinutes = minutes
	return e, nil
}

type editSheet struct {
	entry  timelog.TaskEntry
	fields *editFields
	form   *huh.Form
}

func newEditSheet(e timelog.TaskEntry) *editSheet {
	f := &editFields{
		project:     e.Project,
		description: e.Description,
		duration:    strconv.Itoa(e.DurationMinutes),
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project Code").
				Value(&f.project).
				Validate(func(s string) error { return validateRequired(s, ErrProjectRequired) }),
			huh.NewInput().
				Title("Subtask").
				Value(&f.description).
				Validate(func(s string) error { return validateRequired(s, ErrDescriptionRequired) }),
			huh.NewInput().
				Title("Duration (min)").
				Placeholder(strconv.Itoa(e.DurationMinutes)).
				Value(&f.duration).
				Validate(validateMinutes),
		),
	).WithTheme(huhTheme()).WithShowHelp(false).WithWidth(44)

	return &editSheet{entry: e, fields: f, form: form}
}

func huhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	t.Focused.ErrorIndicator = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	t.Blurred.Title = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	return t
}
