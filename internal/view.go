package internal

import (
	"fmt"
	"strings"

	"timetracker/internal/project"
	"timetracker/internal/timelog"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true).
			Align(lipgloss.Center)

	entryItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	entryItemSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("170")).
				Background(lipgloss.Color("235")).
				Padding(0, 1)

	durationStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("69")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 0)

	boxFocusedStyle = boxStyle.
			BorderForeground(lipgloss.Color("170"))

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170"))

	inputInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	logHeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	projectStyle = lipgloss.NewStyle().
			Bold(true)

	descriptionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	inactiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

const (
	listWidth = 50
	formWidth = 40
	boxHeight = 18
)

func (m *Model) mainView() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Width(listWidth + formWidth + 6).Render("Time Tracker"))
	sb.WriteString("\n\n")

	right := m.formView()
	if m.ShowTotals {
		right = lipgloss.JoinVertical(lipgloss.Left, right, m.totalsView())
	}

	boxes := lipgloss.JoinHorizontal(lipgloss.Top,
		m.logListView(),
		"  ",
		right,
	)
	sb.WriteString(boxes)
	sb.WriteString("\n\n")

	if m.Status != "" {
		sb.WriteString(statusStyle.Render(m.Status))
		sb.WriteString("\n")
	}
	if m.Focus == paneForm {
		sb.WriteString(m.help.View(formKeys))
	} else {
		sb.WriteString(m.help.View(listKeys))
	}

	return sb.String()
}

// DayHeader renders "Mon Jan 2, 2006: 2h" for a log.
func (m *Model) DayHeader(l timelog.DailyLog) string {
	return fmt.Sprintf("%s: %s", l.Date.Format(m.dateFormat), timelog.FormatMinutes(m.store.TotalMinutes(l)))
}

func (m *Model) logListView() string {
	var sb strings.Builder

	if len(m.Logs) == 0 {
		sb.WriteString(inactiveStyle.Render("No entries yet. Press 'n' to add one."))
		return m.box(paneList, listWidth).Render(sb.String())
	}

	row := 0
	for i, l := range m.Logs {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(logHeaderStyle.Render(m.DayHeader(l)))
		sb.WriteString("\n")
		for _, e := range l.Entries {
			line := m.formatEntry(e)
			if row == m.Cursor && m.Focus == paneList {
				sb.WriteString(entryItemSelectedStyle.Render(line))
			} else {
				sb.WriteString(entryItemStyle.Render(line))
			}
			sb.WriteString("\n")
			row++
		}
	}

	return m.box(paneList, listWidth).Render(sb.String())
}

func (m *Model) formatEntry(e timelog.TaskEntry) string {
	dur := durationStyle.Render(fmt.Sprintf("%7s", timelog.FormatMinutes(e.DurationMinutes)))
	return fmt.Sprintf("%s %s  %s",
		projectStyle.Render(truncate(e.Project, 10)),
		descriptionStyle.Render(truncate(e.Description, 24)),
		dur,
	)
}

func (m *Model) formView() string {
	labels := [fieldCount]string{
		fieldDate:        "Date",
		fieldProject:     "Project Code",
		fieldDescription: "Subtask Description",
		fieldDuration:    "Duration (min)",
	}

	var sb strings.Builder
	sb.WriteString(logHeaderStyle.Render("New Entry"))
	sb.WriteString("\n\n")

	for i := range m.Inputs {
		// Add a visible focus marker so it's obvious which field is active.
		focused := m.Focus == paneForm && m.InputFocus == i
		marker := "  "
		if focused {
			marker = "→ "
		}
		label := marker + labels[i]
		if focused {
			label = inputStyle.Render(label)
		} else {
			label = inputInactiveStyle.Render(label)
		}
		sb.WriteString(label)
		sb.WriteString("\n  ")
		sb.WriteString(m.Inputs[i].View())
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	button := "[ Add Entry ]"
	if m.FormValid() {
		sb.WriteString(inputStyle.Render(button))
	} else {
		sb.WriteString(inactiveStyle.Render(button))
	}
	if m.Err != nil {
		sb.WriteString("\n")
		sb.WriteString(errorStyle.Render(m.Err.Error()))
	}

	return m.box(paneForm, formWidth).Render(sb.String())
}

func (m *Model) totalsView() string {
	var sb strings.Builder
	sb.WriteString(logHeaderStyle.Render("Project Totals"))
	sb.WriteString("\n")

	if len(m.Totals) == 0 {
		sb.WriteString(inactiveStyle.Render("Nothing logged yet"))
		return boxStyle.Width(formWidth).Render(sb.String())
	}

	grand := project.GrandTotal(m.Totals)
	for _, s := range m.Totals {
		sb.WriteString(fmt.Sprintf("%-14s %8s %4.0f%%  %d×\n",
			truncate(s.Project, 14), timelog.FormatMinutes(s.Minutes), s.Share(grand)*100, s.Entries))
	}
	sb.WriteString(inactiveStyle.Render(fmt.Sprintf("%-14s %8s", "all", timelog.FormatMinutes(grand))))
	return boxStyle.Width(formWidth).Render(strings.TrimRight(sb.String(), "\n"))
}

func (m *Model) editView() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Width(50).Render("Edit Entry"))
	sb.WriteString("\n\n")
	sb.WriteString(m.Editing.form.View())
	sb.WriteString("\n\n")
	sb.WriteString(helpStyle.Render("Enter: Next/Save | Esc: Cancel"))

	return lipgloss.Place(
		80, 24,
		lipgloss.Center, lipgloss.Center,
		boxStyle.Width(50).Render(sb.String()),
	)
}

func (m *Model) box(p pane, width int) lipgloss.Style {
	if m.Focus == p {
		return boxFocusedStyle.Width(width).Height(boxHeight)
	}
	return boxStyle.Width(width).Height(boxHeight)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
