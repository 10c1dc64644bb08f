package internal

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timetracker/internal/project"
	"timetracker/internal/store"
)

var fixedNow = time.Date(2024, 1, 2, 15, 4, 0, 0, time.UTC)

func testModel(t *testing.T) (*Model, *store.LogStore) {
	t.Helper()
	s := store.New(store.WithLocation(time.UTC))
	repo, err := project.NewRepository(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	s.Subscribe(repo.Observer(nil))

	m := NewModel(Options{
		Store:   s,
		Summary: repo,
		Now:     func() time.Time { return fixedNow },
	})
	t.Cleanup(m.Close)
	return m, s
}

func send(t *testing.T, m *Model, msgs ...tea.Msg) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		updated, c := m.Update(msg)
		require.Same(t, m, updated)
		cmd = c
	}
	return cmd
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
)

// addViaForm fills the project, description and duration fields and submits.
func addViaForm(t *testing.T, m *Model, project, description, duration string) {
	t.Helper()
	send(t, m, runes("n"))
	require.Equal(t, fieldProject, m.InputFocus)
	send(t, m, runes(project), keyEnter, runes(description), keyEnter, runes(duration), keyEnter)
	send(t, m, keyEsc)
}

func TestNewModel_DefaultsDateToToday(t *testing.T) {
	m, _ := testModel(t)
	assert.Equal(t, "2024-01-02", m.Inputs[fieldDate].Value())
	assert.Equal(t, paneList, m.Focus)
	assert.Contains(t, m.View(), "No entries yet")
}

func TestForm_AddsEntryAndClearsFields(t *testing.T) {
	m, s := testModel(t)

	send(t, m, runes("n"))
	send(t, m, runes("PRJ1"), keyEnter, runes("design"), keyEnter, runes("90"))
	assert.True(t, m.FormValid())
	send(t, m, keyEnter)

	require.NoError(t, m.Err)
	logs := s.Logs()
	require.Len(t, logs, 1)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), logs[0].Date)
	require.Len(t, logs[0].Entries, 1)
	assert.Equal(t, "PRJ1", logs[0].Entries[0].Project)
	assert.Equal(t, "design", logs[0].Entries[0].Description)
	assert.Equal(t, 90, logs[0].Entries[0].DurationMinutes)

	assert.Equal(t, "", m.Inputs[fieldProject].Value())
	assert.Equal(t, "", m.Inputs[fieldDescription].Value())
	assert.Equal(t, "", m.Inputs[fieldDuration].Value())
	assert.Equal(t, "2024-01-02", m.Inputs[fieldDate].Value())
	assert.Equal(t, fieldProject, m.InputFocus)
	assert.Equal(t, m.Logs, logs, "model snapshot refreshed by the store notification")
	assert.Contains(t, m.Status, "Added PRJ1 (1h 30m)")
}

func TestForm_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name        string
		project     string
		description string
		duration    string
		wantErr     error
	}{
		{"missing project", "", "design", "30", ErrProjectRequired},
		{"missing description", "PRJ1", "", "30", ErrDescriptionRequired},
		{"missing duration", "PRJ1", "design", "", ErrDurationRequired},
		{"non-integer duration", "PRJ1", "design", "1.5", ErrDurationNotInteger},
		{"negative duration", "PRJ1", "design", "-3", ErrDurationNegative},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, s := testModel(t)
			send(t, m, runes("n"))
			if tt.project != "" {
				send(t, m, runes(tt.project))
			}
			send(t, m, keyEnter)
			if tt.description != "" {
				send(t, m, runes(tt.description))
			}
			send(t, m, keyEnter)
			if tt.duration != "" {
				send(t, m, runes(tt.duration))
			}
			assert.False(t, m.FormValid())
			send(t, m, keyEnter)

			assert.ErrorIs(t, m.Err, tt.wantErr)
			assert.Equal(t, 0, s.Len())
			assert.Equal(t, tt.project, m.Inputs[fieldProject].Value(), "fields kept on failure")
		})
	}
}

func TestForm_CustomDate(t *testing.T) {
	m, s := testModel(t)

	send(t, m, runes("n"), tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, fieldDate, m.InputFocus)
	m.Inputs[fieldDate].SetValue("")
	send(t, m, runes("2024-01-01"), keyTab, runes("PRJ1"), keyTab, runes("design"), keyTab, runes("15"), keyEnter)

	_, ok := s.Log(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, ok)
	assert.Equal(t, "2024-01-01", m.Inputs[fieldDate].Value())
}

func TestForm_EscReturnsToList(t *testing.T) {
	m, _ := testModel(t)
	send(t, m, runes("n"))
	require.Equal(t, paneForm, m.Focus)

	// "q" types into the form rather than quitting.
	cmd := send(t, m, runes("q"))
	if cmd != nil {
		_, isQuit := cmd().(tea.QuitMsg)
		assert.False(t, isQuit)
	}
	assert.Equal(t, "q", m.Inputs[fieldProject].Value())

	send(t, m, keyEsc)
	assert.Equal(t, paneList, m.Focus)
}

func TestList_QuitKey(t *testing.T) {
	m, _ := testModel(t)
	cmd := send(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestList_CursorMovesAcrossDays(t *testing.T) {
	m, s := testModel(t)
	s.AddEntry(fixedNow.AddDate(0, 0, -1), "OLD", "older", 10)
	s.AddEntry(fixedNow, "NEW1", "first", 20)
	s.AddEntry(fixedNow, "NEW2", "second", 30)

	e, ok := m.SelectedEntry()
	require.True(t, ok)
	assert.Equal(t, "NEW1", e.Project, "newest day renders first")

	send(t, m, keyDown, keyDown)
	e, _ = m.SelectedEntry()
	assert.Equal(t, "OLD", e.Project)

	send(t, m, keyDown)
	assert.Equal(t, 2, m.Cursor, "cursor stops at the last entry")

	send(t, m, keyUp, runes("k"), runes("k"))
	assert.Equal(t, 0, m.Cursor)
}

func TestList_DeleteSelected(t *testing.T) {
	m, s := testModel(t)
	addViaForm(t, m, "PRJ1", "design", "90")
	addViaForm(t, m, "PRJ2", "review", "30")

	l, ok := s.Log(fixedNow)
	require.True(t, ok)
	assert.Equal(t, 120, l.TotalMinutes())
	assert.Contains(t, m.View(), "Tue Jan 2, 2024: 2h")

	m.Cursor = 0
	send(t, m, runes("d"))
	l, ok = s.Log(fixedNow)
	require.True(t, ok)
	require.Len(t, l.Entries, 1)
	assert.Equal(t, "PRJ2", l.Entries[0].Project)
	assert.Equal(t, 0, m.Cursor)

	send(t, m, runes("d"))
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, m.Logs)
	_, ok = m.SelectedEntry()
	assert.False(t, ok)

	// Nothing selected: delete is a no-op.
	send(t, m, runes("d"))
	assert.Equal(t, 0, s.Len())
}

func TestList_CursorClampedAfterDelete(t *testing.T) {
	m, s := testModel(t)
	s.AddEntry(fixedNow, "A", "a", 10)
	last := s.AddEntry(fixedNow, "B", "b", 10)

	m.Cursor = 1
	s.DeleteEntry(last)
	assert.Equal(t, 0, m.Cursor)
}

func TestEdit_EscDiscards(t *testing.T) {
	m, s := testModel(t)
	e := s.AddEntry(fixedNow, "PRJ1", "design", 90)

	send(t, m, runes("e"))
	require.NotNil(t, m.Editing)
	assert.Equal(t, e, m.Editing.entry)
	assert.Equal(t, "90", m.Editing.fields.duration)
	assert.Contains(t, m.View(), "Edit Entry")

	send(t, m, keyEsc)
	assert.Nil(t, m.Editing)
	l, _ := s.Log(fixedNow)
	assert.Equal(t, e, l.Entries[0])
}

func TestEdit_ApplyUpdatesSameEntry(t *testing.T) {
	m, s := testModel(t)
	e := s.AddEntry(fixedNow, "PRJ1", "design", 90)
	sibling := s.AddEntry(fixedNow, "PRJ2", "review", 30)

	send(t, m, runes("e"))
	require.NotNil(t, m.Editing)
	m.Editing.fields.project = "PRJ9"
	m.Editing.fields.description = "redesign"
	m.Editing.fields.duration = "45"
	m.applyEdit()

	assert.Nil(t, m.Editing)
	require.NoError(t, m.Err)
	l, _ := s.Log(fixedNow)
	require.Len(t, l.Entries, 2)
	assert.Equal(t, e.ID, l.Entries[0].ID)
	assert.Equal(t, "PRJ9", l.Entries[0].Project)
	assert.Equal(t, "redesign", l.Entries[0].Description)
	assert.Equal(t, 45, l.Entries[0].DurationMinutes)
	assert.Equal(t, sibling, l.Entries[1])
	assert.Contains(t, m.Status, "Updated PRJ9 (45m)")
}

func TestEdit_ApplyInvalidKeepsEntry(t *testing.T) {
	m, s := testModel(t)
	e := s.AddEntry(fixedNow, "PRJ1", "design", 90)

	send(t, m, runes("e"))
	m.Editing.fields.duration = "abc"
	m.applyEdit()

	assert.ErrorIs(t, m.Err, ErrDurationNotInteger)
	l, _ := s.Log(fixedNow)
	assert.Equal(t, e, l.Entries[0])
}

func TestEdit_ApplyAfterEntryDeleted(t *testing.T) {
	m, s := testModel(t)
	e := s.AddEntry(fixedNow, "PRJ1", "design", 90)

	send(t, m, runes("e"))
	s.DeleteEntry(e)
	m.applyEdit()

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, "Entry no longer exists", m.Status)
}

func TestEdit_NoSelectionIsNoop(t *testing.T) {
	m, _ := testModel(t)
	send(t, m, runes("e"))
	assert.Nil(t, m.Editing)
}

func TestTotals_Toggle(t *testing.T) {
	m, s := testModel(t)
	s.AddEntry(fixedNow, "PRJ1", "design", 90)
	s.AddEntry(fixedNow.AddDate(0, 0, -1), "PRJ1", "build", 30)
	s.AddEntry(fixedNow, "PRJ2", "review", 30)

	require.Len(t, m.Totals, 2)
	assert.Equal(t, "PRJ1", m.Totals[0].Project)
	assert.Equal(t, 120, m.Totals[0].Minutes)

	assert.NotContains(t, m.View(), "Project Totals")
	send(t, m, runes("p"))
	assert.True(t, m.ShowTotals)
	view := m.View()
	assert.Contains(t, view, "Project Totals")
	assert.Contains(t, view, "2h")
}

func TestDayHeader(t *testing.T) {
	m, s := testModel(t)
	s.AddEntry(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), "PRJ1", "design", 90)
	require.Len(t, m.Logs, 1)
	assert.Equal(t, "Mon Jan 1, 2024: 1h 30m", m.DayHeader(m.Logs[0]))
}

func TestClose_StopsRefreshing(t *testing.T) {
	m, s := testModel(t)
	m.Close()
	m.Close()
	s.AddEntry(fixedNow, "PRJ1", "design", 90)
	assert.Empty(t, m.Logs)
}
