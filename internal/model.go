package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"timetracker/internal/project"
	"timetracker/internal/store"
	"timetracker/internal/timelog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

type pane int

const (
	paneList pane = iota
	paneForm
)

const (
	fieldDate = iota
	fieldProject
	fieldDescription
	fieldDuration
	fieldCount
)

// Options wires a Model to its collaborators. Store is required.
type Options struct {
	Store      *store.LogStore
	Summary    *project.Repository
	Logger     *slog.Logger
	DateFormat string
	Now        func() time.Time
}

type Model struct {
	Logs       []timelog.DailyLog
	Totals     []project.Summary
	Cursor     int
	Focus      pane
	Inputs     []textinput.Model
	InputFocus int
	ShowTotals bool
	Editing    *editSheet
	Err        error
	Status     string

	store       *store.LogStore
	summary     *project.Repository
	logger      *slog.Logger
	help        help.Model
	dateFormat  string
	now         func() time.Time
	unsubscribe func()
}

func NewModel(opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DateFormat == "" {
		opts.DateFormat = "Mon Jan 2, 2006"
	}

	m := &Model{
		store:      opts.Store,
		summary:    opts.Summary,
		logger:     opts.Logger,
		help:       help.New(),
		dateFormat: opts.DateFormat,
		now:        opts.Now,
	}
	m.Inputs = m.newInputs()
	m.unsubscribe = m.store.Subscribe(store.ObserverFunc(m.logsChanged))
	m.reload()
	return m
}

func (m *Model) newInputs() []textinput.Model {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 120
		ti.Width = 28
		inputs[i] = ti
	}
	inputs[fieldDate].Placeholder = "YYYY-MM-DD"
	inputs[fieldDate].CharLimit = 20
	inputs[fieldDate].SetValue(m.today())
	inputs[fieldProject].Placeholder = "PRJ1"
	inputs[fieldDescription].Placeholder = "What did you work on?"
	inputs[fieldDuration].Placeholder = "minutes"
	inputs[fieldDuration].CharLimit = 6
	return inputs
}

func (m *Model) today() string {
	return m.now().In(m.store.Location()).Format(dateLayout)
}

func (m *Model) logsChanged(c store.Change) {
	m.logger.Debug("model_refresh", "kind", c.Kind.String(), "day", c.Day.Format(dateLayout))
	m.reload()
}

// reload refreshes the snapshot after a store change.
func (m *Model) reload() {
	m.Logs = m.store.Logs()
	if n := m.entryCount(); m.Cursor >= n {
		m.Cursor = max(n-1, 0)
	}
	if m.summary == nil {
		return
	}
	totals, err := m.summary.Totals(context.Background())
	if err != nil {
		m.logger.Error("load_totals_failed", "error", err.Error())
		return
	}
	m.Totals = totals
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.Editing != nil {
		return m.updateEditing(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Focus == paneForm {
			return m.handleFormInput(msg)
		}
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	}
	return m, nil
}

func (m *Model) View() string {
	if m.Editing != nil {
		return m.editView()
	}
	return m.mainView()
}

// Close detaches the model from the store.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

type entryRef struct {
	log   int
	entry int
}

func (m *Model) refs() []entryRef {
	var refs []entryRef
	for i, l := range m.Logs {
		for j := range l.Entries {
			refs = append(refs, entryRef{log: i, entry: j})
		}
	}
	return refs
}

func (m *Model) entryCount() int {
	n := 0
	for _, l := range m.Logs {
		n += len(l.Entries)
	}
	return n
}

// SelectedEntry returns the entry under the cursor.
func (m *Model) SelectedEntry() (timelog.TaskEntry, bool) {
	refs := m.refs()
	if m.Cursor < 0 || m.Cursor >= len(refs) {
		return timelog.TaskEntry{}, false
	}
	r := refs[m.Cursor]
	return m.Logs[r.log].Entries[r.entry], true
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, listKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, listKeys.Up):
		if m.Cursor > 0 {
			m.Cursor--
		}
	case key.Matches(msg, listKeys.Down):
		if m.Cursor < m.entryCount()-1 {
			m.Cursor++
		}
	case key.Matches(msg, listKeys.New):
		m.Focus = paneForm
		return m, m.focusInput(fieldProject)
	case key.Matches(msg, listKeys.Edit):
		e, ok := m.SelectedEntry()
		if !ok {
			return m, nil
		}
		m.Editing = newEditSheet(e)
		return m, m.Editing.form.Init()
	case key.Matches(msg, listKeys.Delete):
		e, ok := m.SelectedEntry()
		if !ok {
			return m, nil
		}
		if m.store.DeleteEntry(e) {
			m.Status = fmt.Sprintf("Deleted %s (%s)", e.Project, timelog.FormatMinutes(e.DurationMinutes))
		}
	case key.Matches(msg, listKeys.Totals):
		m.ShowTotals = !m.ShowTotals
	case key.Matches(msg, listKeys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) handleFormInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, formKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, formKeys.Back):
		m.Focus = paneList
		m.Err = nil
		m.blurInputs()
		return m, nil
	case key.Matches(msg, formKeys.Next):
		return m, m.focusInput((m.InputFocus + 1) % fieldCount)
	case key.Matches(msg, formKeys.Prev):
		return m, m.focusInput((m.InputFocus + fieldCount - 1) % fieldCount)
	case key.Matches(msg, formKeys.Submit):
		if m.InputFocus < fieldDuration {
			return m, m.focusInput(m.InputFocus + 1)
		}
		return m, m.submit()
	}

	var cmd tea.Cmd
	m.Inputs[m.InputFocus], cmd = m.Inputs[m.InputFocus].Update(msg)
	return m, cmd
}

func (m *Model) formInput() EntryInput {
	return EntryInput{
		Date:        m.Inputs[fieldDate].Value(),
		Project:     m.Inputs[fieldProject].Value(),
		Description: m.Inputs[fieldDescription].Value(),
		Duration:    m.Inputs[fieldDuration].Value(),
	}
}

// FormValid reports whether the new-entry form can be submitted.
func (m *Model) FormValid() bool {
	_, err := ValidateEntry(m.formInput(), m.now(), m.store.Location())
	return err == nil
}

func (m *Model) submit() tea.Cmd {
	p, err := ValidateEntry(m.formInput(), m.now(), m.store.Location())
	if err != nil {
		m.Err = err
		return nil
	}

	e := m.store.AddEntry(p.Date, p.Project, p.Description, p.Minutes)
	m.Err = nil
	m.Status = fmt.Sprintf("Added %s (%s)", e.Project, timelog.FormatMinutes(e.DurationMinutes))
	m.selectEntry(e)

	m.Inputs[fieldProject].Reset()
	m.Inputs[fieldDescription].Reset()
	m.Inputs[fieldDuration].Reset()
	return m.focusInput(fieldProject)
}

func (m *Model) selectEntry(e timelog.TaskEntry) {
	for i, r := range m.refs() {
		if m.Logs[r.log].Entries[r.entry].ID == e.ID {
			m.Cursor = i
			return
		}
	}
}

func (m *Model) focusInput(i int) tea.Cmd {
	m.blurInputs()
	m.InputFocus = i
	return m.Inputs[i].Focus()
}

func (m *Model) blurInputs() {
	for i := range m.Inputs {
		m.Inputs[i].Blur()
	}
}

func (m *Model) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		m.Editing = nil
		return m, nil
	}

	updated, cmd := m.Editing.form.Update(msg)
	if f, ok := updated.(*huh.Form); ok {
		m.Editing.form = f
	}

	switch m.Editing.form.State {
	case huh.StateCompleted:
		m.applyEdit()
		return m, nil
	case huh.StateAborted:
		m.Editing = nil
		return m, nil
	}
	return m, cmd
}

// applyEdit saves the edit sheet back to the store under the same ID.
func (m *Model) applyEdit() {
	sheet := m.Editing
	m.Editing = nil

	updated, err := sheet.fields.apply(sheet.entry)
	if err != nil {
		m.Err = err
		return
	}
	if !m.store.UpdateEntry(updated) {
		m.Status = "Entry no longer exists"
		return
	}
	m.Err = nil
	m.Status = fmt.Sprintf("Updated %s (%s)", updated.Project, timelog.FormatMinutes(updated.DurationMinutes))
}
