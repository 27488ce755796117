// Package form is the add/edit dialog for a single todo.
//
// The form collects title, description and priority. Opened with
// OpenCreate it submits through AddTodo; opened with OpenEdit it prefills
// from an existing item and submits through UpdateTodo with that item's
// id. Input is validated before anything reaches the store.
package form

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/ui"
)

// Submitter receives finished input. *store.Store satisfies it.
type Submitter interface {
	AddTodo(in model.Input) (model.Todo, error)
	UpdateTodo(id int64, in model.Input) error
}

type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// SubmittedMsg is emitted after the store accepted the input.
// ID is the edited item's id before the update; zero in create mode.
type SubmittedMsg struct {
	Mode  Mode
	ID    int64
	Input model.Input
}

// CancelledMsg is emitted when the user dismisses the form.
type CancelledMsg struct{}

type field int

const (
	fieldTitle field = iota
	fieldDescription
	fieldPriority
	fieldSubmit
	fieldCount
)

// KeyMap defines the form's keybindings.
type KeyMap struct {
	Next, Prev   key.Binding
	Lower, Raise key.Binding
	Confirm      key.Binding
	Submit       key.Binding
	Cancel       key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next:    key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		Prev:    key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		Lower:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "priority")),
		Raise:   key.NewBinding(key.WithKeys("right", "l", " "), key.WithHelp("←/→", "priority")),
		Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Submit:  key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// Options tune a new form.
type Options struct {
	// DefaultPriority is preselected in create mode. Invalid or empty means medium.
	DefaultPriority model.Priority
	Width           int
}

// Model is the form's Bubble Tea model.
type Model struct {
	target Submitter
	opts   Options
	keys   KeyMap

	open   bool
	mode   Mode
	editID int64
	focus  field

	title       textinput.Model
	description textarea.Model
	priority    model.Priority
	err         error
}

// New builds a closed form that submits to target.
func New(target Submitter, opts Options) Model {
	if !opts.DefaultPriority.Valid() {
		opts.DefaultPriority = model.PriorityMedium
	}
	if opts.Width <= 0 {
		opts.Width = 60
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "What needs doing?"
	// no cap: edit mode must load whatever the store holds
	ti.CharLimit = 0
	ti.Width = opts.Width - 4

	ta := textarea.New()
	ta.Placeholder = "Details (optional)"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetWidth(opts.Width - 2)
	ta.SetHeight(4)

	return Model{
		target:      target,
		opts:        opts,
		keys:        DefaultKeyMap(),
		title:       ti,
		description: ta,
		priority:    opts.DefaultPriority,
	}
}

// OpenCreate shows an empty form with the default priority.
func (m *Model) OpenCreate() tea.Cmd {
	m.reset()
	m.mode = ModeCreate
	m.open = true
	return m.setFocus(fieldTitle)
}

// OpenEdit shows the form prefilled from t.
func (m *Model) OpenEdit(t model.Todo) tea.Cmd {
	m.reset()
	m.mode = ModeEdit
	m.editID = t.ID
	m.title.SetValue(t.Title)
	m.title.CursorEnd()
	m.description.SetValue(t.Description)
	if t.Priority.Valid() {
		m.priority = t.Priority
	}
	m.open = true
	return m.setFocus(fieldTitle)
}

// Close hides the form without submitting.
func (m *Model) Close() {
	m.open = false
	m.title.Blur()
	m.description.Blur()
}

func (m *Model) reset() {
	m.editID = 0
	m.err = nil
	m.title.Reset()
	m.description.Reset()
	m.priority = m.opts.DefaultPriority
}

func (m Model) Open() bool { return m.open }

func (m Model) Mode() Mode { return m.mode }

func (m Model) EditID() int64 { return m.editID }

// Err is the last validation or save error, shown inline.
func (m Model) Err() error { return m.err }

// Input is the current field values.
func (m Model) Input() model.Input {
	return model.Input{
		Title:       m.title.Value(),
		Description: m.description.Value(),
		Priority:    m.priority,
	}
}

// SetPriority selects a level directly.
func (m *Model) SetPriority(p model.Priority) {
	if p.Valid() {
		m.priority = p
	}
}

func (m *Model) setFocus(f field) tea.Cmd {
	m.focus = f
	m.title.Blur()
	m.description.Blur()
	switch f {
	case fieldTitle:
		return m.title.Focus()
	case fieldDescription:
		return m.description.Focus()
	}
	return nil
}

// Submit validates and, if the input is acceptable, hands it to the store.
// On a validation or save error the form stays open and shows the error.
func (m *Model) Submit() tea.Cmd {
	in := m.Input()
	if err := in.Validate(); err != nil {
		m.err = err
		if strings.TrimSpace(in.Title) == "" {
			return m.setFocus(fieldTitle)
		}
		return nil
	}
	in = in.Normalize()

	var err error
	switch m.mode {
	case ModeEdit:
		err = m.target.UpdateTodo(m.editID, in)
	default:
		_, err = m.target.AddTodo(in)
	}
	if err != nil {
		m.err = fmt.Errorf("save: %w", err)
		return nil
	}

	msg := SubmittedMsg{Mode: m.mode, ID: m.editID, Input: in}
	m.err = nil
	m.Close()
	return func() tea.Msg { return msg }
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.open {
		return m, nil
	}

	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, m.keys.Cancel):
			m.Close()
			return m, func() tea.Msg { return CancelledMsg{} }
		case key.Matches(km, m.keys.Submit):
			cmd := m.Submit()
			return m, cmd
		case km.Type == tea.KeyTab || km.Type == tea.KeyShiftTab:
			cmd := m.cycle(km.Type == tea.KeyTab)
			return m, cmd
		}

		switch m.focus {
		case fieldTitle:
			switch {
			case key.Matches(km, m.keys.Confirm):
				cmd := m.Submit()
				return m, cmd
			case km.Type == tea.KeyDown:
				cmd := m.cycle(true)
				return m, cmd
			}
		case fieldDescription:
			// arrows and enter belong to the textarea here
		case fieldPriority, fieldSubmit:
			switch {
			case key.Matches(km, m.keys.Confirm):
				cmd := m.Submit()
				return m, cmd
			case key.Matches(km, m.keys.Next):
				cmd := m.cycle(true)
				return m, cmd
			case key.Matches(km, m.keys.Prev):
				cmd := m.cycle(false)
				return m, cmd
			case m.focus == fieldPriority && key.Matches(km, m.keys.Lower):
				m.priority = m.priority.Prev()
				return m, nil
			case m.focus == fieldPriority && key.Matches(km, m.keys.Raise):
				m.priority = m.priority.Next()
				return m, nil
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldTitle:
		m.title, cmd = m.title.Update(msg)
		if m.err != nil && strings.TrimSpace(m.title.Value()) != "" {
			m.err = nil
		}
	case fieldDescription:
		m.description, cmd = m.description.Update(msg)
	}
	return m, cmd
}

func (m *Model) cycle(forward bool) tea.Cmd {
	next := m.focus + 1
	if !forward {
		next = m.focus + fieldCount - 1
	}
	return m.setFocus(next % fieldCount)
}

func (m Model) View() string {
	if !m.open {
		return ""
	}

	heading := "Add todo"
	if m.mode == ModeEdit {
		heading = "Edit todo"
	}

	label := func(f field, s string) string {
		if m.focus == f {
			return ui.FocusedStyle.Render(s)
		}
		return ui.MutedStyle.Render(s)
	}

	var levels []string
	for _, p := range model.Priorities {
		name := string(p)
		if p == m.priority {
			style := ui.PriorityStyle(name)
			if m.focus == fieldPriority {
				style = style.Reverse(true)
			}
			levels = append(levels, style.Render("["+name+"]"))
		} else {
			levels = append(levels, ui.MutedStyle.Render(" "+name+" "))
		}
	}

	button := "[ Save ]"
	if m.focus == fieldSubmit {
		button = ui.SelectedStyle.Render(button)
	} else {
		button = ui.MutedStyle.Render(button)
	}

	rows := []string{
		ui.TitleStyle.Render(heading),
		"",
		label(fieldTitle, "Title"),
		m.title.View(),
		"",
		label(fieldDescription, "Description"),
		m.description.View(),
		"",
		label(fieldPriority, "Priority"),
		strings.Join(levels, " "),
		"",
		button,
	}
	if m.err != nil {
		rows = append(rows, "", ui.ErrorStyle.Render("✖ "+m.err.Error()))
	}
	rows = append(rows, "", ui.HelpStyle.Render("tab next • ←/→ priority • ctrl+s save • esc cancel"))

	return ui.DialogStyle.Width(m.opts.Width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
