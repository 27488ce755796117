// Package tui is the interactive list view with the add/edit form on top.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/idilsaglam/tada/internal/form"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/store"
	"github.com/idilsaglam/tada/internal/ui"
)

// Options tune the interactive view.
type Options struct {
	DefaultPriority model.Priority
	Logger          *log.Logger
}

// listItem adapts a Todo to bubbles/list.Item
type listItem struct {
	todo model.Todo
}

func (i listItem) Title() string       { return i.todo.Title }
func (i listItem) Description() string { return i.todo.Description }
func (i listItem) FilterValue() string { return i.todo.Title + " " + i.todo.Description }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	t := it.todo

	box := ui.MutedStyle.Render(ui.BoxUnchecked)
	text := t.Title
	if t.Completed {
		box = ui.SuccessStyle.Render(ui.BoxChecked)
		text = ui.DoneStyle.Render(text)
	}
	badge := ui.PriorityStyle(string(t.Priority)).Render(fmt.Sprintf("%-6s", t.Priority))

	line := fmt.Sprintf("%s %s %s", box, badge, text)
	if t.Description != "" {
		desc := strings.ReplaceAll(t.Description, "\n", " ")
		if len([]rune(desc)) > 40 {
			desc = string([]rune(desc)[:37]) + "..."
		}
		line += "  " + ui.MutedStyle.Render(desc)
	}

	prefix := "  "
	if index == m.Index() {
		prefix = ui.SelectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

type keyMap struct {
	add, edit, toggle, raise, lower, remove, undo, quit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		toggle: key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "done")),
		raise:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "priority")),
		lower:  key.NewBinding(key.WithKeys("-"), key.WithHelp("+/-", "priority")),
		remove: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		undo:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		quit:   key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

// Model is the top-level Bubble Tea model.
type Model struct {
	store  *store.Store
	logger *log.Logger
	keys   keyMap

	list   list.Model
	form   form.Model
	status string
	width  int
	height int

	// single-level undo of the last delete
	undo *model.Todo
}

// New builds the view over s. Every action writes through s immediately.
func New(s *store.Store, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = ui.TitleStyle
	l.Styles.HelpStyle = ui.HelpStyle
	l.Styles.PaginationStyle = ui.HelpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("todo", "todos")
	// q is ours; esc must keep clearing the filter
	l.KeyMap.Quit.SetEnabled(false)

	km := newKeyMap()
	extra := func() []key.Binding {
		return []key.Binding{km.add, km.edit, km.toggle, km.raise, km.remove, km.undo}
	}
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	m := Model{
		store:  s,
		logger: logger,
		keys:   km,
		list:   l,
		form:   form.New(s, form.Options{DefaultPriority: opts.DefaultPriority}),
		width:  80,
		height: 24,
	}
	m.refresh()
	return m
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(s *store.Store, opts Options) error {
	p := tea.NewProgram(New(s, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// refresh rebuilds the list from the store, keeping the cursor position.
func (m *Model) refresh() tea.Cmd {
	todos := m.store.Todos()
	items := make([]list.Item, 0, len(todos))
	for _, t := range todos {
		items = append(items, listItem{todo: t})
	}
	idx := m.list.Index()
	cmd := m.list.SetItems(items)
	if idx >= len(items) {
		idx = len(items) - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}
	m.list.Title = m.header()
	return cmd
}

// header shows live counts.
func (m Model) header() string {
	done, pending := m.store.Stats()
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		"Todos",
		ui.SuccessStyle.Render("✔"), done,
		ui.PendingStyle.Render("•"), pending,
		ui.AccentStyle.Render("Total"), done+pending,
	)
}

func (m Model) selected() (model.Todo, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return model.Todo{}, false
	}
	return it.todo, true
}

// report turns a store error into a status line.
func (m *Model) report(action string, err error) {
	if err != nil {
		m.logger.Error("action failed", "action", action, "err", err)
		m.status = ui.ErrorStyle.Render(fmt.Sprintf("✖ %s: %v", action, err))
		return
	}
	m.status = ui.SuccessStyle.Render("✔ " + action)
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-4)
		return m, nil
	case form.SubmittedMsg:
		if msg.Mode == form.ModeEdit {
			m.report("saved", nil)
		} else {
			m.report("added", nil)
		}
		return m, nil
	case form.CancelledMsg:
		m.status = ""
		return m, nil
	}

	if km, ok := msg.(tea.KeyMsg); ok && km.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.form.Open() {
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		if !m.form.Open() {
			// submitted or cancelled; pick up whatever the form wrote
			refresh := m.refresh()
			return m, tea.Batch(cmd, refresh)
		}
		return m, cmd
	}

	if km, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(km, m.keys.quit):
			return m, tea.Quit
		case key.Matches(km, m.keys.add):
			cmd := m.form.OpenCreate()
			return m, cmd
		case key.Matches(km, m.keys.edit):
			if t, ok := m.selected(); ok {
				cmd := m.form.OpenEdit(t)
				return m, cmd
			}
			return m, nil
		case key.Matches(km, m.keys.toggle):
			if t, ok := m.selected(); ok {
				m.report("toggled", m.store.SetCompleted(t.ID, !t.Completed))
				cmd := m.refresh()
				return m, cmd
			}
			return m, nil
		case key.Matches(km, m.keys.raise), key.Matches(km, m.keys.lower):
			if t, ok := m.selected(); ok {
				p := t.Priority.Raise()
				if key.Matches(km, m.keys.lower) {
					p = t.Priority.Lower()
				}
				if p == t.Priority {
					return m, nil
				}
				m.report("priority "+string(p), m.store.SetPriority(t.ID, p))
				cmd := m.refresh()
				return m, cmd
			}
			return m, nil
		case key.Matches(km, m.keys.remove):
			if t, ok := m.selected(); ok {
				tmp := t
				m.undo = &tmp
				m.report("removed", m.store.RemoveTodo(t.ID))
				cmd := m.refresh()
				return m, cmd
			}
			return m, nil
		case key.Matches(km, m.keys.undo):
			if m.undo != nil {
				m.report("restored", m.restore(*m.undo))
				m.undo = nil
				cmd := m.refresh()
				return m, cmd
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// restore re-adds a deleted item. It lands at the end of the list with a new id.
func (m *Model) restore(t model.Todo) error {
	added, err := m.store.AddTodo(model.InputOf(t))
	if err != nil {
		return err
	}
	if t.Completed {
		return m.store.SetCompleted(added.ID, true)
	}
	return nil
}

func (m Model) View() string {
	if m.form.Open() {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.form.View())
	}
	content := m.list.View()
	if m.status != "" {
		content += "\n" + m.status
	}
	return ui.BorderStyle.Render(content)
}
