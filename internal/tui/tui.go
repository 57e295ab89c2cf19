// Package tui provides the interactive terminal UI: an entries browser with
// live search and quick session control.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tally/internal/entry"
	"tally/internal/service"
)

// entriesLoadedMsg carries a refreshed entry listing into the model
type entriesLoadedMsg struct {
	entries []entry.Entry
	err     error
}

// entryChangedMsg reports the outcome of a toggle or stop action
type entryChangedMsg struct {
	status string
	err    error
}

// Model is the entries browser model
type Model struct {
	services *service.Services

	entries []entry.Entry
	cursor  int
	width   int
	height  int

	searching bool
	search    textinput.Model
	query     string

	status string
	err    error

	styles Styles
	keys   KeyMap
}

// New creates a new entries browser model
func New(services *service.Services) Model {
	search := textinput.New()
	search.Placeholder = "client, key, note or invoice"
	search.CharLimit = 64

	return Model{
		services: services,
		search:   search,
		styles:   DefaultStyles(),
		keys:     DefaultKeyMap(),
	}
}

// Run starts the TUI and blocks until the user quits
func Run(services *service.Services) error {
	_, err := tea.NewProgram(New(services), tea.WithAltScreen()).Run()
	return err
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.loadEntries()
}

// loadEntries queries the current listing off the Update loop
func (m Model) loadEntries() tea.Cmd {
	query := m.query
	services := m.services
	return func() tea.Msg {
		entries, err := services.Query.List(context.Background(), service.QueryParams{Text: query})
		return entriesLoadedMsg{entries: entries, err: err}
	}
}

// toggleDone flips the completed flag on the selected entry
func (m Model) toggleDone(id int64) tea.Cmd {
	services := m.services
	return func() tea.Msg {
		e, err := services.Entry.ToggleCompleted(context.Background(), id)
		if err != nil {
			return entryChangedMsg{err: err}
		}
		if e.IsDone() {
			return entryChangedMsg{status: fmt.Sprintf("entry %d marked done", e.ID)}
		}
		return entryChangedMsg{status: fmt.Sprintf("entry %d reopened", e.ID)}
	}
}

// stopSession stops the selected entry's session via the client-scoped stop,
// so the same highest-id rule applies as on the command line.
func (m Model) stopSession(e entry.Entry) tea.Cmd {
	services := m.services
	return func() tea.Msg {
		stopped, err := services.Session.Stop(context.Background(), e.Client, e.ClientKey, "")
		if err != nil {
			return entryChangedMsg{err: err}
		}
		return entryChangedMsg{status: fmt.Sprintf("stopped session %d: %s h billed", stopped.ID, stopped.RoundedHours)}
	}
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case entriesLoadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.entries = msg.entries
			if m.cursor >= len(m.entries) {
				m.cursor = max(0, len(m.entries)-1)
			}
		}
		return m, nil

	case entryChangedMsg:
		m.err = msg.err
		m.status = msg.status
		return m, m.loadEntries()

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)
	}

	return m, nil
}

// updateSearch handles keys while the search input is focused
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Accept):
		m.searching = false
		m.search.Blur()
		m.query = strings.TrimSpace(m.search.Value())
		m.cursor = 0
		return m, m.loadEntries()

	case key.Matches(msg, m.keys.Cancel):
		m.searching = false
		m.search.Blur()
		m.search.SetValue(m.query)
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

// updateBrowse handles keys in the listing
func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.status = ""
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Refresh):
		m.status = ""
		return m, m.loadEntries()

	case key.Matches(msg, m.keys.Done):
		if e, ok := m.selected(); ok {
			return m, m.toggleDone(e.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Stop):
		if e, ok := m.selected(); ok && e.IsOpen() {
			return m, m.stopSession(e)
		}
		m.status = "selected entry has no running session"
		return m, nil
	}

	return m, nil
}

// selected returns the entry under the cursor
func (m Model) selected() (entry.Entry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return entry.Entry{}, false
	}
	return m.entries[m.cursor], true
}

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("tally"))
	if m.query != "" {
		b.WriteString(m.styles.Search.Render(" search: " + m.query))
	}
	b.WriteString("\n\n")

	if m.searching {
		b.WriteString(m.styles.Search.Render("search: "))
		b.WriteString(m.search.View())
		b.WriteString("\n\n")
	}

	if m.err != nil {
		b.WriteString(m.styles.Error.Render("error: " + m.err.Error()))
		b.WriteString("\n\n")
	}

	if len(m.entries) == 0 {
		b.WriteString(m.styles.Status.Render("no entries"))
		b.WriteString("\n")
	} else {
		b.WriteString(m.styles.Header.Render(fmt.Sprintf("   %5s  %-20s  %7s  %-4s  %s",
			"ID", "CLIENT", "BILLED", "ST", "NOTE")))
		b.WriteString("\n")
		for i, e := range m.entries {
			b.WriteString(m.renderRow(e, i == m.cursor))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(m.styles.Status.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Status.Render("j/k move  / search  d done  s stop  r refresh  q quit"))

	return b.String()
}

// renderRow formats one listing row
func (m Model) renderRow(e entry.Entry, selected bool) string {
	marker := "open"
	markerStyle := m.styles.Open
	switch {
	case e.IsOpen():
		marker = "live"
		markerStyle = m.styles.Live
	case e.IsDone():
		marker = "done"
		markerStyle = m.styles.Done
	}

	client := e.Client
	if len(client) > 20 {
		client = client[:17] + "..."
	}
	note := e.Note
	if i := strings.IndexByte(note, '\n'); i >= 0 {
		note = note[:i]
	}
	if len(note) > 30 {
		note = note[:27] + "..."
	}

	prefix := "  "
	rowStyle := m.styles.Normal
	if selected {
		prefix = "> "
		rowStyle = m.styles.Selected
	}

	row := fmt.Sprintf("%5d  %-20s  %6sh  %s  %s",
		e.ID, client, e.RoundedHours, markerStyle.Render(marker), note)

	return prefix + rowStyle.Render(row)
}
