package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// Styles contains the lipgloss styles used by the entries browser
type Styles struct {
	Title    lipgloss.Style
	Header   lipgloss.Style
	Selected lipgloss.Style
	Normal   lipgloss.Style
	Open     lipgloss.Style
	Done     lipgloss.Style
	Live     lipgloss.Style
	Status   lipgloss.Style
	Error    lipgloss.Style
	Search   lipgloss.Style
}

// DefaultStyles returns the default styles
func DefaultStyles() Styles {
	primary := lipgloss.Color("99")
	muted := lipgloss.Color("240")
	success := lipgloss.Color("82")
	warning := lipgloss.Color("214")
	errorColor := lipgloss.Color("196")

	return Styles{
		Title:    lipgloss.NewStyle().Foreground(primary).Bold(true).Padding(0, 1),
		Header:   lipgloss.NewStyle().Foreground(muted).Bold(true),
		Selected: lipgloss.NewStyle().Foreground(primary).Bold(true),
		Normal:   lipgloss.NewStyle(),
		Open:     lipgloss.NewStyle().Foreground(warning),
		Done:     lipgloss.NewStyle().Foreground(muted),
		Live:     lipgloss.NewStyle().Foreground(success).Bold(true),
		Status:   lipgloss.NewStyle().Foreground(muted),
		Error:    lipgloss.NewStyle().Foreground(errorColor),
		Search:   lipgloss.NewStyle().Foreground(primary),
	}
}

// KeyMap contains the key bindings for the entries browser
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Search  key.Binding
	Accept  key.Binding
	Cancel  key.Binding
	Done    key.Binding
	Stop    key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Accept: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Done: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "toggle done"),
		),
		Stop: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stop session"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
