package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/vovakirdan/folio-arcade/internal/core"
)

// KeyMap defines the modal's key bindings.
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Select  key.Binding
	Back    key.Binding
	Reset   key.Binding
	CTA     key.Binding
	Open    key.Binding
	Dismiss key.Binding
	Close   key.Binding
	Stats   key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Back, k.Reset, k.Close, k.Help}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Select},
		{k.Back, k.Reset, k.CTA},
		{k.Open, k.Dismiss, k.Close, k.Stats, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k", "w"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "s"),
			key.WithHelp("down/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h", "a"),
			key.WithHelp("left/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l", "d"),
			key.WithHelp("right/l", "right"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("b", "backspace"),
			key.WithHelp("b", "games"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		CTA: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "work with me"),
		),
		Open: key.NewBinding(
			key.WithKeys("o", "g"),
			key.WithHelp("o", "open games"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "dismiss"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Stats: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "stats"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// gridColumns returns how many targets one row holds for a game.
func gridColumns(id core.GameID) int {
	switch id {
	case core.GameTicTacToe:
		return 3
	case core.GameMemory:
		return 4
	default:
		return 1
	}
}

// moveCursor moves cursor by (dx, dy) on a grid of targets laid out in
// cols columns, staying within [0, targets).
func moveCursor(cursor, dx, dy, cols, targets int) int {
	if targets <= 0 {
		return 0
	}
	next := cursor + dx + dy*cols
	if dx != 0 && cols > 1 && next/cols != cursor/cols {
		return cursor
	}
	return core.Clamp(next, 0, targets-1)
}
