package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/folio-arcade/internal/core"
	"github.com/vovakirdan/folio-arcade/internal/storage"
)

const maxResults = 100

// StatsSource is the results log the stats screen reads from.
// *storage.Store implements it.
type StatsSource interface {
	RecentResults(gameID core.GameID, limit int) ([]storage.ResultRecord, error)
	GetGameStats(gameID core.GameID) (*storage.GameStats, error)
}

// StatsKeyMap defines the key bindings for the stats screen.
type StatsKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextGame key.Binding
	PrevGame key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k StatsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextGame, k.PrevGame, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k StatsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextGame, k.PrevGame},
		{k.Back, k.Quit},
	}
}

// DefaultStatsKeyMap returns default key bindings.
func DefaultStatsKeyMap() StatsKeyMap {
	return StatsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextGame: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next game"),
		),
		PrevGame: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev game"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// StatsModel shows the results log: a summary line per game and the most
// recent rounds in a table.
type StatsModel struct {
	source    StatsSource
	games     []core.GameID
	cursor    int
	results   []storage.ResultRecord
	stats     *storage.GameStats
	err       error
	table     table.Model
	help      help.Model
	keys      StatsKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool

	standalone bool // back quits the program
}

// NewStatsModel creates a stats screen over source.
func NewStatsModel(source StatsSource, width, height int) StatsModel {
	h := help.New()
	h.ShowAll = false

	m := StatsModel{
		source: source,
		games:  core.AllGames,
		keys:   DefaultStatsKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.load()
	return m
}

func (m *StatsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Outcome", Width: 9},
		{Title: "Points", Width: 7},
		{Title: "Date", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(core.Max(m.height-10, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// load reads stats and recent results for the selected game.
func (m *StatsModel) load() {
	m.results, m.stats, m.err = nil, nil, nil
	if m.source != nil && len(m.games) > 0 {
		id := m.games[m.cursor]
		m.stats, m.err = m.source.GetGameStats(id)
		if m.err == nil {
			m.results, m.err = m.source.RecentResults(id, maxResults)
		}
	}
	m.updateTableRows()
}

func (m *StatsModel) updateTableRows() {
	rows := make([]table.Row, len(m.results))
	for i, r := range m.results {
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			string(r.Outcome),
			fmt.Sprintf("+%d", r.Points),
			r.CreatedAt.Local().Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the stats model.
func (m StatsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the stats screen.
func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			if m.standalone {
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.NextGame):
			m.cursor = (m.cursor + 1) % len(m.games)
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.PrevGame):
			m.cursor = (m.cursor - 1 + len(m.games)) % len(m.games)
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the stats screen.
func (m StatsModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	tabs := make([]string, len(m.games))
	for i, id := range m.games {
		name := string(id)
		if i == m.cursor {
			tabs[i] = ctaStyle.Render(name)
		} else {
			tabs[i] = mutedStyle.Render(" " + name + " ")
		}
	}
	b.WriteString(headerStyle.Render("RESULTS"))
	b.WriteString("\n\n")
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(bannerStyles[core.OutcomeLose].Render("Cannot read results: " + m.err.Error()))
	case m.stats == nil || m.stats.Rounds == 0:
		b.WriteString(mutedStyle.Italic(true).Render("No rounds recorded yet.\nPlay a game to fill this table!"))
	default:
		s := m.stats
		b.WriteString(fmt.Sprintf("%d rounds  %d won  %d lost  %d drawn  %d points  %.0f%% win rate\n\n",
			s.Rounds, s.Wins, s.Losses, s.Draws, s.TotalPoints, s.WinRate()*100))
		b.WriteString(m.table.View())
	}

	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render(m.help.View(m.keys)))

	return frameStyle.Render(b.String())
}

// IsGoingBack returns true if the user wants to return to the modal.
func (m StatsModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if the user wants to quit entirely.
func (m StatsModel) IsQuitting() bool {
	return m.quitting
}

// RunStats runs the stats screen on its own.
func RunStats(source StatsSource) error {
	m := NewStatsModel(source, 80, 24)
	m.standalone = true
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
