package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/folio-arcade/internal/core"
	"github.com/vovakirdan/folio-arcade/internal/session"
)

// Game area size inside the modal frame.
const (
	gameW     = 52
	gameH     = 13
	cardWidth = 46
)

// Model is the Bubble Tea model for the game modal. It drives a
// session.Shell: keys become shell and controller calls, and every deferred
// step the shell hands back is scheduled with tea.Tick.
type Model struct {
	shell  *session.Shell
	ctrl   *session.Controller
	stats  StatsSource
	screen *core.Screen
	keys   KeyMap
	help   help.Model

	cursor  int
	width   int
	height  int
	section string // page section the call to action pointed at

	statsView *StatsModel
	quitting  bool
}

// NewModel creates a modal model around shell. stats may be nil.
func NewModel(shell *session.Shell, stats StatsSource) Model {
	return Model{
		shell:  shell,
		ctrl:   shell.Controller(),
		stats:  stats,
		screen: core.NewScreen(gameW, gameH),
		keys:   DefaultKeyMap(),
		help:   help.New(),
	}
}

// Init mounts the shell and starts the refresh tick.
func (m Model) Init() tea.Cmd {
	return tea.Batch(scheduleCmd(m.shell.Mount()), tickCmd(time.Second))
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.statsView != nil {
			sv, cmd := m.statsView.Update(msg)
			s := sv.(StatsModel)
			m.statsView = &s
			return m, cmd
		}
		return m, nil

	case TickMsg:
		return m, tickCmd(time.Second)

	case FireMsg:
		return m, scheduleCmd(m.shell.Fire(msg.Token))

	case tea.KeyMsg:
		if m.statsView != nil {
			return m.updateStats(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) updateStats(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sv, cmd := m.statsView.Update(msg)
	s := sv.(StatsModel)
	switch {
	case s.IsQuitting():
		return m.quit()
	case s.IsGoingBack():
		m.statsView = nil
		return m, nil
	}
	m.statsView = &s
	return m, cmd
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.shell.Unmount()
	return m, tea.Quit
}

// handleKey processes keyboard input for the current screen.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if !m.ctrl.IsOpen() {
		return m.handlePageKey(msg)
	}
	if key.Matches(msg, m.keys.Close) {
		m.shell.Close()
		return m, nil
	}
	if m.ctrl.Game() == nil {
		return m.handleSelectionKey(msg)
	}
	return m.handleGameKey(msg)
}

// handlePageKey handles keys while the modal is closed.
func (m Model) handlePageKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Open):
		m.shell.Open()
	case key.Matches(msg, m.keys.Select) && m.shell.TriggerVisible():
		m.shell.ClickTrigger()
	case key.Matches(msg, m.keys.Dismiss) && m.shell.TriggerVisible():
		m.shell.DismissTrigger()
		return m, nil
	case key.Matches(msg, m.keys.Stats) && m.stats != nil:
		s := NewStatsModel(m.stats, m.width, m.height)
		m.statsView = &s
		return m, nil
	default:
		return m, nil
	}
	m.cursor = 0
	m.section = ""
	return m, nil
}

func (m Model) handleSelectionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cards := m.ctrl.Cards()
	switch {
	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Left):
		m.cursor = core.Clamp(m.cursor-1, 0, len(cards)-1)
	case key.Matches(msg, m.keys.Down), key.Matches(msg, m.keys.Right):
		m.cursor = core.Clamp(m.cursor+1, 0, len(cards)-1)
	case key.Matches(msg, m.keys.Select):
		if m.cursor < len(cards) {
			if err := m.ctrl.Select(cards[m.cursor].ID); err == nil {
				m.cursor = 0
			}
		}
	}
	return m, nil
}

func (m Model) handleGameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	g := m.ctrl.Game()
	cols := gridColumns(g.ID())
	targets := g.Targets()

	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor = moveCursor(m.cursor, 0, -1, cols, targets)
	case key.Matches(msg, m.keys.Down):
		m.cursor = moveCursor(m.cursor, 0, 1, cols, targets)
	case key.Matches(msg, m.keys.Left):
		m.cursor = moveCursor(m.cursor, -1, 0, cols, targets)
	case key.Matches(msg, m.keys.Right):
		m.cursor = moveCursor(m.cursor, 1, 0, cols, targets)
	case key.Matches(msg, m.keys.Select):
		return m, scheduleCmd(m.ctrl.Input(m.cursor))
	case key.Matches(msg, m.keys.Reset):
		m.ctrl.ResetGame()
		m.cursor = 0
	case key.Matches(msg, m.keys.Back):
		m.ctrl.Back()
		m.cursor = 0
	case key.Matches(msg, m.keys.CTA) && m.ctrl.Result().Terminal():
		m.section = m.shell.CallToAction()
	}
	return m, nil
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.statsView != nil {
		return m.statsView.View()
	}
	if !m.ctrl.IsOpen() {
		return m.viewPage()
	}

	v := m.ctrl.View()
	var body string
	if m.ctrl.Game() == nil {
		body = m.viewSelection(v)
	} else {
		body = m.viewGame(v)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render(v.Header),
		"",
		body,
		"",
		mutedStyle.Render(m.help.View(m.keys)),
	)
	return m.center(frameStyle.Render(content))
}

func (m Model) viewPage() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("folio"))
	b.WriteString("\n\n")
	if m.section != "" {
		b.WriteString(accentStyle.Render(fmt.Sprintf("→ #%s", m.section)))
		b.WriteString("\n")
		b.WriteString("Thanks for playing! Let's talk about your project.\n\n")
	}
	b.WriteString(mutedStyle.Render("o: open games  t: stats  q: quit"))

	if m.shell.TriggerVisible() {
		trigger := triggerStyle.Render("🎮 " + session.TriggerTitle + "\n" + session.TriggerSubtitle)
		b.WriteString("\n\n")
		b.WriteString(trigger)
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("enter: play  x: dismiss"))
	}
	return m.center(b.String())
}

func (m Model) viewSelection(v session.View) string {
	lines := []string{
		accentStyle.Render(v.Greeting),
		v.Message,
		mutedStyle.Render(v.Recommendation),
		"",
	}
	for i, c := range v.Games {
		style := cardStyle
		if i == m.cursor {
			style = activeCardStyle
		}
		card := fmt.Sprintf("%s %s\n%s\n%s", c.Icon, headerStyle.Render(c.Title), c.Subtitle, mutedStyle.Render(c.Description))
		lines = append(lines, style.Render(card))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) viewGame(v session.View) string {
	cursor := m.cursor
	if g := m.ctrl.Game(); g != nil {
		cursor = core.Clamp(cursor, 0, core.Max(g.Targets()-1, 0))
	}
	m.ctrl.Render(m.screen, cursor)

	parts := []string{RenderScreen(m.screen)}
	if v.Result.Terminal() {
		parts = append(parts,
			"",
			bannerStyles[v.Result].Render(v.ResultMessage),
		)
		if v.ResultDetail != "" {
			parts = append(parts, v.ResultDetail)
		}
		parts = append(parts, "", ctaStyle.Render(v.CTA)+mutedStyle.Render("  c"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) center(s string) string {
	if m.width == 0 || m.height == 0 {
		return s
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, s)
}

// Run starts the Bubble Tea program around shell.
func Run(shell *session.Shell, stats StatsSource) error {
	p := tea.NewProgram(
		NewModel(shell, stats),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
