// Package tui provides the Bubble Tea shell for the game modal.
// It maps keys to controller input, schedules deferred steps with tea.Tick
// and renders the modal with lipgloss.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/folio-arcade/internal/pacing"
)

// TickMsg refreshes time-dependent views such as the memory timer.
type TickMsg time.Time

// FireMsg hands a deferred step back to the shell once its delay passed.
type FireMsg struct {
	Token pacing.Token
}

// tickCmd returns a Bubble Tea command that sends a tick after interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// scheduleCmd turns deferred steps into Bubble Tea commands.
func scheduleCmd(ds []pacing.Deferred) tea.Cmd {
	if len(ds) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(ds))
	for _, d := range ds {
		tok := d.Token
		cmds = append(cmds, tea.Tick(d.Delay, func(time.Time) tea.Msg {
			return FireMsg{Token: tok}
		}))
	}
	return tea.Batch(cmds...)
}
