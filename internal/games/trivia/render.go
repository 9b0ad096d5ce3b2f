package trivia

import (
	"fmt"

	"github.com/vovakirdan/folio-arcade/internal/core"
)

// Render draws the active question and its options, or the final score.
func (g *Game) Render(dst *core.Screen, cursor int) {
	total := len(g.cfg.Questions)
	if g.state.Finished {
		g.renderResult(dst, total)
		return
	}

	q := g.cfg.Questions[g.state.Current]
	dst.DrawTextCentered(0, fmt.Sprintf("%d of %d", g.state.Current+1, total), core.ColorGray)
	drawProgress(dst, 1, g.state.Current+1, total)

	y := 3
	for _, line := range core.WrapText(q.Text, dst.Width()-4) {
		dst.DrawTextColored(2, y, line, core.ColorWhite)
		y++
	}
	y++

	for i, opt := range q.Options {
		marker, color := "  ", core.ColorDefault
		if i == cursor && !g.state.Answered {
			marker, color = "▶ ", core.ColorYellow
		}
		if g.state.Answered {
			switch {
			case i == q.Answer:
				marker, color = "✓ ", core.ColorBrightGreen
			case i == g.state.Selected:
				marker, color = "✗ ", core.ColorBrightRed
			}
		}
		dst.DrawTextColored(2, y, fmt.Sprintf("%s%d. %s", marker, i+1, opt), color)
		y++
	}
}

func (g *Game) renderResult(dst *core.Screen, total int) {
	pct := Percent(g.state.Correct, total)
	icon := "😅"
	if g.outcome == core.OutcomeWin {
		icon = "🎉"
	}
	w := core.Min(dst.Width(), 44)
	dst.DrawBox(core.NewRect((dst.Width()-w)/2, 0, w, 8), core.ColorIndigo)
	dst.DrawTextCentered(1, icon, core.ColorDefault)
	dst.DrawTextCentered(3, "Quiz Complete!", core.ColorWhite)
	dst.DrawTextCentered(5, fmt.Sprintf("You got %d out of %d questions correct", g.state.Correct, total), core.ColorDefault)
	dst.DrawTextCentered(6, fmt.Sprintf("Score: %d%%", pct), core.ColorBrightBlue)
}

// drawProgress draws a bar across the screen filled done/total.
func drawProgress(dst *core.Screen, y, done, total int) {
	width := dst.Width() - 4
	if width <= 0 || total <= 0 {
		return
	}
	filled := width * done / total
	dst.DrawHLine(2, y, filled, '━', core.ColorIndigo)
	dst.DrawHLine(2+filled, y, width-filled, '─', core.ColorGray)
}
