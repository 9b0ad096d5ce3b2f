package memory

import (
	"fmt"

	"github.com/vovakirdan/folio-arcade/internal/core"
)

const (
	cols    = 4
	cardW   = 4 // "[🚀]" or " ░░ "
	strideX = cardW + 1
	strideY = 2
)

// CardAt returns the top-left screen position of card id for a grid drawn
// at (x0, y0).
func CardAt(x0, y0, id int) (x, y int) {
	return x0 + (id%cols)*strideX, y0 + (id/cols)*strideY
}

// Render draws the HUD and the card grid.
func (g *Game) Render(dst *core.Screen, cursor int) {
	hud := fmt.Sprintf("⏱ %ds | 🎯 %d/%d", int(g.Elapsed().Seconds()), g.state.MatchedPairs, g.state.Pairs())
	dst.DrawTextCentered(0, hud, core.ColorWhite)

	gridW := cols*strideX - 1
	x0 := core.Max((dst.Width()-gridW)/2, 0)
	y0 := 2

	for id, card := range g.state.Cards {
		x, y := CardAt(x0, y0, id)
		switch {
		case card.Matched:
			dst.DrawTextColored(x+1, y, card.Symbol, core.ColorBrightGreen)
		case card.Flipped:
			dst.DrawText(x+1, y, card.Symbol)
		default:
			dst.DrawTextColored(x+1, y, "░░", core.ColorBlue)
		}
		if id == cursor && !g.outcome.Terminal() {
			dst.SetColored(x, y, '[', core.ColorYellow)
			dst.SetColored(x+cardW-1, y, ']', core.ColorYellow)
		}
	}

	rows := (len(g.state.Cards) + cols - 1) / cols
	y := y0 + rows*strideY
	switch {
	case g.state.StartedAt.IsZero():
		dst.DrawTextCentered(y, "🧩 Memory Challenge", core.ColorWhite)
		intro := fmt.Sprintf("Match all pairs in under %d seconds to win!", int(g.cfg.GoodScoreTime.Seconds()))
		for i, line := range core.WrapText(intro, dst.Width()) {
			dst.DrawTextCentered(y+1+i, line, core.ColorGray)
		}
	case g.outcome == core.OutcomeWin:
		dst.DrawTextCentered(y, "All pairs matched in time!", core.ColorBrightGreen)
	case g.outcome == core.OutcomeLose:
		dst.DrawTextCentered(y, "All pairs matched, but the clock won.", core.ColorYellow)
	}
}
