package tictactoe

import (
	"github.com/vovakirdan/folio-arcade/internal/core"
)

const (
	cellW  = 3
	boardW = 3*cellW + 2
	boardH = 5
)

// CellAt returns the screen position of a cell's mark for a board drawn at
// (x0, y0).
func CellAt(x0, y0, cell int) (x, y int) {
	return x0 + (cell%3)*(cellW+1) + 1, y0 + (cell/3)*2
}

// Render draws the board centered horizontally with the status line below.
func (g *Game) Render(dst *core.Screen, cursor int) {
	x0 := core.Max((dst.Width()-boardW)/2, 0)
	y0 := 1

	for row := 0; row < 3; row++ {
		y := y0 + row*2
		if row > 0 {
			dst.DrawTextColored(x0, y-1, "───┼───┼───", core.ColorGray)
		}
		dst.SetColored(x0+cellW, y, '│', core.ColorGray)
		dst.SetColored(x0+2*cellW+1, y, '│', core.ColorGray)
	}

	for cell, m := range g.board {
		x, y := CellAt(x0, y0, cell)
		dst.SetColored(x, y, []rune(m.String())[0], markColor(m))
		if cell == cursor && !g.outcome.Terminal() {
			dst.SetColored(x-1, y, '[', core.ColorYellow)
			dst.SetColored(x+1, y, ']', core.ColorYellow)
		}
	}

	dst.DrawTextCentered(y0+boardH+1, g.status(), statusColor(g.outcome))
}

func (g *Game) status() string {
	switch {
	case g.outcome == core.OutcomeWin:
		return "You win! 🎉"
	case g.outcome == core.OutcomeLose:
		return "Bot wins!"
	case g.outcome == core.OutcomeDraw:
		return "It's a draw!"
	case g.botTurn:
		return "Bot is thinking..."
	default:
		return "Your turn (X)"
	}
}

func markColor(m Mark) core.Color {
	switch m {
	case Player:
		return core.ColorBrightBlue
	case Bot:
		return core.ColorBrightRed
	default:
		return core.ColorDefault
	}
}

func statusColor(o core.Outcome) core.Color {
	switch o {
	case core.OutcomeWin:
		return core.ColorBrightGreen
	case core.OutcomeLose:
		return core.ColorBrightRed
	case core.OutcomeDraw:
		return core.ColorYellow
	default:
		return core.ColorWhite
	}
}
