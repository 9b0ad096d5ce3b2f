package tictactoe

import (
	"errors"
	"math/rand"
)

// Mark is the content of a board cell.
type Mark uint8

const (
	Empty  Mark = iota
	Player      // X, always moves first
	Bot         // O
)

// String returns the glyph for the mark.
func (m Mark) String() string {
	switch m {
	case Player:
		return "X"
	case Bot:
		return "O"
	default:
		return " "
	}
}

// Cells is the number of cells on the board.
const Cells = 9

// Board is a 3x3 board stored row by row.
type Board [Cells]Mark

const center = 4

var corners = [...]int{0, 2, 6, 8}

// lines are the 8 winning lines: 3 rows, 3 columns, 2 diagonals.
var lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

var (
	ErrInvalidMove  = errors.New("tictactoe: invalid move")
	ErrIllegalBoard = errors.New("tictactoe: both marks own a line")
)

// owns reports whether m holds all three cells of any line.
func owns(b Board, m Mark) bool {
	for _, l := range lines {
		if b[l[0]] == m && b[l[1]] == m && b[l[2]] == m {
			return true
		}
	}
	return false
}

// CheckWinner returns the mark that owns a full line, or Empty.
// An illegal board where both marks own a line reports Empty; use Validate
// to detect it.
func CheckWinner(b Board) Mark {
	p, o := owns(b, Player), owns(b, Bot)
	switch {
	case p && !o:
		return Player
	case o && !p:
		return Bot
	default:
		return Empty
	}
}

// Validate returns ErrIllegalBoard when both marks own a line.
func Validate(b Board) error {
	if owns(b, Player) && owns(b, Bot) {
		return ErrIllegalBoard
	}
	return nil
}

// Full reports whether no empty cell remains.
func (b Board) Full() bool {
	for _, m := range b {
		if m == Empty {
			return false
		}
	}
	return true
}

// FreeCells returns the indices of empty cells in ascending order.
func (b Board) FreeCells() []int {
	free := make([]int, 0, Cells)
	for i, m := range b {
		if m == Empty {
			free = append(free, i)
		}
	}
	return free
}

// Over reports whether the board is terminal: a winner, a full board or an
// illegal state.
func Over(b Board) bool {
	return CheckWinner(b) != Empty || b.Full() || Validate(b) != nil
}

// ApplyPlayerMove places the player's mark at cell.
func ApplyPlayerMove(b Board, cell int) (Board, error) {
	return place(b, cell, Player)
}

func place(b Board, cell int, m Mark) (Board, error) {
	if cell < 0 || cell >= Cells || b[cell] != Empty || Over(b) {
		return b, ErrInvalidMove
	}
	b[cell] = m
	return b, nil
}

// ChooseBotMove picks the bot's cell with a fixed priority: win now, block
// the player's win, take the centre, take a random free corner, take a
// random free cell. Returns -1 on a full board.
func ChooseBotMove(b Board, rng *rand.Rand) int {
	free := b.FreeCells()
	if len(free) == 0 {
		return -1
	}

	if c := completingMove(b, Bot); c >= 0 {
		return c
	}
	if c := completingMove(b, Player); c >= 0 {
		return c
	}
	if b[center] == Empty {
		return center
	}

	var freeCorners []int
	for _, c := range corners {
		if b[c] == Empty {
			freeCorners = append(freeCorners, c)
		}
	}
	if len(freeCorners) > 0 {
		return freeCorners[rng.Intn(len(freeCorners))]
	}
	return free[rng.Intn(len(free))]
}

// completingMove returns the lowest empty cell that completes a line for m,
// or -1.
func completingMove(b Board, m Mark) int {
	for c := 0; c < Cells; c++ {
		if b[c] != Empty {
			continue
		}
		next := b
		next[c] = m
		if owns(next, m) {
			return c
		}
	}
	return -1
}
