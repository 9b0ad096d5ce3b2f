package core

// GameID identifies one of the modal's mini-games.
type GameID string

const (
	GameTicTacToe GameID = "tic-tac-toe"
	GameTrivia    GameID = "trivia"
	GameMemory    GameID = "memory"
)

// AllGames lists the games in the order the selection screen shows them.
var AllGames = []GameID{GameTicTacToe, GameTrivia, GameMemory}

// Valid reports whether id names a known game.
func (id GameID) Valid() bool {
	switch id {
	case GameTicTacToe, GameTrivia, GameMemory:
		return true
	}
	return false
}

// Outcome is the terminal result of a round.
type Outcome string

const (
	OutcomeNone Outcome = ""
	OutcomeWin  Outcome = "win"
	OutcomeLose Outcome = "lose"
	OutcomeDraw Outcome = "draw"
)

// Terminal reports whether the outcome ends a round.
func (o Outcome) Terminal() bool {
	return o == OutcomeWin || o == OutcomeLose || o == OutcomeDraw
}
