// Package registry provides a global registry for game factories.
// Games register themselves in init() functions, allowing the session
// controller to discover and instantiate games without hardcoded dependencies.
package registry

import (
	"fmt"
	"sync"

	"github.com/vovakirdan/folio-arcade/internal/config"
	"github.com/vovakirdan/folio-arcade/internal/core"
)

// Game is the interface every modal game implements.
// Games contain pure logic with no presentation dependencies (especially no
// Bubble Tea). Drivers handle input mapping, timing and display.
type Game interface {
	// ID returns the game identifier ("tic-tac-toe", "trivia", "memory").
	ID() core.GameID

	// Info returns the selection-screen card for this game.
	Info() config.GameInfo

	// Reset starts a fresh round.
	Reset(cfg core.RuntimeConfig)

	// Select applies the player's choice of target index: a board cell,
	// an answer option or a card. Rejected choices return an error and
	// leave the state untouched.
	Select(index int) (core.StepResult, error)

	// Continue runs a delayed step the game asked for in a StepResult.
	// Unexpected kinds are ignored.
	Continue(kind core.FollowupKind) core.StepResult

	// Targets returns how many selectable targets the current state has.
	Targets() int

	// Render draws the game into dst, highlighting the cursor target.
	// The screen is pre-cleared before this call.
	Render(dst *core.Screen, cursor int)

	// State returns the current game state.
	State() core.GameState
}

// Snapshotter is implemented by games that expose a JSON-friendly view of
// their state for HTTP clients and determinism tests.
type Snapshotter interface {
	View() any
}

// GameInfo contains metadata about a registered game.
type GameInfo struct {
	ID core.GameID
	config.GameInfo
}

// Factory creates a new instance of a game from the modal configuration.
type Factory func(cfg config.ModalConfig) Game

var (
	factories = make(map[core.GameID]Factory)
	mu        sync.RWMutex
)

// Register adds a game factory to the registry.
// Typically called from a game's init() function.
// Panics if a game with the same ID is already registered.
func Register(id core.GameID, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}
	factories[id] = f
}

// List returns the registered games in selection-screen order with their
// cards resolved against cfg.
func List(cfg config.ModalConfig) []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for _, id := range core.AllGames {
		f, ok := factories[id]
		if !ok {
			continue
		}
		result = append(result, GameInfo{ID: id, GameInfo: f(cfg).Info()})
	}
	return result
}

// Create instantiates a new game by its ID.
// Returns an error if the game ID is not registered.
func Create(id core.GameID, cfg config.ModalConfig) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return f(cfg), nil
}

// Exists checks if a game with the given ID is registered.
func Exists(id core.GameID) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
