package session

import (
	"github.com/vovakirdan/folio-arcade/internal/config"
	"github.com/vovakirdan/folio-arcade/internal/core"
	"github.com/vovakirdan/folio-arcade/internal/profile"
	"github.com/vovakirdan/folio-arcade/internal/registry"
)

// SelectionHeader is the modal title on the selection screen.
const SelectionHeader = "🚦 Play quick game and grab some discounts on your first project!"

var gameIcons = map[core.GameID]string{
	core.GameTicTacToe: "🎯",
	core.GameTrivia:    "🧠",
	core.GameMemory:    "🧩",
}

// Icon returns the emoji shown next to a game's title.
func Icon(id core.GameID) string {
	return gameIcons[id]
}

// GameCard is one entry of the selection screen.
type GameCard struct {
	ID          core.GameID `json:"id"`
	Icon        string      `json:"icon"`
	Title       string      `json:"title"`
	Subtitle    string      `json:"subtitle"`
	Description string      `json:"description"`
}

// View is a JSON-friendly snapshot of the modal, shared by every driver.
type View struct {
	Open   bool   `json:"open"`
	Screen Screen `json:"screen"`
	Header string `json:"header"`

	// Selection screen.
	Greeting        string      `json:"greeting,omitempty"`
	Message         string      `json:"message,omitempty"`
	Recommendation  string      `json:"recommendation,omitempty"`
	RecommendedGame core.GameID `json:"recommendedGame,omitempty"`
	Games           []GameCard  `json:"games,omitempty"`

	// Game screen.
	State         *core.GameState `json:"state,omitempty"`
	Game          any             `json:"game,omitempty"`
	Result        core.Outcome    `json:"result,omitempty"`
	ResultMessage string          `json:"resultMessage,omitempty"`
	ResultDetail  string          `json:"resultDetail,omitempty"`
	CTA           string          `json:"cta,omitempty"`

	Profile profile.Profile `json:"profile"`
}

// View returns the current snapshot.
func (c *Controller) View() View {
	p := c.profiles.Load()
	v := View{
		Open:    c.open,
		Screen:  c.screen,
		Header:  SelectionHeader,
		Profile: p,
	}

	if c.game == nil {
		v.Greeting = profile.Greeting(c.now())
		v.Message = profile.PersonalizedMessage(p)
		v.Recommendation = profile.Recommendation(p)
		v.RecommendedGame = profile.RecommendedGame(p)
		v.Games = c.Cards()
		return v
	}

	id := c.game.ID()
	v.Header = Icon(id) + " " + c.game.Info().Title
	state := c.game.State()
	v.State = &state
	if s, ok := c.game.(registry.Snapshotter); ok {
		v.Game = s.View()
	}
	if c.result.Terminal() {
		v.Result = c.result
		v.ResultMessage = c.resultMsg
		v.ResultDetail = c.resultDetail
		v.CTA = c.cfg.Modal.CTAText
	}
	return v
}

// Cards returns the selection-screen cards in display order.
func (c *Controller) Cards() []GameCard {
	return Cards(c.cfg)
}

// Cards returns the cards for every registered game.
func Cards(cfg config.ModalConfig) []GameCard {
	games := registry.List(cfg)
	cards := make([]GameCard, 0, len(games))
	for _, g := range games {
		cards = append(cards, GameCard{
			ID:          g.ID,
			Icon:        Icon(g.ID),
			Title:       g.Title,
			Subtitle:    g.Subtitle,
			Description: g.Description,
		})
	}
	return cards
}
