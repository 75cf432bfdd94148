package game

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/digitaldeck/war-server-go/internal/config"
	"github.com/digitaldeck/war-server-go/internal/deck"
	"github.com/digitaldeck/war-server-go/internal/hardware"
)

// Game is a concrete card game built on the Engine. CreateHands deals the
// deck and binds physical cards; Start runs the play loop to completion and
// returns the winning player index.
type Game interface {
	CreateHands(ctx context.Context) error
	Start(ctx context.Context) (int, error)
}

// Saver is implemented by games that can persist their state. A game without
// the capability simply does not implement the interface.
type Saver interface {
	Save(name string) error
}

// Loader is implemented by games that can restore a saved state.
type Loader interface {
	Load(name string) error
}

// Updater is implemented by games that keep a running score beyond the
// win/lose outcome.
type Updater interface {
	Update() error
}

// Engine carries the state and bookkeeping shared by every card game: the
// deck, the per-player hands, the shared graveyard, and the hardware
// adapters for tag reading and display output.
type Engine struct {
	name      string
	id        string
	deck      *deck.Deck
	hands     map[int]*Hand
	graveyard []deck.Card
	players   int
	reqTags   int

	reader hardware.TagReader
	rcfg   config.ReaderConfig

	display hardware.Display
	logger  *zap.Logger
}

// NewEngine creates the shared engine state for a game with the given number
// of players. The reader configuration carries the per-player tag quota and
// the bounded retry policy for hardware reads.
func NewEngine(name string, d *deck.Deck, players int, rcfg config.ReaderConfig, reader hardware.TagReader, display hardware.Display, logger *zap.Logger) *Engine {
	id := uuid.NewString()
	return &Engine{
		name:    name,
		id:      id,
		deck:    d,
		hands:   make(map[int]*Hand, players),
		players: players,
		reqTags: rcfg.TagsPerPlayer,
		reader:  reader,
		rcfg:    rcfg,
		display: display,
		logger:  logger.With(zap.String("game", name), zap.String("game_id", id)),
	}
}

// Name returns the game name.
func (e *Engine) Name() string {
	return e.name
}

// ID returns the unique identifier of this game instance.
func (e *Engine) ID() string {
	return e.id
}

// Deck returns the deck owned by this game.
func (e *Engine) Deck() *deck.Deck {
	return e.deck
}

// Hand returns the hand for the given player index, or nil before the deal.
func (e *Engine) Hand(player int) *Hand {
	return e.hands[player]
}

// Player resolves a bound tag identifier to a player index.
func (e *Engine) Player(tag string) (int, error) {
	for player := 0; player < e.players; player++ {
		if h, ok := e.hands[player]; ok && h.Bound(tag) {
			return player, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrPlayerNotFound, tag)
}

// IsTurn reports whether the player holding tag may play now.
func (e *Engine) IsTurn(tag string) (bool, error) {
	player, err := e.Player(tag)
	if err != nil {
		return false, err
	}
	return e.hands[player].Turn(), nil
}

// Registered reports whether every hand has at least one bound tag.
func (e *Engine) Registered() bool {
	if len(e.hands) != e.players {
		return false
	}
	for _, h := range e.hands {
		if len(h.tags) == 0 {
			return false
		}
	}
	return true
}

// Discard moves cards to the shared graveyard, permanently out of
// circulation. Used by game variants that remove cards from play.
func (e *Engine) Discard(cards ...deck.Card) {
	e.graveyard = append(e.graveyard, cards...)
}

// Graveyard returns a copy of the discard pile.
func (e *Engine) Graveyard() []deck.Card {
	out := make([]deck.Card, len(e.graveyard))
	copy(out, e.graveyard)
	return out
}

// ReadTag reads one tag identifier from the hardware, retrying transient
// failures within the configured budget.
func (e *Engine) ReadTag(ctx context.Context) (string, error) {
	var tag string
	err := hardware.Retry(ctx, e.rcfg.ReadAttempts, e.rcfg.ReadBackoff, func() error {
		var readErr error
		tag, readErr = e.reader.ReadTag(ctx)
		return readErr
	})
	if err != nil {
		return "", fmt.Errorf("reading tag: %w", err)
	}
	return tag, nil
}

// Show writes text to the display. Display output is fire-and-forget: a
// failed write is logged and otherwise ignored.
func (e *Engine) Show(ctx context.Context, text string) {
	if err := e.display.Show(ctx, text); err != nil {
		e.logger.Warn("display write failed", zap.String("text", text), zap.Error(err))
	}
}

// Logger returns the engine's logger.
func (e *Engine) Logger() *zap.Logger {
	return e.logger
}

// Run drives one game to completion: deal and bind hands, then play until a
// winner emerges.
func Run(ctx context.Context, g Game) (int, error) {
	if err := g.CreateHands(ctx); err != nil {
		return 0, fmt.Errorf("dealing cards: %w", err)
	}
	return g.Start(ctx)
}
