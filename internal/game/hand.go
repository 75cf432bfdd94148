package game

import (
	"context"
	"fmt"

	"github.com/digitaldeck/war-server-go/internal/deck"
)

// Hand holds one player's cards. The active queue and the won pile are
// separate collections from construction and never alias each other.
// Active is a FIFO queue: cards are drawn from the front and returned to
// the back.
type Hand struct {
	active []deck.Card
	won    []deck.Card
	tags   []string
	turn   bool
}

// NewHand creates a hand owning a copy of cards as its active queue.
func NewHand(cards []deck.Card) *Hand {
	active := make([]deck.Card, len(cards))
	copy(active, cards)
	return &Hand{active: active}
}

// ActiveCount returns the number of cards available to play.
func (h *Hand) ActiveCount() int {
	return len(h.active)
}

// WonCount returns the number of cards credited toward victory.
func (h *Hand) WonCount() int {
	return len(h.won)
}

// Active returns a copy of the active queue in play order.
func (h *Hand) Active() []deck.Card {
	out := make([]deck.Card, len(h.active))
	copy(out, h.active)
	return out
}

// Won returns a copy of the won pile.
func (h *Hand) Won() []deck.Card {
	out := make([]deck.Card, len(h.won))
	copy(out, h.won)
	return out
}

// Turn reports whether this hand's play is currently accepted. The flag is
// owned by the engine's turn-switch operation.
func (h *Hand) Turn() bool {
	return h.turn
}

// Place removes card from the active queue and returns it, modeling the
// player physically placing that card into the round. A card that is not in
// the active queue yields ErrNotFound.
func (h *Hand) Place(card deck.Card) (deck.Card, error) {
	for i, c := range h.active {
		if c == card {
			h.active = append(h.active[:i], h.active[i+1:]...)
			return card, nil
		}
	}
	return deck.Card{}, fmt.Errorf("%w: %s", ErrNotFound, card)
}

// Draw places the card at the front of the active queue.
func (h *Hand) Draw() (deck.Card, error) {
	if len(h.active) == 0 {
		return deck.Card{}, fmt.Errorf("%w: hand is empty", ErrNotFound)
	}
	return h.Place(h.active[0])
}

// Collect appends cards to the won pile.
func (h *Hand) Collect(cards ...deck.Card) {
	h.won = append(h.won, cards...)
}

// Return puts a card at the back of the active queue.
func (h *Hand) Return(card deck.Card) {
	h.active = append(h.active, card)
}

// Tags returns the physical identifiers bound to this hand.
func (h *Hand) Tags() []string {
	out := make([]string, len(h.tags))
	copy(out, h.tags)
	return out
}

// Bound reports whether tag is registered to this hand.
func (h *Hand) Bound(tag string) bool {
	for _, t := range h.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Register binds physical card identifiers to the hand, reading via read
// until required distinct tags are bound. Registration is one-time: a tag
// already bound to the hand is ignored. The read function carries the
// bounded retry policy, so a persistently failing reader surfaces its
// timeout error here instead of looping forever.
func (h *Hand) Register(ctx context.Context, read func(context.Context) (string, error), required int) error {
	for len(h.tags) < required {
		tag, err := read(ctx)
		if err != nil {
			return fmt.Errorf("registering tag %d of %d: %w", len(h.tags)+1, required, err)
		}
		if h.Bound(tag) {
			continue
		}
		h.tags = append(h.tags, tag)
	}
	return nil
}
