package deck

import (
	"fmt"
	"math/rand"
)

// Deck is an ordered sequence of cards built from a Spec. Shuffling permutes
// the sequence in place; nothing ever adds, removes, or rewrites a card.
type Deck struct {
	Name  string
	Cards []Card
}

// New builds the deck declared by spec. The construction order is color
// group, then suit, then rank, matching the declaration order of the spec.
func New(spec *Spec) (*Deck, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}

	cards := make([]Card, 0, spec.Size)
	for _, group := range spec.Suits {
		for _, suit := range group.Suits {
			for _, rank := range spec.Ranks {
				cards = append(cards, Card{Rank: rank, Suit: suit, Color: group.Color})
			}
		}
	}

	if len(cards) != spec.Size {
		return nil, fmt.Errorf("%w: deck %q: built %d cards, declared %d",
			ErrConfiguration, spec.Name, len(cards), spec.Size)
	}

	return &Deck{Name: spec.Name, Cards: cards}, nil
}

// Size returns the number of cards in the deck.
func (d *Deck) Size() int {
	return len(d.Cards)
}

// Shuffle performs an unbiased in-place permutation of the deck using the
// supplied source of randomness.
func (d *Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.Cards), func(i, j int) {
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	})
}
