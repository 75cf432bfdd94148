package game

import (
	"context"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/digitaldeck/war-server-go/internal/config"
	"github.com/digitaldeck/war-server-go/internal/deck"
	"github.com/digitaldeck/war-server-go/internal/hardware"
)

// warPlayers is fixed: War is a two-player game.
const warPlayers = 2

// tie is the distinguished round result signaling equal ranks (a war).
const tie = -1

// War implements the War card game on top of the Engine.
//
// Round cards are credited to the round winner's won pile and every played
// card also returns to the back of its owner's active queue, so each hand's
// active circulation keeps its dealt size while won piles grow toward the
// full deck size. This mirrors the physical table mechanic where the kept
// pile is a score ledger next to the always-cycling stacks.
type War struct {
	*Engine
	rng *rand.Rand
}

// NewWar creates a two-player War game over the given deck.
func NewWar(d *deck.Deck, rng *rand.Rand, rcfg config.ReaderConfig, reader hardware.TagReader, display hardware.Display, logger *zap.Logger) *War {
	return &War{
		Engine: NewEngine("War", d, warPlayers, rcfg, reader, display, logger),
		rng:    rng,
	}
}

// CreateHands shuffles the deck, splits it into two equal contiguous halves
// (first half to player 0), binds the required physical tags to each hand,
// and gives player 0 the first turn.
func (w *War) CreateHands(ctx context.Context) error {
	w.logger.Info("creating hands and distributing cards")

	w.deck.Shuffle(w.rng)

	half := w.deck.Size() / warPlayers
	w.hands[0] = NewHand(w.deck.Cards[:half])
	w.hands[1] = NewHand(w.deck.Cards[half:])

	for player := 0; player < warPlayers; player++ {
		if err := w.hands[player].Register(ctx, w.ReadTag, w.reqTags); err != nil {
			return fmt.Errorf("player %d: %w", player, err)
		}
		w.logger.Info("player registered",
			zap.Int("player", player),
			zap.Strings("tags", w.hands[player].Tags()),
		)
	}

	w.hands[0].turn = true
	w.hands[1].turn = false

	w.logger.Info("all players registered and ready")
	return nil
}

// switchTurns flips both turn flags. Because exactly one flag is true going
// in, exactly one is true coming out.
func (w *War) switchTurns() {
	for player := 0; player < warPlayers; player++ {
		w.hands[player].turn = !w.hands[player].turn
	}
}

// awaitPlay blocks until the player whose turn it is presents a card, then
// plays the front card of that player's active queue, shows it on the
// display, and swaps the turn to the other player. Tags bound to no hand and
// out-of-turn plays are rejected and re-prompted.
func (w *War) awaitPlay(ctx context.Context) (int, deck.Card, error) {
	for {
		tag, err := w.ReadTag(ctx)
		if err != nil {
			return 0, deck.Card{}, err
		}

		player, err := w.Player(tag)
		if err != nil {
			w.logger.Warn("unknown tag, try again", zap.String("tag", tag))
			continue
		}
		if !w.hands[player].Turn() {
			w.logger.Info("it's not your turn", zap.Int("player", player))
			continue
		}

		card, err := w.hands[player].Draw()
		if err != nil {
			return 0, deck.Card{}, fmt.Errorf("player %d has no card to play: %w", player, err)
		}

		w.logger.Info("card played", zap.Int("player", player), zap.Stringer("card", card))
		w.Show(ctx, card.String())
		w.switchTurns()

		return player, card, nil
	}
}

// checkWinner resolves one round by comparing player 0's card against
// player 1's card. Higher rank wins; equal rank returns tie. Suit never
// breaks a tie.
func (w *War) checkWinner(card0, card1 deck.Card) int {
	switch cmp := deck.Compare(card0, card1); {
	case cmp > 0:
		return 0
	case cmp < 0:
		return 1
	default:
		return tie
	}
}

// distribute settles a round: a clear winner collects both played cards into
// the won pile, and each card returns to the back of its owner's active
// queue regardless of outcome.
func (w *War) distribute(winner int, card0, card1 deck.Card) {
	if winner != tie {
		w.hands[winner].Collect(card0, card1)
	}
	w.hands[0].Return(card0)
	w.hands[1].Return(card1)
}

// resolveWar runs the escalation after a tied round. Each hand wagers one
// face-down and one face-up card; the face-up cards are compared and the
// wager repeats on every further tie. The eventual winner's won pile
// collects the entire accumulated pile, and every wagered card returns to
// its owner's active queue. A hand that cannot wager two cards loses the war
// immediately; if both hands are exhausted the war is void and no cards are
// credited.
func (w *War) resolveWar(ctx context.Context, card0, card1 deck.Card) error {
	pile0 := []deck.Card{card0}
	pile1 := []deck.Card{card1}
	winner := tie

	for winner == tie {
		exhausted0 := w.hands[0].ActiveCount() < 2
		exhausted1 := w.hands[1].ActiveCount() < 2
		if exhausted0 || exhausted1 {
			switch {
			case exhausted0 && exhausted1:
				w.logger.Warn("both hands exhausted mid-war, round is void")
			case exhausted0:
				winner = 1
				w.logger.Info("player 0 cannot wager, loses the war")
			default:
				winner = 0
				w.logger.Info("player 1 cannot wager, loses the war")
			}
			break
		}

		var faceUp [warPlayers]deck.Card
		for player := 0; player < warPlayers; player++ {
			faceDown, err := w.hands[player].Draw()
			if err != nil {
				return fmt.Errorf("player %d wagering face-down card: %w", player, err)
			}
			up, err := w.hands[player].Draw()
			if err != nil {
				return fmt.Errorf("player %d wagering face-up card: %w", player, err)
			}
			faceUp[player] = up

			if player == 0 {
				pile0 = append(pile0, faceDown, up)
			} else {
				pile1 = append(pile1, faceDown, up)
			}

			w.logger.Info("war wager", zap.Int("player", player), zap.Stringer("face_up", up))
			w.Show(ctx, up.String())
		}

		winner = w.checkWinner(faceUp[0], faceUp[1])
		if winner == tie {
			w.logger.Info("another tie, the war continues")
		}
	}

	if winner != tie {
		w.hands[winner].Collect(pile0...)
		w.hands[winner].Collect(pile1...)
		w.logger.Info("war won",
			zap.Int("player", winner),
			zap.Int("pile_size", len(pile0)+len(pile1)),
		)
	}

	for _, c := range pile0 {
		w.hands[0].Return(c)
	}
	for _, c := range pile1 {
		w.hands[1].Return(c)
	}
	return nil
}

// Start runs rounds until one hand's won pile holds the full deck size, then
// announces and returns the winner.
func (w *War) Start(ctx context.Context) (int, error) {
	if !w.Registered() {
		return 0, fmt.Errorf("%w: hands are not registered", ErrPlayerNotFound)
	}

	target := w.deck.Size()
	w.logger.Info("cards are dealt, let's start playing")

	for w.hands[0].WonCount() < target && w.hands[1].WonCount() < target {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		var played [warPlayers]deck.Card
		for i := 0; i < warPlayers; i++ {
			w.logger.Info("please place a card")
			player, card, err := w.awaitPlay(ctx)
			if err != nil {
				return 0, err
			}
			played[player] = card
		}

		winner := w.checkWinner(played[0], played[1])
		if winner == tie {
			w.logger.Info("we have a tie, war declared",
				zap.Stringer("card0", played[0]),
				zap.Stringer("card1", played[1]),
			)
			if err := w.resolveWar(ctx, played[0], played[1]); err != nil {
				return 0, err
			}
		} else {
			w.logger.Info("round won", zap.Int("player", winner))
			w.distribute(winner, played[0], played[1])
		}

		for player := 0; player < warPlayers; player++ {
			w.logger.Info("hand status",
				zap.Int("player", player),
				zap.Int("active", w.hands[player].ActiveCount()),
				zap.Int("won", w.hands[player].WonCount()),
			)
		}
	}

	for player := 0; player < warPlayers; player++ {
		if w.hands[player].WonCount() >= target {
			w.logger.Info("game over", zap.Int("winner", player))
			w.Show(ctx, fmt.Sprintf("Player %d wins!", player))
			return player, nil
		}
	}
	return 0, fmt.Errorf("game ended without a winner")
}
