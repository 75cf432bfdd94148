package game

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitaldeck/war-server-go/internal/deck"
	"github.com/digitaldeck/war-server-go/internal/hardware"
)

func newTestWar(t *testing.T, reader hardware.TagReader, seed int64) *War {
	t.Helper()
	return NewWar(standardDeck(t), testRNG(seed), testReaderConfig(), reader, &recordDisplay{}, nopLogger())
}

func TestCreateHands(t *testing.T) {
	reader := &queueReader{tags: []string{"tag-0", "tag-1"}}
	w := newTestWar(t, reader, 7)
	require.NoError(t, w.CreateHands(context.Background()))

	t.Run("even split", func(t *testing.T) {
		assert.Equal(t, 26, w.Hand(0).ActiveCount())
		assert.Equal(t, 26, w.Hand(1).ActiveCount())
		assert.Zero(t, w.Hand(0).WonCount())
		assert.Zero(t, w.Hand(1).WonCount())
	})

	t.Run("halves are disjoint and cover the deck", func(t *testing.T) {
		union := make(map[deck.Card]int)
		for _, c := range w.Hand(0).Active() {
			union[c]++
		}
		for _, c := range w.Hand(1).Active() {
			union[c]++
		}
		require.Len(t, union, 52)
		for c, n := range union {
			assert.Equal(t, 1, n, "card %s dealt more than once", c)
		}
	})

	t.Run("tags bound in seat order", func(t *testing.T) {
		assert.True(t, w.Registered())

		p, err := w.Player("tag-0")
		require.NoError(t, err)
		assert.Equal(t, 0, p)

		p, err = w.Player("tag-1")
		require.NoError(t, err)
		assert.Equal(t, 1, p)
	})

	t.Run("player 0 opens", func(t *testing.T) {
		assert.True(t, w.Hand(0).Turn())
		assert.False(t, w.Hand(1).Turn())
	})
}

func TestCreateHandsReaderTimeout(t *testing.T) {
	w := newTestWar(t, &failingReader{}, 7)
	err := w.CreateHands(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, hardware.ErrTimeout)
}

func TestSwitchTurns(t *testing.T) {
	reader := &queueReader{tags: []string{"tag-0", "tag-1"}}
	w := newTestWar(t, reader, 7)
	require.NoError(t, w.CreateHands(context.Background()))

	// Exactly one flag is true across any number of switches.
	for i := 0; i < 5; i++ {
		assert.NotEqual(t, w.Hand(0).Turn(), w.Hand(1).Turn())
		w.switchTurns()
	}
}

func TestAwaitPlay(t *testing.T) {
	t.Run("accepts the player whose turn it is", func(t *testing.T) {
		reader := &queueReader{tags: []string{"tag-0", "tag-1", "tag-0", "tag-1"}}
		w := newTestWar(t, reader, 7)
		require.NoError(t, w.CreateHands(context.Background()))

		front := w.Hand(0).Active()[0]
		player, played, err := w.awaitPlay(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, player)
		assert.Equal(t, front, played)
		assert.Equal(t, 25, w.Hand(0).ActiveCount())

		// Turn swapped to player 1 even though the round is unresolved.
		assert.False(t, w.Hand(0).Turn())
		assert.True(t, w.Hand(1).Turn())

		player, _, err = w.awaitPlay(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, player)
	})

	t.Run("rejects out-of-turn plays and re-prompts", func(t *testing.T) {
		// Player 1 presents first, but it is player 0's turn.
		reader := &queueReader{tags: []string{"tag-0", "tag-1", "tag-1", "tag-1", "tag-0"}}
		w := newTestWar(t, reader, 7)
		require.NoError(t, w.CreateHands(context.Background()))

		player, _, err := w.awaitPlay(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, player)
		assert.Equal(t, 26, w.Hand(1).ActiveCount(), "rejected plays must not cost a card")
	})

	t.Run("ignores unbound tags", func(t *testing.T) {
		reader := &queueReader{tags: []string{"tag-0", "tag-1", "ghost", "tag-0"}}
		w := newTestWar(t, reader, 7)
		require.NoError(t, w.CreateHands(context.Background()))

		player, _, err := w.awaitPlay(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, player)
	})

	t.Run("shows the played card", func(t *testing.T) {
		reader := &queueReader{tags: []string{"tag-0", "tag-1", "tag-0"}}
		display := &recordDisplay{}
		w := NewWar(standardDeck(t), testRNG(7), testReaderConfig(), reader, display, nopLogger())
		require.NoError(t, w.CreateHands(context.Background()))

		_, played, err := w.awaitPlay(context.Background())
		require.NoError(t, err)
		require.Len(t, display.texts, 1)
		assert.Equal(t, played.String(), display.texts[0])
	})
}

func TestCheckWinner(t *testing.T) {
	w := newTestWar(t, &queueReader{}, 7)

	t.Run("higher rank wins", func(t *testing.T) {
		king := card(deck.RankKing, "Hearts", "Red")
		five := card(deck.RankFive, "Spades", "Black")
		assert.Equal(t, 0, w.checkWinner(king, five))
		assert.Equal(t, 1, w.checkWinner(five, king))
	})

	t.Run("equal rank is a tie regardless of suit", func(t *testing.T) {
		a1 := card(deck.RankAce, "Hearts", "Red")
		a2 := card(deck.RankAce, "Spades", "Black")
		assert.Equal(t, tie, w.checkWinner(a1, a2))
		assert.Equal(t, tie, w.checkWinner(a2, a1))
	})

	t.Run("commutative under swapping hands", func(t *testing.T) {
		for _, r0 := range deck.StandardRanks {
			for _, r1 := range deck.StandardRanks {
				c0 := card(r0, "Hearts", "Red")
				c1 := card(r1, "Spades", "Black")
				forward := w.checkWinner(c0, c1)
				reversed := w.checkWinner(c1, c0)
				switch forward {
				case tie:
					assert.Equal(t, tie, reversed)
				case 0:
					assert.Equal(t, 1, reversed)
				default:
					assert.Equal(t, 0, reversed)
				}
			}
		}
	})
}

func TestDistribute(t *testing.T) {
	king := card(deck.RankKing, "Hearts", "Red")
	five := card(deck.RankFive, "Spades", "Black")

	t.Run("winner keeps both cards and both return to circulation", func(t *testing.T) {
		w := newTestWar(t, &queueReader{}, 7)
		w.hands[0] = NewHand(nil)
		w.hands[1] = NewHand(nil)

		w.distribute(0, king, five)

		assert.Equal(t, []deck.Card{king, five}, w.Hand(0).Won())
		assert.Equal(t, []deck.Card{king}, w.Hand(0).Active())
		assert.Equal(t, []deck.Card{five}, w.Hand(1).Active())
		assert.Zero(t, w.Hand(1).WonCount())
	})

	t.Run("tie credits nobody", func(t *testing.T) {
		a1 := card(deck.RankAce, "Hearts", "Red")
		a2 := card(deck.RankAce, "Spades", "Black")
		w := newTestWar(t, &queueReader{}, 7)
		w.hands[0] = NewHand(nil)
		w.hands[1] = NewHand(nil)

		w.distribute(tie, a1, a2)

		assert.Zero(t, w.Hand(0).WonCount())
		assert.Zero(t, w.Hand(1).WonCount())
		assert.Equal(t, []deck.Card{a1}, w.Hand(0).Active())
		assert.Equal(t, []deck.Card{a2}, w.Hand(1).Active())
	})

	t.Run("returned cards join the back of the queue", func(t *testing.T) {
		held0 := card(deck.RankTwo, "Hearts", "Red")
		held1 := card(deck.RankThree, "Clubs", "Black")
		w := newTestWar(t, &queueReader{}, 7)
		w.hands[0] = NewHand([]deck.Card{held0})
		w.hands[1] = NewHand([]deck.Card{held1})

		w.distribute(1, king, five)

		assert.Equal(t, []deck.Card{held0, king}, w.Hand(0).Active())
		assert.Equal(t, []deck.Card{held1, five}, w.Hand(1).Active())
		assert.Equal(t, []deck.Card{king, five}, w.Hand(1).Won())
	})
}

func TestResolveWar(t *testing.T) {
	ace0 := card(deck.RankAce, "Hearts", "Red")
	ace1 := card(deck.RankAce, "Spades", "Black")

	t.Run("single escalation decides the pile", func(t *testing.T) {
		down0 := card(deck.RankFive, "Hearts", "Red")
		up0 := card(deck.RankKing, "Diamonds", "Red")
		down1 := card(deck.RankFive, "Spades", "Black")
		up1 := card(deck.RankQueen, "Clubs", "Black")

		w := newTestWar(t, &queueReader{}, 7)
		w.hands[0] = NewHand([]deck.Card{down0, up0})
		w.hands[1] = NewHand([]deck.Card{down1, up1})

		require.NoError(t, w.resolveWar(context.Background(), ace0, ace1))

		// Player 0's king takes the whole six-card pile.
		assert.ElementsMatch(t,
			[]deck.Card{ace0, down0, up0, ace1, down1, up1},
			w.Hand(0).Won(),
		)
		assert.Zero(t, w.Hand(1).WonCount())

		// Every wagered card returns to its owner's queue.
		assert.ElementsMatch(t, []deck.Card{ace0, down0, up0}, w.Hand(0).Active())
		assert.ElementsMatch(t, []deck.Card{ace1, down1, up1}, w.Hand(1).Active())
	})

	t.Run("repeated ties keep escalating", func(t *testing.T) {
		w := newTestWar(t, &queueReader{}, 7)
		w.hands[0] = NewHand([]deck.Card{
			card(deck.RankTwo, "Hearts", "Red"),
			card(deck.RankNine, "Hearts", "Red"), // first face-up: ties
			card(deck.RankThree, "Hearts", "Red"),
			card(deck.RankKing, "Hearts", "Red"), // second face-up: wins
		})
		w.hands[1] = NewHand([]deck.Card{
			card(deck.RankTwo, "Spades", "Black"),
			card(deck.RankNine, "Spades", "Black"),
			card(deck.RankThree, "Spades", "Black"),
			card(deck.RankFour, "Spades", "Black"),
		})

		require.NoError(t, w.resolveWar(context.Background(), ace0, ace1))

		// Ten cards total: two originals plus four wagered per hand.
		assert.Equal(t, 10, w.Hand(0).WonCount())
		assert.Zero(t, w.Hand(1).WonCount())
		assert.Equal(t, 5, w.Hand(0).ActiveCount())
		assert.Equal(t, 5, w.Hand(1).ActiveCount())
	})

	t.Run("exhausted hand loses the war automatically", func(t *testing.T) {
		w := newTestWar(t, &queueReader{}, 7)
		w.hands[0] = NewHand([]deck.Card{card(deck.RankTwo, "Hearts", "Red")})
		w.hands[1] = NewHand([]deck.Card{
			card(deck.RankTwo, "Spades", "Black"),
			card(deck.RankThree, "Spades", "Black"),
		})

		require.NoError(t, w.resolveWar(context.Background(), ace0, ace1))

		// Player 1 collects the original pair without wagering.
		assert.ElementsMatch(t, []deck.Card{ace0, ace1}, w.Hand(1).Won())
		assert.Zero(t, w.Hand(0).WonCount())
		assert.Equal(t, 2, w.Hand(0).ActiveCount())
		assert.Equal(t, 3, w.Hand(1).ActiveCount())
	})

	t.Run("void war returns cards with no credit", func(t *testing.T) {
		w := newTestWar(t, &queueReader{}, 7)
		w.hands[0] = NewHand(nil)
		w.hands[1] = NewHand([]deck.Card{card(deck.RankTwo, "Spades", "Black")})

		require.NoError(t, w.resolveWar(context.Background(), ace0, ace1))

		assert.Zero(t, w.Hand(0).WonCount())
		assert.Zero(t, w.Hand(1).WonCount())
		assert.Equal(t, []deck.Card{ace0}, w.Hand(0).Active())
		assert.Equal(t, 2, w.Hand(1).ActiveCount())
	})
}

func TestStartRequiresRegistration(t *testing.T) {
	w := newTestWar(t, &queueReader{}, 7)
	_, err := w.Start(context.Background())
	assert.Error(t, err)
}

func TestFullGameTerminates(t *testing.T) {
	for _, seed := range []int64{1, 2, 3} {
		seed := seed
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			reader := hardware.NewSimReader(2, 1)
			w := newTestWar(t, reader, seed)

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			winner, err := Run(ctx, w)
			require.NoError(t, err)
			require.Contains(t, []int{0, 1}, winner)

			loser := 1 - winner
			assert.GreaterOrEqual(t, w.Hand(winner).WonCount(), 52)
			assert.Less(t, w.Hand(loser).WonCount(), 52)

			// Active circulation keeps its dealt size between rounds.
			assert.Equal(t, 26, w.Hand(0).ActiveCount())
			assert.Equal(t, 26, w.Hand(1).ActiveCount())

			// Exactly one turn flag set after the final play.
			assert.NotEqual(t, w.Hand(0).Turn(), w.Hand(1).Turn())
		})
	}
}
