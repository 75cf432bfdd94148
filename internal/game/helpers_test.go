package game

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/digitaldeck/war-server-go/internal/config"
	"github.com/digitaldeck/war-server-go/internal/deck"
)

// queueReader serves a fixed sequence of tags and fails once exhausted.
type queueReader struct {
	tags []string
	next int
}

func (r *queueReader) ReadTag(_ context.Context) (string, error) {
	if r.next >= len(r.tags) {
		return "", errors.New("queue exhausted")
	}
	tag := r.tags[r.next]
	r.next++
	return tag, nil
}

// failingReader simulates an offline RFID reader.
type failingReader struct {
	calls int
}

func (r *failingReader) ReadTag(_ context.Context) (string, error) {
	r.calls++
	return "", errors.New("reader offline")
}

// recordDisplay captures every payload shown.
type recordDisplay struct {
	texts []string
}

func (d *recordDisplay) Show(_ context.Context, text string) error {
	d.texts = append(d.texts, text)
	return nil
}

// errorDisplay always fails, for exercising the fire-and-forget contract.
type errorDisplay struct{}

func (errorDisplay) Show(context.Context, string) error {
	return errors.New("display bridge gone")
}

func standardDeck(t *testing.T) *deck.Deck {
	t.Helper()
	d, err := deck.New(&deck.Spec{
		Name: "standard",
		Size: 52,
		Suits: []deck.SuitGroup{
			{Color: "Red", Suits: []string{"Hearts", "Diamonds"}},
			{Color: "Black", Suits: []string{"Spades", "Clubs"}},
		},
		Ranks: deck.StandardRanks,
	})
	require.NoError(t, err)
	return d
}

func testReaderConfig() config.ReaderConfig {
	return config.ReaderConfig{
		TagsPerPlayer: 1,
		ReadAttempts:  2,
		ReadBackoff:   time.Millisecond,
	}
}

func card(rank, suit, color string) deck.Card {
	return deck.Card{Rank: rank, Suit: suit, Color: color}
}

func nopLogger() *zap.Logger {
	return zap.NewNop()
}

func testRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
