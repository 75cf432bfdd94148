package game

import "errors"

var (
	// ErrNotFound is returned when a card is not present in a hand's
	// active collection. It indicates state corruption and is treated as
	// fatal by the play loop.
	ErrNotFound = errors.New("card not in active hand")

	// ErrPlayerNotFound is returned when a tag identifier is not bound to
	// any hand. It is recoverable; the play loop re-prompts.
	ErrPlayerNotFound = errors.New("no player bound to tag")
)
