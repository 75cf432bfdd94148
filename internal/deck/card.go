package deck

import "fmt"

// Rank symbols for a standard deck, in ascending order. Face cards sit above
// the numerals and Ace is the highest rank.
const (
	RankTwo   = "2"
	RankThree = "3"
	RankFour  = "4"
	RankFive  = "5"
	RankSix   = "6"
	RankSeven = "7"
	RankEight = "8"
	RankNine  = "9"
	RankTen   = "10"
	RankJack  = "J"
	RankQueen = "Q"
	RankKing  = "K"
	RankAce   = "A"
)

// StandardRanks lists the thirteen standard ranks in ascending order.
var StandardRanks = []string{
	RankTwo, RankThree, RankFour, RankFive, RankSix, RankSeven,
	RankEight, RankNine, RankTen, RankJack, RankQueen, RankKing, RankAce,
}

var rankOrder = map[string]int{
	RankTwo:   2,
	RankThree: 3,
	RankFour:  4,
	RankFive:  5,
	RankSix:   6,
	RankSeven: 7,
	RankEight: 8,
	RankNine:  9,
	RankTen:   10,
	RankJack:  11,
	RankQueen: 12,
	RankKing:  13,
	RankAce:   14,
}

// Card is a single playing card. Cards are plain values and are never
// mutated after construction.
type Card struct {
	Rank  string
	Suit  string
	Color string
}

// String renders the card in the display payload format, e.g. "Red A Hearts".
func (c Card) String() string {
	return fmt.Sprintf("%s %s %s", c.Color, c.Rank, c.Suit)
}

// RankValue returns the ordinal position of a rank in the total order
// 2 < 3 < ... < 10 < J < Q < K < A. Unknown ranks compare below every
// standard rank.
func RankValue(rank string) int {
	return rankOrder[rank]
}

// Compare orders two cards by rank alone. It returns a negative value when
// a ranks below b, a positive value when a ranks above b, and zero on equal
// rank. Suit never breaks a tie.
func Compare(a, b Card) int {
	return RankValue(a.Rank) - RankValue(b.Rank)
}
