package game

import (
	"errors"
	"fmt"
	"strings"
)

type Suit uint8

const (
	Hearts Suit = iota
	Clubs
	Diamonds
	Spades
)

const NumSuits = 4

// Suits lists every suit in index order.
var Suits = [NumSuits]Suit{Hearts, Clubs, Diamonds, Spades}

var suitLetters = [NumSuits]byte{'H', 'C', 'D', 'S'}

func (s Suit) String() string {
	if int(s) >= NumSuits {
		return fmt.Sprintf("Suit(%d)", uint8(s))
	}
	return string(suitLetters[s])
}

const (
	SuitSize = 13
	DeckSize = NumSuits * SuitSize
	MinRank  = 2
	MaxRank  = MinRank + SuitSize - 1 // Ace
)

// Card is a dense index into the deck: suit*SuitSize + (rank-MinRank).
// Cards of one suit are contiguous and ordered by rank.
type Card uint8

// NoCard marks an empty table slot or a missing lead.
const NoCard Card = 0xFF

var ErrParseCard = errors.New("invalid card")

func NewCard(s Suit, rank int) Card {
	if int(s) >= NumSuits || rank < MinRank || rank > MaxRank {
		panic(fmt.Sprintf("card out of range: suit %d rank %d", s, rank))
	}
	return Card(int(s)*SuitSize + rank - MinRank)
}

func (c Card) Suit() Suit { return Suit(int(c) / SuitSize) }

func (c Card) Rank() int { return int(c)%SuitSize + MinRank }

func (c Card) Valid() bool { return int(c) < DeckSize }

var rankNames = [SuitSize]string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}

func (c Card) String() string {
	if !c.Valid() {
		return "--"
	}
	return rankNames[c.Rank()-MinRank] + c.Suit().String()
}

// ParseCard reads the notation produced by String, e.g. "7H", "10S", "QS".
func ParseCard(s string) (Card, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return NoCard, fmt.Errorf("%w: %q", ErrParseCard, s)
	}
	suit := -1
	for i, l := range suitLetters {
		if s[len(s)-1] == l {
			suit = i
		}
	}
	if suit < 0 {
		return NoCard, fmt.Errorf("%w: unknown suit in %q", ErrParseCard, s)
	}
	name := s[:len(s)-1]
	if name == "T" {
		name = "10"
	}
	for i, r := range rankNames {
		if r == name {
			return NewCard(Suit(suit), i+MinRank), nil
		}
	}
	return NoCard, fmt.Errorf("%w: unknown rank in %q", ErrParseCard, s)
}

// MustParseCards parses a space separated list of cards and panics on error.
func MustParseCards(s string) []Card {
	fields := strings.Fields(s)
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			panic(err)
		}
		cards = append(cards, c)
	}
	return cards
}

// SuitRange returns the lowest and highest card of a suit.
func SuitRange(s Suit) (first, last Card) {
	first = Card(int(s) * SuitSize)
	return first, first + SuitSize - 1
}

// Beats reports whether c takes the trick from the currently winning card.
func (c Card) Beats(winning Card) bool {
	if c.Suit() == winning.Suit() {
		return c.Rank() > winning.Rank()
	}
	return c.Suit() == Trump
}

// Hand is a set of cards, one bit per card index.
type Hand uint64

func NewHand(cards ...Card) Hand {
	var h Hand
	for _, c := range cards {
		h = h.With(c)
	}
	return h
}

func (h Hand) Has(c Card) bool { return c.Valid() && h&(1<<c) != 0 }

func (h Hand) With(c Card) Hand { return h | 1<<c }

func (h Hand) Without(c Card) Hand { return h &^ (1 << c) }

func (h Hand) Len() int {
	n := 0
	for ; h != 0; h &= h - 1 {
		n++
	}
	return n
}

func (h Hand) Empty() bool { return h == 0 }

func suitMask(s Suit) Hand {
	first, _ := SuitRange(s)
	return Hand(1<<SuitSize-1) << first
}

// OfSuit keeps only the cards of suit s.
func (h Hand) OfSuit(s Suit) Hand { return h & suitMask(s) }

// Cards lists the hand in index order.
func (h Hand) Cards() []Card {
	cards := make([]Card, 0, h.Len())
	for c := Card(0); c < DeckSize; c++ {
		if h.Has(c) {
			cards = append(cards, c)
		}
	}
	return cards
}

// Lowest returns the card with the smallest index.
func (h Hand) Lowest() (Card, bool) {
	for c := Card(0); c < DeckSize; c++ {
		if h.Has(c) {
			return c, true
		}
	}
	return NoCard, false
}

// Highest returns the card with the largest index.
func (h Hand) Highest() (Card, bool) {
	for c := Card(DeckSize - 1); ; c-- {
		if h.Has(c) {
			return c, true
		}
		if c == 0 {
			return NoCard, false
		}
	}
}

// LowestRanked returns the lowest ranked card, breaking ties by suit order.
func (h Hand) LowestRanked() (Card, bool) {
	best := NoCard
	for _, c := range h.Cards() {
		if best == NoCard || c.Rank() < best.Rank() {
			best = c
		}
	}
	return best, best != NoCard
}

func (h Hand) String() string {
	names := make([]string, 0, h.Len())
	for _, c := range h.Cards() {
		names = append(names, c.String())
	}
	return "[" + strings.Join(names, " ") + "]"
}
