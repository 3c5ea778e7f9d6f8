package game

import "fmt"

// Rules of Moss Side Whist.
const (
	Trump = Spades

	NumSeats       = 3
	DealSize       = 16 // cards held by every seat once the leader has discarded
	Discards       = 4  // extra cards dealt to the leader and discarded face down
	TricksPerRound = DealSize

	LeaderPenalty   = -8
	FollowerPenalty = -4
)

// Seat is a position at the table relative to the round's leader.
// Play proceeds left to right: Seat0, Seat1, Seat2.
type Seat uint8

const (
	Seat0 Seat = iota // leader
	Seat1             // left of the leader
	Seat2             // right of the leader
)

func (s Seat) Left() Seat { return (s + 1) % NumSeats }

func (s Seat) Right() Seat { return (s + 2) % NumSeats }

func (s Seat) Location() Location { return Location(s) }

func (s Seat) String() string { return fmt.Sprintf("seat%d", uint8(s)) }

// Location is where a card can be: in one of the seats' hands or Out
// (played or discarded).
type Location uint8

const (
	Out          Location = NumSeats
	NumLocations          = NumSeats + 1
	NoLocation   Location = 0xFF
)

// Seat converts a hand location back to a seat; ok is false for Out.
func (l Location) Seat() (Seat, bool) {
	if l < Out {
		return Seat(l), true
	}
	return 0, false
}

func (l Location) String() string {
	switch {
	case l == Out:
		return "out"
	case l < Out:
		return Seat(l).String()
	default:
		return "none"
	}
}

// Deal assigns a location to every card. Unassigned cards hold NoLocation.
type Deal [DeckSize]Location

func NewDeal() Deal {
	var d Deal
	for i := range d {
		d[i] = NoLocation
	}
	return d
}

// DealHand is a partial deal holding only the given seat's cards.
func DealHand(s Seat, cards []Card) Deal {
	d := NewDeal()
	for _, c := range cards {
		d[c] = s.Location()
	}
	return d
}

// Hand collects the cards dealt to location l.
func (d Deal) Hand(l Location) Hand {
	var h Hand
	for i, loc := range d {
		if loc == l {
			h = h.With(Card(i))
		}
	}
	return h
}
