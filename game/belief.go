package game

import (
	"fmt"
	"math/bits"

	"golang.org/x/exp/rand"
)

const (
	anyMask uint8 = 1<<NumLocations - 1
	tbc     uint8 = 1 << NumLocations // set until the card's location is confirmed
	masks         = 1 << NumLocations
)

func bit(l Location) uint8 { return 1 << l }

func locationOf(mask uint8) Location { return Location(bits.TrailingZeros8(mask)) }

// BeliefState is one viewer's knowledge of where every card is. Each card keeps
// the set of locations it may occupy; a card with one candidate is confirmed.
// Per location, unknowns counts the unconfirmed cards still held there.
//
// The probability that an unconfirmed card is at a candidate location is that
// location's unknown count over the sum across its candidates.
//
// BeliefState is a flat value type: assignment clones it.
type BeliefState struct {
	viewer   Location // NoLocation for the public history
	valid    [DeckSize]uint8
	unknowns [NumLocations]int
}

// NewHistory returns the public belief at the start of a round: any card can
// be anywhere, every seat holds DealSize unknown cards and Discards lie out.
func NewHistory() BeliefState {
	b := BeliefState{viewer: NoLocation}
	for i := range b.valid {
		b.valid[i] = anyMask | tbc
	}
	for s := Seat0; s < NumSeats; s++ {
		b.unknowns[s] = DealSize
	}
	b.unknowns[Out] = Discards
	return b
}

// NewBelief initializes the belief of the seat that was dealt hand.
func NewBelief(viewer Seat, history BeliefState, hand []Card) BeliefState {
	return Derive(viewer, history, DealHand(viewer, hand))
}

// Derive incorporates what viewer knows from deal into the public history.
// Cards assigned to the viewer in deal are confirmed in its hand, the viewer
// is ruled out for every other card, and the leader, who made the discards,
// also resolves the Out pile. Locations left with a single candidate are
// confirmed.
func Derive(viewer Seat, history BeliefState, deal Deal) BeliefState {
	b := history
	v := viewer.Location()
	b.viewer = v
	b.unknowns[v] = 0
	leader := viewer == Seat0
	if leader {
		b.unknowns[Out] = 0
	}

	for i := range b.valid {
		switch {
		case deal[i] == v:
			b.valid[i] = bit(v)
		case b.valid[i]&bit(v) != 0:
			b.valid[i] &^= bit(v)
		}
		if leader {
			switch {
			case deal[i] == Out:
				b.valid[i] = bit(Out)
			case b.valid[i]&bit(Out) != 0:
				b.valid[i] &^= bit(Out)
			}
		}
		b.confirm(Card(i))
	}
	return b
}

// Reveal returns the belief of a viewer that can see the whole deal.
func Reveal(viewer Seat, deal Deal) BeliefState {
	b := BeliefState{viewer: viewer.Location()}
	for i, l := range deal {
		if l >= NumLocations {
			panic(fmt.Sprintf("belief invariant: %s has no location in a revealed deal", Card(i)))
		}
		b.valid[i] = bit(l)
	}
	return b
}

// Viewer returns the seat holding this belief; ok is false for the history.
func (b *BeliefState) Viewer() (Seat, bool) { return b.viewer.Seat() }

// Unknown returns how many unconfirmed cards are held at l.
func (b *BeliefState) Unknown(l Location) int { return b.unknowns[l] }

// Confirmed returns the card's location when it is certain.
func (b *BeliefState) Confirmed(c Card) (Location, bool) {
	v := b.valid[c]
	if v&tbc != 0 {
		return NoLocation, false
	}
	return locationOf(v), true
}

// Candidates lists the locations c may occupy, in location order.
func (b *BeliefState) Candidates(c Card) []Location {
	var locs []Location
	for l := Location(0); l < NumLocations; l++ {
		if b.valid[c]&bit(l) != 0 {
			locs = append(locs, l)
		}
	}
	return locs
}

// Hand returns the cards confirmed in seat's hand.
func (b *BeliefState) Hand(s Seat) Hand {
	var h Hand
	want := bit(s.Location())
	for i, v := range b.valid {
		if v == want {
			h = h.With(Card(i))
		}
	}
	return h
}

// Chance returns the probability that c is at l.
func (b *BeliefState) Chance(c Card, l Location) float64 {
	if l >= NumLocations {
		return 0
	}
	v := b.valid[c]
	if v&bit(l) == 0 {
		return 0
	}
	if v&tbc == 0 {
		return 1
	}

	pool := 0
	for k := Location(0); k < NumLocations; k++ {
		if v&bit(k) != 0 {
			pool += b.unknowns[k]
		}
	}
	if pool == 0 {
		panic(fmt.Sprintf("belief invariant: %s has candidates %v but no unknown cards left in them", c, b.Candidates(c)))
	}
	return float64(b.unknowns[l]) / float64(pool)
}

// Observe records seat playing c while lead opened the trick (NoCard when c
// is the lead itself or a discard). A seat that fails to follow a non-trump
// lead holds no more cards of that suit.
func (b *BeliefState) Observe(c Card, seat Seat, lead Card) {
	l := seat.Location()
	v := b.valid[c]
	switch {
	case v == bit(Out):
		panic(fmt.Sprintf("belief invariant: %s played by %s is already out", c, seat))
	case v&tbc == 0:
		if v != bit(l) {
			panic(fmt.Sprintf("belief invariant: %s played by %s is confirmed at %s", c, seat, locationOf(v)))
		}
	default:
		if v&bit(l) == 0 {
			panic(fmt.Sprintf("belief invariant: %s played by %s, which was ruled out", c, seat))
		}
		b.take(l)
	}
	b.valid[c] = bit(Out)

	if lead == NoCard || c.Suit() == lead.Suit() || lead.Suit() == Trump {
		return
	}
	first, last := SuitRange(lead.Suit())
	for j := first; j <= last; j++ {
		if b.valid[j]&tbc != 0 && b.valid[j]&bit(l) != 0 {
			b.valid[j] &^= bit(l)
			b.confirm(j)
		}
	}
}

// confirm collapses an unconfirmed card with a single candidate left.
func (b *BeliefState) confirm(c Card) {
	v := b.valid[c]
	if v&anyMask == 0 {
		panic(fmt.Sprintf("belief invariant: %s has no candidate location", c))
	}
	if v&tbc == 0 {
		return
	}
	mask := v & anyMask
	if mask&(mask-1) != 0 {
		return
	}
	b.valid[c] = mask
	b.take(locationOf(mask))
}

func (b *BeliefState) take(l Location) {
	if b.unknowns[l] <= 0 {
		panic(fmt.Sprintf("belief invariant: no unknown cards left at %s", l))
	}
	b.unknowns[l]--
}

// Highest returns the highest card of suit s believed at l with probability
// above threshold.
func (b *BeliefState) Highest(s Suit, l Location, threshold float64) (Card, bool) {
	first, last := SuitRange(s)
	for c := last; ; c-- {
		if b.Chance(c, l) > threshold {
			return c, true
		}
		if c == first {
			return NoCard, false
		}
	}
}

// Lowest returns the lowest card of suit s believed at l with probability
// above threshold.
func (b *BeliefState) Lowest(s Suit, l Location, threshold float64) (Card, bool) {
	first, last := SuitRange(s)
	for c := first; c <= last; c++ {
		if b.Chance(c, l) > threshold {
			return c, true
		}
	}
	return NoCard, false
}

// HasHigher reports whether l is believed to hold a card of c's suit ranked
// above c.
func (b *BeliefState) HasHigher(c Card, l Location, threshold float64) bool {
	high, ok := b.Highest(c.Suit(), l, threshold)
	return ok && high > c
}

// Sample draws one full deal consistent with the belief. Confirmed cards keep
// their location. Every other card, in deck order, is drawn among its
// candidates in proportion to the unknown cards still unassigned there, so
// later cards are drawn without replacement. Candidates that would leave the
// remaining cards without a consistent assignment are skipped.
//
// Sample does not modify the belief.
func (b *BeliefState) Sample(rng *rand.Rand) Deal {
	var deal Deal
	pool := b.unknowns
	var pending [masks]int
	for _, v := range b.valid {
		if v&tbc != 0 {
			pending[v&anyMask]++
		}
	}

	for i, v := range b.valid {
		if v&tbc == 0 {
			deal[i] = locationOf(v)
			continue
		}
		mask := v & anyMask
		pending[mask]--

		var weights [NumLocations]int
		total := 0
		for l := Location(0); l < NumLocations; l++ {
			if mask&bit(l) == 0 || pool[l] == 0 {
				continue
			}
			pool[l]--
			if feasible(&pool, &pending) {
				weights[l] = pool[l] + 1
				total += weights[l]
			}
			pool[l]++
		}
		if total == 0 {
			panic(fmt.Sprintf("belief invariant: no consistent location for %s among %v", Card(i), b.Candidates(Card(i))))
		}

		draw := rng.Float64() * float64(total)
		chosen, cumulative := NoLocation, 0
		for l := Location(0); l < NumLocations; l++ {
			if weights[l] == 0 {
				continue
			}
			chosen = l
			cumulative += weights[l]
			if draw < float64(cumulative) {
				break
			}
		}
		deal[i] = chosen
		pool[chosen]--
	}
	return deal
}

// feasible checks Hall's condition: every set of locations has room for the
// pending cards that can only go there.
func feasible(pool *[NumLocations]int, pending *[masks]int) bool {
	for set := 1; set < masks; set++ {
		room := 0
		for l := 0; l < NumLocations; l++ {
			if set&(1<<l) != 0 {
				room += pool[l]
			}
		}
		need := 0
		for mask := 1; mask < masks; mask++ {
			if mask&^set == 0 {
				need += pending[mask]
			}
		}
		if need > room {
			return false
		}
	}
	return true
}
