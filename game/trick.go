package game

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfTurn  = errors.New("seat played out of turn")
	ErrCardPlayed = errors.New("card already on the table")
)

// TrickState is the public state of a round: the trick in progress and the
// running score. It is a flat value type, copy it to branch a simulation.
type TrickState struct {
	Lead   Seat           // seat that opened the current trick
	Turn   Seat           // seat expected to play next
	Table  [NumSeats]Card // cards played this trick, indexed by seat
	Played int            // cards on the table
	Scores [NumSeats]int  // running score per seat
	Tricks int            // completed tricks this round
}

// NewTrickState opens a round led by leader. The leader starts on a heavier
// penalty than the other seats.
func NewTrickState(leader Seat) TrickState {
	t := TrickState{Lead: leader, Turn: leader}
	for s := range t.Table {
		t.Table[s] = NoCard
		t.Scores[s] = FollowerPenalty
	}
	t.Scores[leader] = LeaderPenalty
	return t
}

// LeadCard returns the first card of the trick, or NoCard before anyone played.
func (t *TrickState) LeadCard() Card {
	if t.Played == 0 {
		return NoCard
	}
	return t.Table[t.Lead]
}

// Winning returns the seat and card currently taking the trick.
func (t *TrickState) Winning() (Seat, Card) {
	best, seat := NoCard, t.Lead
	for i, s := 0, t.Lead; i < t.Played; i, s = i+1, s.Left() {
		c := t.Table[s]
		if best == NoCard || c.Beats(best) {
			best, seat = c, s
		}
	}
	return seat, best
}

// Position is how many cards were played before the seat to act, 0 for the lead.
func (t *TrickState) Position() int { return t.Played }

// Over reports whether every trick of the round has been played.
func (t *TrickState) Over() bool { return t.Tricks >= TricksPerRound }

// Play puts seat's card on the table and advances the turn. When the third
// card lands the trick resolves: the winner scores a point, the table is
// cleared and the winner leads the next trick.
func (t *TrickState) Play(seat Seat, c Card) (resolved bool, winner Seat, err error) {
	if seat != t.Turn {
		return false, 0, fmt.Errorf("%w: %s played %s, expected %s", ErrOutOfTurn, seat, c, t.Turn)
	}
	for _, played := range t.Table {
		if played == c {
			return false, 0, fmt.Errorf("%w: %s", ErrCardPlayed, c)
		}
	}

	t.Table[seat] = c
	t.Played++
	t.Turn = seat.Left()
	if t.Played < NumSeats {
		return false, 0, nil
	}

	winner, _ = t.Winning()
	t.Scores[winner]++
	t.Tricks++
	for s := range t.Table {
		t.Table[s] = NoCard
	}
	t.Played = 0
	t.Lead, t.Turn = winner, winner
	return true, winner, nil
}

// LegalMoves returns the cards of hand that may be played now: the lead suit
// when the seat holds it, otherwise anything.
func (t *TrickState) LegalMoves(hand Hand) Hand {
	lead := t.LeadCard()
	if lead == NoCard {
		return hand
	}
	if follow := hand.OfSuit(lead.Suit()); !follow.Empty() {
		return follow
	}
	return hand
}
