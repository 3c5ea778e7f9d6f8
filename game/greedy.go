package game

import "fmt"

// DefaultThreshold is the probability above which a card is treated as held.
const DefaultThreshold = 0.75

// Greedy picks a move for the seat holding view, using only the belief and the
// table. It is deterministic and keeps no state, so the same call serves live
// play and simulated opponents.
func Greedy(view *BeliefState, trick *TrickState, threshold float64) Card {
	seat, ok := view.Viewer()
	if !ok {
		panic("greedy: belief has no viewer")
	}
	hand := view.Hand(seat)
	if hand.Empty() {
		panic(fmt.Sprintf("greedy: %s has no cards", seat))
	}

	switch trick.Position() {
	case 0:
		return greedyLead(view, seat, hand, threshold)
	case 1:
		target := trick.LeadCard()
		if reply, ok := predictReply(view, seat.Left(), target, threshold); ok && reply.Beats(target) {
			target = reply
		}
		return greedyFollow(hand, trick.LeadCard(), target)
	default:
		_, best := trick.Winning()
		return greedyFollow(hand, trick.LeadCard(), best)
	}
}

// greedyLead plays the top card of the first suit, in suit order, that no
// opponent is believed to beat or trump.
func greedyLead(view *BeliefState, seat Seat, hand Hand, threshold float64) Card {
	for _, s := range Suits {
		top, ok := hand.OfSuit(s).Highest()
		if !ok {
			continue
		}
		if unbeaten(view, top, seat.Left().Location(), threshold) &&
			unbeaten(view, top, seat.Right().Location(), threshold) {
			return top
		}
	}
	return lowestDiscard(hand)
}

func unbeaten(view *BeliefState, c Card, opponent Location, threshold float64) bool {
	if view.HasHigher(c, opponent, threshold) {
		return false
	}
	if c.Suit() == Trump {
		return true
	}
	_, trumps := view.Highest(Trump, opponent, threshold)
	return !trumps
}

// predictReply guesses the card the last seat answers with: its highest card
// of the lead suit, or its highest trump when it seems void in a non-trump lead.
func predictReply(view *BeliefState, third Seat, lead Card, threshold float64) (Card, bool) {
	if c, ok := view.Highest(lead.Suit(), third.Location(), threshold); ok {
		return c, true
	}
	if lead.Suit() == Trump {
		return NoCard, false
	}
	return view.Highest(Trump, third.Location(), threshold)
}

// greedyFollow takes the trick as cheaply as possible, otherwise sheds the
// lowest card it may.
func greedyFollow(hand Hand, lead, target Card) Card {
	follow := hand.OfSuit(lead.Suit())
	legal := hand
	if !follow.Empty() {
		legal = follow
	}
	for _, c := range legal.Cards() {
		if c.Beats(target) {
			return c
		}
	}
	if !follow.Empty() {
		c, _ := follow.Lowest()
		return c
	}
	return lowestDiscard(hand)
}

// lowestDiscard is the lowest ranked non-trump card, or the lowest trump when
// only trumps are left.
func lowestDiscard(hand Hand) Card {
	if c, ok := (hand &^ suitMask(Trump)).LowestRanked(); ok {
		return c
	}
	c, _ := hand.Lowest()
	return c
}

// Discard picks n cards for the leader to put out before the first trick,
// repeatedly shedding the lowest discard.
func Discard(hand Hand, n int) []Card {
	if hand.Len() < n {
		panic(fmt.Sprintf("discard: %d cards requested from %s", n, hand))
	}
	out := make([]Card, 0, n)
	for len(out) < n {
		c := lowestDiscard(hand)
		out = append(out, c)
		hand = hand.Without(c)
	}
	return out
}
