package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// tableAfter opens a trick at seat0 and plays the given cards in turn.
func tableAfter(t *testing.T, cards string) TrickState {
	t.Helper()
	trick := NewTrickState(Seat0)
	for _, c := range MustParseCards(cards) {
		_, _, err := trick.Play(trick.Turn, c)
		require.NoError(t, err)
	}
	return trick
}

func greedyAt(t *testing.T, seat Seat, hands map[Seat]string, table string) Card {
	t.Helper()
	view := Reveal(seat, dealOf(hands))
	trick := tableAfter(t, table)
	return Greedy(&view, &trick, DefaultThreshold)
}

func TestGreedyLead(t *testing.T) {
	t.Run("leading a card nobody can beat", func(t *testing.T) {
		got := greedyAt(t, Seat0, map[Seat]string{
			Seat0: "AH 2C",
			Seat1: "3H 4D",
			Seat2: "5H 6D",
		}, "")
		require.Equal(t, NewCard(Hearts, 14), got)
	})

	t.Run("avoiding suits an opponent can trump or beat", func(t *testing.T) {
		got := greedyAt(t, Seat0, map[Seat]string{
			Seat0: "AH 2C",
			Seat1: "3S 4D",
			Seat2: "5C 6D",
		}, "")
		require.Equal(t, NewCard(Clubs, 2), got, "Should shed the lowest non-trump")
	})

	t.Run("leading the top trump when nobody beats it", func(t *testing.T) {
		got := greedyAt(t, Seat0, map[Seat]string{
			Seat0: "2H KS",
			Seat1: "3H QS",
			Seat2: "5H 6D",
		}, "")
		require.Equal(t, NewCard(Spades, 13), got)
	})

	t.Run("ignoring unlikely holdings", func(t *testing.T) {
		history := NewHistory()
		view := NewBelief(Seat1, history, MustParseCards("QH 2C"))
		trick := NewTrickState(Seat1)
		require.Equal(t, NewCard(Hearts, 12), Greedy(&view, &trick, DefaultThreshold),
			"No opponent card passes the threshold at the start of a round")
	})
}

func TestGreedySecond(t *testing.T) {
	t.Run("beating the predicted reply cheaply", func(t *testing.T) {
		got := greedyAt(t, Seat1, map[Seat]string{
			Seat1: "JH KH 2D",
			Seat2: "QH 3C",
		}, "10H")
		require.Equal(t, NewCard(Hearts, 13), got, "JH would lose to QH")
	})

	t.Run("following low when the trick is lost", func(t *testing.T) {
		got := greedyAt(t, Seat1, map[Seat]string{
			Seat1: "3H 9H 2S",
			Seat2: "AH",
		}, "10H")
		require.Equal(t, NewCard(Hearts, 3), got)
	})

	t.Run("trumping when void", func(t *testing.T) {
		got := greedyAt(t, Seat1, map[Seat]string{
			Seat1: "2S 3D",
			Seat2: "4C",
		}, "10H")
		require.Equal(t, NewCard(Spades, 2), got)
	})

	t.Run("expecting the last seat to trump when void", func(t *testing.T) {
		got := greedyAt(t, Seat1, map[Seat]string{
			Seat1: "2S 9S 3D",
			Seat2: "5S 4C",
		}, "10H")
		require.Equal(t, NewCard(Spades, 9), got, "2S would lose to 5S")
	})
}

func TestGreedyThird(t *testing.T) {
	t.Run("beating the table with the lowest lead suit card", func(t *testing.T) {
		got := greedyAt(t, Seat2, map[Seat]string{Seat2: "QH AH 2S"}, "10H JH")
		require.Equal(t, NewCard(Hearts, 12), got)
	})

	t.Run("following low under a trump", func(t *testing.T) {
		got := greedyAt(t, Seat2, map[Seat]string{Seat2: "3H QH 2D"}, "10H 5S")
		require.Equal(t, NewCard(Hearts, 3), got)
	})

	t.Run("overtrumping when void", func(t *testing.T) {
		got := greedyAt(t, Seat2, map[Seat]string{Seat2: "4S 9S 2D"}, "10H 5S")
		require.Equal(t, NewCard(Spades, 9), got)
	})

	t.Run("discarding when the table cannot be beaten", func(t *testing.T) {
		got := greedyAt(t, Seat2, map[Seat]string{Seat2: "4S 3C 2D"}, "10H 9S")
		require.Equal(t, NewCard(Diamonds, 2), got)
	})

	t.Run("staying pure", func(t *testing.T) {
		view := Reveal(Seat2, dealOf(map[Seat]string{Seat2: "4S 9S 2D"}))
		trick := tableAfter(t, "10H 5S")
		before, beforeTrick := view, trick

		first := Greedy(&view, &trick, DefaultThreshold)
		second := Greedy(&view, &trick, DefaultThreshold)

		require.Equal(t, first, second, "Same inputs should give the same move")
		require.Equal(t, before, view, "Greedy should not change the belief")
		require.Equal(t, beforeTrick, trick, "Greedy should not change the trick")
	})
}

func TestDiscard(t *testing.T) {
	t.Run("shedding the lowest non-trumps", func(t *testing.T) {
		hand := NewHand(MustParseCards("2S 3S 2H 5C 9D KH")...)
		require.Equal(t, MustParseCards("2H 5C 9D KH"), Discard(hand, 4))
	})

	t.Run("falling back to low trumps", func(t *testing.T) {
		hand := NewHand(MustParseCards("2H 3S 4S 5S 6S")...)
		require.Equal(t, MustParseCards("2H 3S 4S"), Discard(hand, 3))
	})

	t.Run("panics when the hand is too small", func(t *testing.T) {
		require.Panics(t, func() {
			Discard(NewHand(MustParseCards("2H")...), 4)
		})
	})
}
