package searcher

import (
	"context"
	"testing"
	"time"

	"whist/game"

	"github.com/stretchr/testify/require"
)

// hiddenEndgame is the endgame of a round seen by seat2: every suit was
// followed, seat0 led KH and seat1 followed QH. seat2 holds AS and 2D; the
// other seats hold one card each among 2H 3H 2C 3C 4C 5C, the rest were
// discarded. AS is the last trump.
func hiddenEndgame(t *testing.T) (view, history game.BeliefState, trick game.TrickState) {
	t.Helper()
	tricks := []string{
		"2S 3S 4S", "5S 6S 7S", "8S 9S 10S", "JS QS KS",
		"4H 5H 6H", "7H 8H 9H", "10H JH AH",
		"6C 7C 8C", "9C 10C JC", "QC KC AC",
		"3D 4D 5D", "6D 7D 8D", "9D 10D JD", "QD KD AD",
	}
	var hand []game.Card
	for _, played := range tricks {
		hand = append(hand, game.MustParseCards(played)[game.Seat2])
	}
	hand = append(hand, aceSpades, twoDiamonds)

	history = game.NewHistory()
	view = game.NewBelief(game.Seat2, history, hand)
	observe := func(c game.Card, seat game.Seat, lead game.Card) {
		history.Observe(c, seat, lead)
		view.Observe(c, seat, lead)
	}
	for _, played := range tricks {
		cards := game.MustParseCards(played)
		for s, c := range cards {
			observe(c, game.Seat(s), cards[0])
		}
	}

	trick = game.NewTrickState(game.Seat0)
	trick.Tricks = game.TricksPerRound - 2
	trick.Scores = [game.NumSeats]int{4, 4, 4}
	lead := game.NewCard(game.Hearts, 13)
	for _, c := range []game.Card{lead, game.NewCard(game.Hearts, 12)} {
		seat := trick.Turn
		observe(c, seat, trick.LeadCard())
		_, _, err := trick.Play(seat, c)
		require.NoError(t, err)
	}
	return view, history, trick
}

func TestNewMCTS(t *testing.T) {
	t.Run("panics without a search budget", func(t *testing.T) {
		require.Panics(t, func() {
			NewMCTS(1)
		}, "Should panic when neither episodes nor duration is set")
	})

	t.Run("applying options", func(t *testing.T) {
		m := NewMCTS(0, WithEpisodes(10), WithDeterminizations(3), WithBias(0.5), WithDrawWins(true))

		require.Equal(t, 1, m.goroutines, "Should run at least one goroutine")
		require.Equal(t, 10, m.episodes)
		require.Equal(t, 3, m.determinizations)
		require.Equal(t, 0.5, m.bias)
		require.True(t, m.drawWins)
		require.Equal(t, game.DefaultThreshold, m.threshold)
	})
}

func TestFindMove(t *testing.T) {
	t.Run("ruffing with the only trump", func(t *testing.T) {
		deal, trick := endgame(t)
		view := game.Reveal(game.Seat2, deal)
		m := NewMCTS(2, WithEpisodes(50), WithDeterminizations(4), WithSeed(1), WithMetrics())

		policy, metric := m.Simulate(context.Background(), view, view, trick)

		require.Equal(t, 1.0, policy[aceSpades].Ratio(), "AS should win every playout")
		require.Equal(t, 0.0, policy[twoDiamonds].Ratio(), "2D should never win")
		require.Equal(t, int64(4), metric.Determinizations)
		require.Equal(t, int64(200), metric.Episodes)
		require.Equal(t, 200, policy[aceSpades].Visits+policy[twoDiamonds].Visits)

		move, _ := m.FindMove(context.Background(), view, view, trick)
		require.Equal(t, aceSpades, move)
	})

	t.Run("ruffing with the only trump against hidden hands", func(t *testing.T) {
		view, history, trick := hiddenEndgame(t)
		hidden := game.NewCard(game.Clubs, 2)
		require.Greater(t, view.Chance(hidden, game.Seat0.Location()), 0.0)
		require.Less(t, view.Chance(hidden, game.Seat0.Location()), 1.0, "Opponent hands should be uncertain")
		m := NewMCTS(2, WithEpisodes(30), WithDeterminizations(6), WithSeed(4), WithMetrics())

		policy, metric := m.Simulate(context.Background(), view, history, trick)

		require.Equal(t, 1.0, policy[aceSpades].Ratio(), "AS should win every playout in every sampled deal")
		require.Equal(t, 0.0, policy[twoDiamonds].Ratio())
		require.Equal(t, int64(6), metric.Determinizations)

		move, _ := m.FindMove(context.Background(), view, history, trick)
		require.Equal(t, aceSpades, move)
	})

	t.Run("sharing the duration between determinizations", func(t *testing.T) {
		hand := game.MustParseCards("2D 3D 4D 5D 6D 7D 8D 9D 10D JD QD KD AD 2S 3S 4S")
		history := game.NewHistory()
		view := game.NewBelief(game.Seat1, history, hand)
		lead := game.NewCard(game.Hearts, 7)
		history.Observe(lead, game.Seat0, game.NoCard)
		view.Observe(lead, game.Seat0, game.NoCard)
		trick := game.NewTrickState(game.Seat0)
		_, _, err := trick.Play(game.Seat0, lead)
		require.NoError(t, err)
		m := NewMCTS(1, WithDuration(100*time.Millisecond), WithDeterminizations(4), WithSeed(6), WithMetrics())

		policy, metric := m.Simulate(context.Background(), view, history, trick)

		require.Equal(t, int64(4), metric.Determinizations, "Every determinization should be searched")
		require.GreaterOrEqual(t, metric.Episodes, int64(4), "Simulations should rotate over the trees")
		visits := 0
		for _, s := range policy {
			visits += s.Visits
		}
		require.EqualValues(t, metric.Episodes, visits)
	})

	t.Run("not modifying the caller's state", func(t *testing.T) {
		deal, trick := endgame(t)
		view := game.Reveal(game.Seat2, deal)
		beforeView, beforeTrick := view, trick
		m := NewMCTS(1, WithEpisodes(20), WithSeed(1))

		m.FindMove(context.Background(), view, view, trick)

		require.Equal(t, beforeView, view)
		require.Equal(t, beforeTrick, trick)
	})

	t.Run("falling back to greedy once the deadline passed", func(t *testing.T) {
		deal, trick := endgame(t)
		view := game.Reveal(game.Seat2, deal)
		m := NewMCTS(1, WithEpisodes(20), WithMetrics())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		move, metric := m.FindMove(ctx, view, view, trick)

		require.Equal(t, game.Greedy(&view, &trick, game.DefaultThreshold), move)
		require.True(t, metric.Fallback)
		require.Zero(t, metric.Episodes)
	})

	t.Run("playing a legal card at the start of a round", func(t *testing.T) {
		hand := game.MustParseCards("2H 5H 9H QH 3C 7C JC AC 4D 8D KD 2S 6S 10S KS AS")
		discards := game.MustParseCards("3H 4C 5D 7S")
		deal := game.DealHand(game.Seat0, hand)
		for _, c := range discards {
			deal[c] = game.Out
		}
		history := game.NewHistory()
		view := game.Derive(game.Seat0, history, deal)
		trick := game.NewTrickState(game.Seat0)
		m := NewMCTS(2, WithEpisodes(10), WithDeterminizations(2), WithSeed(3))

		move, _ := m.FindMove(context.Background(), view, history, trick)

		require.True(t, game.NewHand(hand...).Has(move), "%s should come from the hand", move)
	})

	t.Run("stopping at the duration", func(t *testing.T) {
		hand := game.MustParseCards("2D 3D 4D 5D 6D 7D 8D 9D 10D JD QD KD AD 2S 3S 4S")
		history := game.NewHistory()
		view := game.NewBelief(game.Seat1, history, hand)
		lead := game.NewCard(game.Hearts, 7)
		history.Observe(lead, game.Seat0, game.NoCard)
		view.Observe(lead, game.Seat0, game.NoCard)
		trick := game.NewTrickState(game.Seat0)
		_, _, err := trick.Play(game.Seat0, lead)
		require.NoError(t, err)
		m := NewMCTS(1, WithDuration(50*time.Millisecond), WithSeed(5))

		start := time.Now()
		move, _ := m.FindMove(context.Background(), view, history, trick)

		require.Less(t, time.Since(start), time.Second, "Search should respect its duration")
		require.True(t, game.NewHand(hand...).Has(move))
	})
}

func TestBestMove(t *testing.T) {
	t.Run("picking the best ratio", func(t *testing.T) {
		move, ok := bestMove(map[game.Card]Stats{
			twoDiamonds: {Wins: 3, Visits: 10},
			aceSpades:   {Wins: 6, Visits: 10},
		})
		require.True(t, ok)
		require.Equal(t, aceSpades, move)
	})

	t.Run("breaking ties by the lowest card", func(t *testing.T) {
		move, ok := bestMove(map[game.Card]Stats{
			aceSpades:   {Wins: 1, Visits: 1},
			twoDiamonds: {Wins: 2, Visits: 2},
		})
		require.True(t, ok)
		require.Equal(t, twoDiamonds, move)
	})

	t.Run("nothing visited", func(t *testing.T) {
		_, ok := bestMove(map[game.Card]Stats{aceSpades: {}})
		require.False(t, ok)
	})
}
