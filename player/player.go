package player

import (
	"fmt"

	"whist/game"

	"github.com/rs/zerolog/log"
)

// Agent is how a harness drives a Moss Side Whist player through a round.
// Setup comes first, then SeeHand, Discard (acted on by the leader only),
// and for every card PlayCard on the seat to act followed by SeeCard on all
// seats. SeeResult and SeeScore close each trick.
type Agent interface {
	SayName() string
	Setup(left, right string)
	SeeHand(hand []game.Card, order game.Seat)
	Discard() []game.Card
	PlayCard() game.Card
	SeeCard(c game.Card, player string)
	SeeResult(winner string)
	SeeScore(scores map[string]int)
}

// DiscardReplacer is implemented by agents that can adopt the discard a
// harness made on their behalf after rejecting their own.
type DiscardReplacer interface {
	ReplaceDiscard(cards []game.Card)
}

// tracker follows a round from one seat: the seat's own belief, the public
// history and the trick engine. Only harness notifications change it.
type tracker struct {
	name    string
	left    string
	right   string
	names   [game.NumSeats]string // by seat, set per round
	seat    game.Seat
	dealt   []game.Card
	history game.BeliefState
	view    game.BeliefState
	trick   game.TrickState
	winner  game.Seat // winner of the last resolved trick
}

func newTracker(name string) tracker {
	return tracker{name: name}
}

func (t *tracker) SayName() string { return t.name }

// Setup records the names of the players seated after and before this one.
func (t *tracker) Setup(left, right string) {
	t.left, t.right = left, right
}

// SeeHand starts a round. The leader is dealt Discards extra cards.
func (t *tracker) SeeHand(hand []game.Card, order game.Seat) {
	t.seat = order
	t.dealt = append([]game.Card(nil), hand...)
	t.names[order] = t.name
	t.names[order.Left()] = t.left
	t.names[order.Right()] = t.right

	t.history = game.NewHistory()
	t.view = game.NewBelief(order, t.history, hand)
	t.trick = game.NewTrickState(game.Seat0)
	log.Debug().Str("player", t.name).Msgf("%s dealt %s", order, game.NewHand(hand...))
}

// Discard puts out the lowest cards when leading, and nothing otherwise.
func (t *tracker) Discard() []game.Card {
	if t.seat != game.Seat0 {
		return nil
	}
	cards := game.Discard(t.view.Hand(t.seat), game.Discards)
	for _, c := range cards {
		t.view.Observe(c, t.seat, game.NoCard)
	}
	return cards
}

// ReplaceDiscard rebuilds the leader's belief from its dealt hand with cards
// put out instead of its own discard.
func (t *tracker) ReplaceDiscard(cards []game.Card) {
	if t.seat != game.Seat0 {
		log.Warn().Str("player", t.name).Msgf("asked to replace a discard from %s", t.seat)
		return
	}
	t.view = game.NewBelief(t.seat, t.history, t.dealt)
	for _, c := range cards {
		t.view.Observe(c, t.seat, game.NoCard)
	}
	log.Warn().Str("player", t.name).Msgf("discard replaced by %v", cards)
}

func (t *tracker) seatOf(player string) (game.Seat, bool) {
	for s, name := range t.names {
		if name == player {
			return game.Seat(s), true
		}
	}
	return 0, false
}

// SeeCard advances the round by a card played by player, including this one.
func (t *tracker) SeeCard(c game.Card, player string) {
	seat, ok := t.seatOf(player)
	if !ok {
		log.Warn().Str("player", t.name).Msgf("card %s from unknown player %q", c, player)
		return
	}
	if err := t.check(c, seat); err != nil {
		log.Warn().Str("player", t.name).Msgf("ignoring card: %v", err)
		return
	}

	lead := t.trick.LeadCard()
	next := t.trick
	resolved, winner, err := next.Play(seat, c)
	if err != nil {
		log.Warn().Str("player", t.name).Msgf("ignoring card: %v", err)
		return
	}
	t.history.Observe(c, seat, lead)
	t.view.Observe(c, seat, lead)
	t.trick = next
	if resolved {
		t.winner = winner
	}
}

// check rejects cards this seat's belief cannot explain. Turn order is left
// to the trick engine.
func (t *tracker) check(c game.Card, seat game.Seat) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %d", game.ErrParseCard, c)
	}
	if t.view.Chance(c, seat.Location()) == 0 {
		return fmt.Errorf("%s cannot hold %s", t.names[seat], c)
	}
	return nil
}

func (t *tracker) SeeResult(winner string) {
	if t.names[t.winner] != winner {
		log.Warn().Str("player", t.name).Msgf("harness says %s won the trick, tracked %s", winner, t.names[t.winner])
	}
}

// SeeScore adopts the harness scoreboard where it disagrees with the tracked
// scores.
func (t *tracker) SeeScore(scores map[string]int) {
	for s, name := range t.names {
		score, ok := scores[name]
		if !ok || score == t.trick.Scores[s] {
			continue
		}
		log.Warn().Str("player", t.name).Msgf("%s scores %d, tracked %d", name, score, t.trick.Scores[s])
		t.trick.Scores[s] = score
	}
}

// legal returns the cards this seat may play now.
func (t *tracker) legal() game.Hand {
	return t.trick.LegalMoves(t.view.Hand(t.seat))
}
