package engine

import (
	"errors"
	"fmt"
	"time"

	"whist/game"
	"whist/player"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

var ErrIllegalMove = errors.New("illegal move")

// Round is the outcome of one round.
type Round struct {
	ID     uuid.UUID
	Seats  [game.NumSeats]string // agent names, leader first
	Scores map[string]int
}

// Winners lists the agents sharing the top score.
func (r Round) Winners() []string {
	best := 0
	var winners []string
	for _, name := range r.Seats {
		switch score := r.Scores[name]; {
		case winners == nil || score > best:
			best, winners = score, []string{name}
		case score == best:
			winners = append(winners, name)
		}
	}
	return winners
}

// Engine deals and referees rounds between three local agents seated in
// the given order, the first one leading.
type Engine struct {
	agents [game.NumSeats]player.Agent
	names  [game.NumSeats]string
	rng    *rand.Rand
	budget time.Duration
	hands  [game.NumSeats]game.Hand
	trick  game.TrickState
}

func LocalEngine(seed uint64, budget time.Duration, agents ...player.Agent) *Engine {
	if len(agents) != game.NumSeats {
		panic("number of agents does not match number of seats")
	}
	e := &Engine{rng: rand.New(rand.NewSource(seed)), budget: budget}
	for s, a := range agents {
		e.agents[s] = a
		e.names[s] = a.SayName()
		for _, name := range e.names[:s] {
			if name == e.names[s] {
				panic(fmt.Sprintf("agent name %q is taken", name))
			}
		}
	}
	return e
}

// Run plays one full round.
func (e *Engine) Run() Round {
	round := Round{ID: uuid.New(), Seats: e.names}
	log.Info().Str("round", round.ID.String()).Msgf("%s leads", e.names[game.Seat0])

	for s := game.Seat0; s < game.NumSeats; s++ {
		e.agents[s].Setup(e.names[s.Left()], e.names[s.Right()])
	}
	e.deal()
	e.discard()

	e.trick = game.NewTrickState(game.Seat0)
	for !e.trick.Over() {
		e.play()
	}

	round.Scores = e.scoreboard()
	log.Info().Str("round", round.ID.String()).Msgf("scores %v, won by %v", round.Scores, round.Winners())
	return round
}

func (e *Engine) deal() {
	deck := e.rng.Perm(game.DeckSize)
	sizes := [game.NumSeats]int{game.DealSize + game.Discards, game.DealSize, game.DealSize}
	for s, next := 0, 0; s < game.NumSeats; s++ {
		cards := make([]game.Card, sizes[s])
		for i := range cards {
			cards[i] = game.Card(deck[next])
			next++
		}
		e.hands[s] = game.NewHand(cards...)
		e.agents[s].SeeHand(cards, game.Seat(s))
	}
}

func (e *Engine) discard() {
	hand := e.hands[game.Seat0]
	cards := e.agents[game.Seat0].Discard()
	if err := validateDiscard(hand, cards); err != nil {
		log.Warn().Msgf("%s: %v, discarding the lowest cards", e.names[game.Seat0], err)
		cards = game.Discard(hand, game.Discards)
		if r, ok := e.agents[game.Seat0].(player.DiscardReplacer); ok {
			r.ReplaceDiscard(cards)
		} else {
			log.Warn().Msgf("%s cannot adopt the replaced discard, its belief is stale", e.names[game.Seat0])
		}
	}
	for _, c := range cards {
		hand = hand.Without(c)
	}
	e.hands[game.Seat0] = hand
}

// play asks the seat to act for a card and shows it to everyone.
func (e *Engine) play() {
	seat := e.trick.Turn
	hand := e.hands[seat]

	start := time.Now()
	c := e.agents[seat].PlayCard()
	if elapsed := time.Since(start); e.budget > 0 && elapsed > e.budget {
		log.Warn().Msgf("%s took %v to play, budget is %v", e.names[seat], elapsed, e.budget)
	}
	if err := validatePlay(hand, &e.trick, c); err != nil {
		view := game.Reveal(seat, e.current())
		c = game.Greedy(&view, &e.trick, game.DefaultThreshold)
		log.Warn().Msgf("%s: %v, playing %s instead", e.names[seat], err, c)
	}

	resolved, winner, err := e.trick.Play(seat, c)
	if err != nil {
		panic(err)
	}
	e.hands[seat] = hand.Without(c)
	for _, a := range e.agents {
		a.SeeCard(c, e.names[seat])
	}
	if !resolved {
		return
	}

	log.Debug().Msgf("trick %d won by %s", e.trick.Tricks, e.names[winner])
	scores := e.scoreboard()
	for _, a := range e.agents {
		a.SeeResult(e.names[winner])
		a.SeeScore(scores)
	}
}

// current is the deal as it stands, with played and discarded cards out.
func (e *Engine) current() game.Deal {
	var d game.Deal
	for i := range d {
		d[i] = game.Out
	}
	for s, hand := range e.hands {
		for _, c := range hand.Cards() {
			d[c] = game.Seat(s).Location()
		}
	}
	return d
}

func (e *Engine) scoreboard() map[string]int {
	scores := make(map[string]int, game.NumSeats)
	for s, name := range e.names {
		scores[name] = e.trick.Scores[s]
	}
	return scores
}

func validateDiscard(hand game.Hand, cards []game.Card) error {
	if len(cards) != game.Discards {
		return fmt.Errorf("%w: %d cards discarded, want %d", ErrIllegalMove, len(cards), game.Discards)
	}
	var seen game.Hand
	for _, c := range cards {
		if !hand.Has(c) || seen.Has(c) {
			return fmt.Errorf("%w: cannot discard %s", ErrIllegalMove, c)
		}
		seen = seen.With(c)
	}
	return nil
}

func validatePlay(hand game.Hand, trick *game.TrickState, c game.Card) error {
	if !hand.Has(c) {
		return fmt.Errorf("%w: %s is not in hand", ErrIllegalMove, c)
	}
	if !trick.LegalMoves(hand).Has(c) {
		return fmt.Errorf("%w: %s does not follow %s", ErrIllegalMove, c, trick.LeadCard().Suit())
	}
	return nil
}
