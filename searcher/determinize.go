package searcher

import (
	"fmt"

	"whist/game"

	"golang.org/x/exp/rand"
)

// position is a fully determined world: the table plus every seat's belief
// about it. Copying a position branches it.
type position struct {
	trick   game.TrickState
	beliefs [game.NumSeats]game.BeliefState
}

// determinize samples the hidden cards from view. The agent keeps its own
// belief, each opponent sees the public history plus its sampled hand.
func determinize(view, history game.BeliefState, trick game.TrickState, rng *rand.Rand) position {
	agent, ok := view.Viewer()
	if !ok {
		panic("search: belief has no viewer")
	}
	deal := view.Sample(rng)

	p := position{trick: trick}
	for s := game.Seat0; s < game.NumSeats; s++ {
		if s == agent {
			p.beliefs[s] = view
			continue
		}
		p.beliefs[s] = game.Derive(s, history, deal)
	}
	return p
}

// play makes every seat observe the card, then puts it on the table.
func (p *position) play(seat game.Seat, c game.Card) {
	lead := p.trick.LeadCard()
	for i := range p.beliefs {
		p.beliefs[i].Observe(c, seat, lead)
	}
	if _, _, err := p.trick.Play(seat, c); err != nil {
		panic(fmt.Sprintf("search: %v", err))
	}
}

// advance lets the opponents play greedily until agent is to act or the
// round is over.
func (p *position) advance(agent game.Seat, threshold float64) {
	for !p.trick.Over() && p.trick.Turn != agent {
		seat := p.trick.Turn
		p.play(seat, game.Greedy(&p.beliefs[seat], &p.trick, threshold))
	}
}

func (p *position) won(agent game.Seat, drawWins bool) bool {
	mine := p.trick.Scores[agent]
	for s, score := range p.trick.Scores {
		if game.Seat(s) == agent {
			continue
		}
		if mine < score || (mine == score && !drawWins) {
			return false
		}
	}
	return true
}
