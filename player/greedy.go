package player

import "whist/game"

// GreedyPlayer plays the greedy policy on its own belief, without search.
type GreedyPlayer struct {
	tracker
	threshold float64
}

func NewGreedyPlayer(name string, threshold float64) *GreedyPlayer {
	return &GreedyPlayer{tracker: newTracker(name), threshold: threshold}
}

func (p *GreedyPlayer) PlayCard() game.Card {
	return game.Greedy(&p.view, &p.trick, p.threshold)
}
