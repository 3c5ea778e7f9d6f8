package player

import (
	"context"
	"time"

	"whist/game"
	"whist/searcher"

	"github.com/rs/zerolog/log"
)

// SearchPlayer picks its cards with an MCTS under a per-card time budget;
// a zero budget leaves the search to its episode cap.
type SearchPlayer struct {
	tracker
	mcts      *searcher.MCTS
	budget    time.Duration
	threshold float64
	moves     []searcher.MoveMetrics
}

func NewSearchPlayer(name string, mcts *searcher.MCTS, budget time.Duration, threshold float64) *SearchPlayer {
	return &SearchPlayer{
		tracker:   newTracker(name),
		mcts:      mcts,
		budget:    budget,
		threshold: threshold,
	}
}

func (p *SearchPlayer) PlayCard() game.Card {
	legal := p.legal()
	if legal.Len() == 1 {
		c, _ := legal.Lowest()
		return c
	}
	if p.trick.Turn != p.seat {
		log.Warn().Str("player", p.name).Msgf("asked to play on %s's turn", p.trick.Turn)
		return game.Greedy(&p.view, &p.trick, p.threshold)
	}

	ctx := context.Background()
	if p.budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.budget)
		defer cancel()
	}
	move, metric := p.mcts.FindMove(ctx, p.view, p.history, p.trick)
	p.moves = append(p.moves, metric)
	log.Debug().Str("player", p.name).Msgf("playing %s after %d episodes", move, metric.Episodes)
	return move
}

// Moves returns the metrics of every searched card so far.
func (p *SearchPlayer) Moves() []searcher.MoveMetrics {
	return append([]searcher.MoveMetrics(nil), p.moves...)
}
