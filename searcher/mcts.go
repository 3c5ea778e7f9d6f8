package searcher

import (
	"context"
	"time"

	"whist/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

type Option func(mcts *MCTS)

// Stats are the simulations through one agent card at the root.
type Stats struct {
	Wins   int
	Visits int
}

func (s Stats) Ratio() float64 {
	if s.Visits == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Visits)
}

// MCTS searches a move by sampling determinizations of the agent's belief and
// growing an independent UCT tree over each. Statistics are summed per move
// across trees. An MCTS is not safe for concurrent FindMove calls.
type MCTS struct {
	goroutines       int
	duration         time.Duration
	episodes         int
	determinizations int
	bias             float64
	threshold        float64
	drawWins         bool
	rng              *rand.Rand
	metrics          MetricsCollector
}

func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

// WithEpisodes caps the simulations run on each determinization.
func WithEpisodes(episodes int) Option {
	return func(m *MCTS) {
		if episodes > 0 {
			m.episodes = episodes
		}
	}
}

func WithDeterminizations(determinizations int) Option {
	return func(m *MCTS) {
		if determinizations > 0 {
			m.determinizations = determinizations
		}
	}
}

func WithBias(bias float64) Option {
	return func(m *MCTS) {
		if bias >= 0 {
			m.bias = bias
		}
	}
}

// WithThreshold sets the confidence above which simulated opponents treat a
// card as held.
func WithThreshold(threshold float64) Option {
	return func(m *MCTS) {
		if threshold > 0 && threshold < 1 {
			m.threshold = threshold
		}
	}
}

// WithDrawWins counts a tie with the best opponent as a win.
func WithDrawWins(drawWins bool) Option {
	return func(m *MCTS) {
		m.drawWins = drawWins
	}
}

func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.rng = rand.New(rand.NewSource(seed))
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = NewMetricsCollector()
	}
}

func NewMCTS(goroutines int, options ...Option) *MCTS {
	m := &MCTS{ // Default values
		goroutines:       goroutines,
		determinizations: 1,
		bias:             DefaultBias,
		threshold:        game.DefaultThreshold,
		rng:              rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
		metrics:          NewNoMetricsCollector(),
	}
	if m.goroutines <= 0 {
		m.goroutines = 1
	}
	for _, option := range options {
		option(m)
	}
	if m.episodes <= 0 && m.duration <= 0 {
		panic("Must specify search episodes or duration")
	}
	return m
}

// Simulate searches the agent's move from view, the agent's belief, and
// history, the public belief, with the agent to act in trick. Neither input is
// modified.
func (m *MCTS) Simulate(ctx context.Context, view, history game.BeliefState, trick game.TrickState) (map[game.Card]Stats, MoveMetrics) {
	m.metrics.Start()
	policy := m.search(ctx, view, history, trick)
	return policy, m.metrics.Complete()
}

// FindMove returns the root card with the best win ratio, or the greedy move
// when no simulation finished in time.
func (m *MCTS) FindMove(ctx context.Context, view, history game.BeliefState, trick game.TrickState) (game.Card, MoveMetrics) {
	start := time.Now()
	m.metrics.Start()
	policy := m.search(ctx, view, history, trick)

	move, ok := bestMove(policy)
	if !ok {
		m.metrics.UsedFallback()
		move = game.Greedy(&view, &trick, m.threshold)
		log.Warn().Msgf("no simulation finished in %v, playing greedy %s", time.Since(start), move)
	}
	metric := m.metrics.Complete()

	log.Debug().
		Int64("episodes", metric.Episodes).
		Int64("aborted", metric.Aborted).
		Int64("determinizations", metric.Determinizations).
		Dur("duration", time.Since(start)).
		Bool("fallback", !ok).
		Stringer("move", move).
		Msg("search finished")
	return move, metric
}

func (m *MCTS) search(ctx context.Context, view, history game.BeliefState, trick game.TrickState) map[game.Card]Stats {
	agent, ok := view.Viewer()
	if !ok {
		panic("search: belief has no viewer")
	}
	if trick.Turn != agent {
		panic("search: " + agent.String() + " is not to act")
	}

	if m.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.duration)
		defer cancel()
	}

	seeds := make([]uint64, m.determinizations)
	for i := range seeds {
		seeds[i] = m.rng.Uint64()
	}
	results := make([]map[game.Card]Stats, m.determinizations)

	// Each worker owns every workers-th determinization and runs their
	// simulations in turn until the episodes or the deadline run out.
	workers := min(m.goroutines, m.determinizations)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			var trees []*tree
			var owned []int
			for i := w; i < len(seeds); i += workers {
				if ctx.Err() != nil {
					break
				}
				rng := rand.New(rand.NewSource(seeds[i]))
				trees = append(trees, newTree(agent, determinize(view, history, trick, rng), m.bias, m.threshold, m.drawWins))
				owned = append(owned, i)
				m.metrics.AddDeterminization()
			}
			searchAll(ctx, trees, m.episodes, m.metrics)
			for k, t := range trees {
				results[owned[k]] = t.rootStats()
			}
			return nil
		})
	}
	_ = g.Wait()

	policy := make(map[game.Card]Stats)
	for _, stats := range results {
		for move, s := range stats {
			total := policy[move]
			total.Wins += s.Wins
			total.Visits += s.Visits
			policy[move] = total
		}
	}
	return policy
}

// bestMove picks the visited card with the highest win ratio, lowest card
// first on ties.
func bestMove(policy map[game.Card]Stats) (game.Card, bool) {
	best, bestRatio := game.NoCard, -1.0
	for c := game.Card(0); c < game.DeckSize; c++ {
		s, ok := policy[c]
		if !ok || s.Visits == 0 {
			continue
		}
		if ratio := s.Ratio(); ratio > bestRatio {
			best, bestRatio = c, ratio
		}
	}
	return best, best != game.NoCard
}
