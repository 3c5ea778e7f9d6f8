// Package experiments pits a search agent against greedy opponents in local
// tournaments and stores the outcome as CSV.
package experiments

import (
	"fmt"

	"whist/engine"
	"whist/meta"
	"whist/player"
	"whist/searcher"

	"github.com/rs/zerolog/log"
)

// Opponents are the names of the two greedy agents.
var Opponents = [2]string{"Greedy Left", "Greedy Right"}

// Result is everything a tournament produced.
type Result struct {
	Standings []engine.Standing
	Rounds    []engine.Round
	Moves     []MoveRecord
}

// NewSearchPlayer builds the search agent described by cfg.
func NewSearchPlayer(cfg meta.Config) *player.SearchPlayer {
	options := []searcher.Option{
		searcher.WithDeterminizations(cfg.Determinizations),
		searcher.WithBias(cfg.Bias),
		searcher.WithThreshold(cfg.Threshold),
		searcher.WithDrawWins(cfg.DrawWins),
		searcher.WithSeed(cfg.Seed),
		searcher.WithMetrics(),
	}
	if cfg.Episodes > 0 {
		options = append(options, searcher.WithEpisodes(cfg.Episodes))
	}
	if cfg.Budget > 0 {
		options = append(options, searcher.WithDuration(cfg.Budget))
	}
	mcts := searcher.NewMCTS(cfg.Goroutines, options...)
	return player.NewSearchPlayer(cfg.Name, mcts, cfg.Budget, cfg.Threshold)
}

// RunTournament plays cfg.Rounds rounds of the search agent against two
// greedy agents.
func RunTournament(cfg meta.Config) Result {
	search := NewSearchPlayer(cfg)
	agents := []player.Agent{search}
	for _, name := range Opponents {
		if name == cfg.Name {
			panic(fmt.Sprintf("agent name %q is taken by a greedy opponent", name))
		}
		agents = append(agents, player.NewGreedyPlayer(name, cfg.Threshold))
	}

	log.Info().Msgf("starting %d rounds of %s against greedy opponents...", cfg.Rounds, cfg.Name)
	tournament := engine.NewTournament(cfg.Seed, cfg.Budget, agents...)
	standings, rounds := tournament.Run(cfg.Rounds)

	moves := search.Moves()
	records := make([]MoveRecord, len(moves))
	for i, m := range moves {
		records[i] = MoveRecord{Agent: cfg.Name, Move: i + 1, MoveMetrics: m}
	}
	return Result{Standings: standings, Rounds: rounds, Moves: records}
}

// Write stores the config and result in a new folder under dir.
func (r Result) Write(dir string, cfg meta.Config) (string, error) {
	writer, err := NewWriter(dir, "tournament")
	if err != nil {
		return "", err
	}
	if err := writer.WriteConfig(cfg); err != nil {
		return "", err
	}
	if err := writer.WriteStandings(r.Standings); err != nil {
		return "", err
	}
	if err := writer.WriteRounds(r.Rounds); err != nil {
		return "", err
	}
	if err := writer.WriteMoves(r.Moves); err != nil {
		return "", err
	}
	log.Info().Msgf("stored tournament in %s", writer.Dir())
	return writer.Dir(), nil
}
