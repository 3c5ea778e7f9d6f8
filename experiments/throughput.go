package experiments

import (
	"time"

	"whist/meta"

	"github.com/rs/zerolog/log"
)

// Throughput sums the searched cards of one goroutine setting.
type Throughput struct {
	Goroutines int
	Moves      int
	Episodes   int64
	Duration   time.Duration
}

func (t Throughput) EpisodesPerSecond() float64 {
	if t.Duration <= 0 {
		return 0
	}
	return float64(t.Episodes) / t.Duration.Seconds()
}

// RunThroughput replays the tournament of cfg once per goroutine count and
// measures how many simulations the search agent completes.
func RunThroughput(cfg meta.Config, goroutines []int) []Throughput {
	results := make([]Throughput, 0, len(goroutines))
	for _, g := range goroutines {
		run := cfg
		run.Goroutines = g
		result := RunTournament(run)

		t := Throughput{Goroutines: g, Moves: len(result.Moves)}
		for _, m := range result.Moves {
			t.Episodes += m.Episodes
			t.Duration += m.Duration
		}
		log.Info().Msgf("%d goroutines: %d episodes over %d moves, %.1f episodes/s",
			g, t.Episodes, t.Moves, t.EpisodesPerSecond())
		results = append(results, t)
	}
	return results
}
