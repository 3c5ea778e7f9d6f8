package engine

import (
	"time"

	"whist/game"
	"whist/player"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Standing struct {
	Name   string
	Score  int // summed over rounds
	Wins   int // rounds finished on the top score, ties included
	Rounds int
}

// Tournament plays rounds between three agents, rotating the seats so every
// agent leads in turn.
type Tournament struct {
	ID     uuid.UUID
	agents []player.Agent
	rng    *rand.Rand
	budget time.Duration
}

func NewTournament(seed uint64, budget time.Duration, agents ...player.Agent) *Tournament {
	if len(agents) != game.NumSeats {
		panic("number of agents does not match number of seats")
	}
	return &Tournament{
		ID:     uuid.New(),
		agents: agents,
		rng:    rand.New(rand.NewSource(seed)),
		budget: budget,
	}
}

// Run plays the rounds and returns the standings in agent order along with
// every round's result.
func (t *Tournament) Run(rounds int) ([]Standing, []Round) {
	standings := make([]Standing, len(t.agents))
	index := make(map[string]int, len(t.agents))
	for i, a := range t.agents {
		standings[i].Name = a.SayName()
		index[a.SayName()] = i
	}

	results := make([]Round, 0, rounds)
	for r := 0; r < rounds; r++ {
		seated := make([]player.Agent, game.NumSeats)
		for s := range seated {
			seated[s] = t.agents[(s+r)%game.NumSeats]
		}
		round := LocalEngine(t.rng.Uint64(), t.budget, seated...).Run()
		results = append(results, round)

		for name, score := range round.Scores {
			standings[index[name]].Score += score
			standings[index[name]].Rounds++
		}
		for _, name := range round.Winners() {
			standings[index[name]].Wins++
		}
	}

	log.Info().Str("tournament", t.ID.String()).Msgf("%d rounds: %+v", rounds, standings)
	return standings, results
}
