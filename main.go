package main

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"whist/experiments"
	"whist/meta"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	cfg, err := meta.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	experiment := flag.String("experiment", "tournament", "Experiment to run: tournament or throughput")
	goroutineList := flag.String("goroutine-list", "1,2,4", "Goroutine counts compared by the throughput experiment")
	flag.StringVar(&cfg.Name, "name", cfg.Name, "Search agent's name")
	flag.Float64Var(&cfg.Bias, "bias", cfg.Bias, "UCT exploration bias")
	flag.Float64Var(&cfg.Threshold, "threshold", cfg.Threshold, "Belief probability treated as certain")
	flag.BoolVar(&cfg.DrawWins, "draw-wins", cfg.DrawWins, "Count a tie for the top score as a win")
	flag.DurationVar(&cfg.Budget, "budget", cfg.Budget, "Duration of the search per card")
	flag.IntVar(&cfg.Episodes, "episodes", cfg.Episodes, "Simulations per determinization, 0 for no cap")
	flag.IntVar(&cfg.Determinizations, "determinizations", cfg.Determinizations, "Sampled deals per card")
	flag.IntVar(&cfg.Goroutines, "goroutines", cfg.Goroutines, "Number of goroutines searching determinizations")
	flag.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Seed for dealing and searching")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")
	flag.IntVar(&cfg.Rounds, "rounds", cfg.Rounds, "Rounds to play")
	flag.StringVar(&cfg.ReportDir, "report", cfg.ReportDir, "Folder for CSV reports, empty to skip them")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
	level, _ := cfg.Level()
	zerolog.SetGlobalLevel(level)

	switch *experiment {
	case "tournament":
		result := experiments.RunTournament(cfg)
		for _, s := range result.Standings {
			log.Info().Str("agent", s.Name).Int("score", s.Score).Int("wins", s.Wins).Msgf("%d rounds", s.Rounds)
		}
		if cfg.ReportDir != "" {
			if _, err := result.Write(cfg.ReportDir, cfg); err != nil {
				log.Fatal().Err(err).Msg("failed to store tournament")
			}
		}
	case "throughput":
		counts, err := parseCounts(*goroutineList)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid goroutine list")
		}
		results := experiments.RunThroughput(cfg, counts)
		if cfg.ReportDir != "" {
			w, err := experiments.NewWriter(cfg.ReportDir, "throughput")
			if err == nil {
				err = w.WriteThroughput(results)
			}
			if err != nil {
				log.Fatal().Err(err).Msg("failed to store throughput")
			}
		}
	default:
		log.Fatal().Msgf("unknown experiment %q", *experiment)
	}
}

func parseCounts(list string) ([]int, error) {
	var counts []int
	for _, field := range strings.Split(list, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil, err
		}
		counts = append(counts, n)
	}
	return counts, nil
}
