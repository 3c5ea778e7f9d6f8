package experiments

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"whist/engine"
	"whist/game"
	"whist/meta"
	"whist/searcher"
)

// MoveRecord is one searched card of a tournament.
type MoveRecord struct {
	Agent string
	Move  int // searched cards by this agent so far, from 1
	searcher.MoveMetrics
}

// Writer stores an experiment's CSV files under its own timestamped folder.
type Writer struct {
	baseDir string
}

func NewWriter(dir, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(dir, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	return &Writer{baseDir: baseDir}, nil
}

func (w *Writer) Dir() string { return w.baseDir }

func (w *Writer) write(file string, header []string, rows [][]string) error {
	f, err := os.Create(filepath.Join(w.baseDir, file))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", file, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", file, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s rows: %w", file, err)
	}
	return nil
}

func (w *Writer) WriteConfig(cfg meta.Config) error {
	return w.write("config.csv", []string{"name", "bias", "threshold", "draw_wins", "budget",
		"episodes", "determinizations", "goroutines", "seed"}, [][]string{{
		cfg.Name,
		strconv.FormatFloat(cfg.Bias, 'f', -1, 64),
		strconv.FormatFloat(cfg.Threshold, 'f', -1, 64),
		strconv.FormatBool(cfg.DrawWins),
		cfg.Budget.String(),
		strconv.Itoa(cfg.Episodes),
		strconv.Itoa(cfg.Determinizations),
		strconv.Itoa(cfg.Goroutines),
		strconv.FormatUint(cfg.Seed, 10),
	}})
}

// WriteRounds stores one row per agent per round.
func (w *Writer) WriteRounds(rounds []engine.Round) error {
	rows := make([][]string, 0, len(rounds)*game.NumSeats)
	for i, round := range rounds {
		winners := round.Winners()
		for seat, name := range round.Seats {
			won := false
			for _, winner := range winners {
				won = won || winner == name
			}
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				round.ID.String(),
				strconv.Itoa(seat),
				name,
				strconv.Itoa(round.Scores[name]),
				strconv.FormatBool(won),
			})
		}
	}
	return w.write("rounds.csv", []string{"round", "id", "seat", "agent", "score", "won"}, rows)
}

func (w *Writer) WriteStandings(standings []engine.Standing) error {
	rows := make([][]string, 0, len(standings))
	for _, s := range standings {
		rows = append(rows, []string{s.Name, strconv.Itoa(s.Score), strconv.Itoa(s.Wins), strconv.Itoa(s.Rounds)})
	}
	return w.write("standings.csv", []string{"agent", "score", "wins", "rounds"}, rows)
}

func (w *Writer) WriteMoves(records []MoveRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Agent,
			strconv.Itoa(r.Move),
			r.Duration.String(),
			strconv.FormatInt(r.Episodes, 10),
			strconv.FormatInt(r.Aborted, 10),
			strconv.FormatInt(r.Determinizations, 10),
			strconv.FormatBool(r.Fallback),
		})
	}
	return w.write("moves.csv", []string{"agent", "move", "duration", "episodes", "aborted",
		"determinizations", "fallback"}, rows)
}

func (w *Writer) WriteThroughput(results []Throughput) error {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			strconv.Itoa(r.Goroutines),
			strconv.Itoa(r.Moves),
			strconv.FormatInt(r.Episodes, 10),
			r.Duration.String(),
			strconv.FormatFloat(r.EpisodesPerSecond(), 'f', 1, 64),
		})
	}
	return w.write("throughput.csv", []string{"goroutines", "moves", "episodes", "duration",
		"episodes_per_second"}, rows)
}
