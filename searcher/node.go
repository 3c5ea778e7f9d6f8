package searcher

import (
	"context"
	"fmt"
	"math"

	"whist/game"
)

const noParent = -1

type node struct {
	parent   int
	move     game.Card // agent card leading here from the parent
	children []int
	expanded bool
	wins     int
	visits   int
	pos      position
}

// tree is one determinization's search tree. Nodes live in an arena and
// refer to each other by index; the root is nodes[0].
type tree struct {
	agent     game.Seat
	cSquared  float64
	threshold float64
	drawWins  bool
	nodes     []node
}

func newTree(agent game.Seat, root position, bias, threshold float64, drawWins bool) *tree {
	return &tree{
		agent:     agent,
		cSquared:  bias * bias,
		threshold: threshold,
		drawWins:  drawWins,
		nodes:     []node{{parent: noParent, move: game.NoCard, pos: root}},
	}
}

// searchAll runs one simulation per tree in turn, episodes rounds of them (no
// cap if episodes <= 0), until ctx is done.
func searchAll(ctx context.Context, trees []*tree, episodes int, metrics MetricsCollector) {
	if len(trees) == 0 {
		return
	}
	for e := 0; episodes <= 0 || e < episodes; e++ {
		for _, t := range trees {
			if ctx.Err() != nil {
				return
			}
			if !t.simulate(ctx) {
				metrics.AddAborted()
				return
			}
			metrics.AddEpisode()
		}
	}
}

// simulate descends from the root to a finished round, expanding every node it
// reaches, and backs the result up. It returns false when ctx ended first;
// nothing is backed up then.
func (t *tree) simulate(ctx context.Context) bool {
	i := 0
	for {
		if ctx.Err() != nil {
			return false
		}
		if !t.nodes[i].expanded {
			t.expand(i)
		}
		if len(t.nodes[i].children) == 0 {
			t.backup(i, t.nodes[i].pos.won(t.agent, t.drawWins))
			return true
		}
		i = t.selectChild(i)
	}
}

// expand adds one child per legal agent card. Opponent replies are played out
// greedily so every child is again an agent decision or the end of the round.
func (t *tree) expand(i int) {
	t.nodes[i].expanded = true
	pos := t.nodes[i].pos
	if pos.trick.Over() {
		return
	}

	hand := pos.beliefs[t.agent].Hand(t.agent)
	legal := pos.trick.LegalMoves(hand)
	if legal.Empty() {
		panic(fmt.Sprintf("search: %s has no legal move with %d tricks left", t.agent, game.TricksPerRound-pos.trick.Tricks))
	}

	for _, c := range legal.Cards() {
		child := pos
		child.play(t.agent, c)
		child.advance(t.agent, t.threshold)
		t.nodes = append(t.nodes, node{parent: i, move: c, pos: child})
		t.nodes[i].children = append(t.nodes[i].children, len(t.nodes)-1)
	}
}

// selectChild prefers unvisited children, then the highest UCT value.
func (t *tree) selectChild(i int) int {
	parent := &t.nodes[i]
	for _, c := range parent.children {
		if t.nodes[c].visits == 0 {
			return c
		}
	}

	policy := newUCT(t.cSquared, parent.visits)
	best, bestValue := parent.children[0], math.Inf(-1)
	for _, c := range parent.children {
		child := &t.nodes[c]
		if value := policy.evaluate(child.wins, child.visits); value > bestValue {
			best, bestValue = c, value
		}
	}
	return best
}

func (t *tree) backup(leaf int, win bool) {
	for i := leaf; i != noParent; i = t.nodes[i].parent {
		t.nodes[i].visits++
		if win {
			t.nodes[i].wins++
		}
	}
}

// rootStats reports wins and visits per agent card at the root.
func (t *tree) rootStats() map[game.Card]Stats {
	stats := make(map[game.Card]Stats, len(t.nodes[0].children))
	for _, c := range t.nodes[0].children {
		child := &t.nodes[c]
		stats[child.move] = Stats{Wins: child.wins, Visits: child.visits}
	}
	return stats
}
