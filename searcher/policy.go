package searcher

import "math"

// DefaultBias is the UCT exploration constant.
const DefaultBias = math.Sqrt2

type uct struct {
	numerator float64
}

// newUCT prepares the exploration term for the children of a node visited N
// times.
func newUCT(cSquared float64, N int) uct {
	if N == 0 {
		panic("N cannot be 0")
	}
	return uct{numerator: cSquared * math.Log(float64(N))}
}

func (u uct) evaluate(wins int, n int) float64 {
	if n == 0 {
		panic("n cannot be 0")
	}
	// UCT = w/n + sqrt(c^2*ln(N)/n)
	return float64(wins)/float64(n) + math.Sqrt(u.numerator/float64(n))
}
