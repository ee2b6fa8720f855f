package searcher

import (
	"math"

	"golang.org/x/exp/rand"
)

// State is a decision process explored by the tree. Clone must return a copy
// whose mutation is invisible to the receiver.
type State[M comparable, S any] interface {
	Moves() []M
	Apply(move M)
	IsTerminal() bool
	EstimatePlayout(rng *rand.Rand) float64
	Clone() S
}

// DecisionCounter is implemented by states that know how many decisions are
// left before they become terminal. Policies use it as expansion threshold.
type DecisionCounter interface {
	LeftDecisions() int
}

// Policy decides when to expand, which child to descend into, how to fold a
// playout estimate into a node, and which root child to commit.
//
// Update is called once per node on the path of a playout, leaf first, with
// chosen set to the index of the child the playout descended into, or -1 at
// the leaf.
type Policy[M comparable, S any, P any] interface {
	Expand(node *Node[M, P], state S, iteration, depth int) bool
	Choose(node *Node[M, P], state S) int
	Update(node *Node[M, P], chosen int, estimate float64)
	BestChild(node *Node[M, P]) int
	Random() *rand.Rand
}

func expandThreshold[M comparable, S State[M, S]](state S) int {
	if counter, ok := any(state).(DecisionCounter); ok {
		return counter.LeftDecisions()
	}
	return len(state.Moves())
}

// argMin returns the index of the child with the lowest score among those
// score accepts, or -1 when it accepts none. Ties go to the first child.
func argMin[M comparable, P any](node *Node[M, P], score func(p *P) (float64, bool)) int {
	best := math.Inf(1)
	index := -1
	for i, child := range node.children {
		s, ok := score(&child.Payload)
		if !ok {
			continue
		}
		if index == -1 || s < best {
			best = s
			index = i
		}
	}
	return index
}

func uniform[M comparable, P any](node *Node[M, P], rng *rand.Rand) int {
	return rng.Intn(node.Len())
}

func mustRandom(rng *rand.Rand) *rand.Rand {
	if rng == nil {
		panic("policy requires a random source")
	}
	return rng
}

func mustProbability(eps float64) float64 {
	if eps < 0 || eps > 1 || math.IsNaN(eps) {
		panic("eps must be within [0, 1]")
	}
	return eps
}
