package searcher

import (
	"math"

	"golang.org/x/exp/rand"
)

// BestPayload keeps the lowest estimate seen at a node and the child whose
// playout produced it. BestChild is -1 until such a child is known.
type BestPayload struct {
	Visits       int
	Estimate     float64
	BestChild    int
	BestEstimate float64
}

func (p *BestPayload) best() (int, bool) {
	return p.BestChild, p.Visits > 0 && p.BestChild >= 0
}

// EpsBest descends into the child behind the best single playout with
// probability 1-eps and uniformly at random otherwise.
type EpsBest[M comparable, S State[M, S]] struct {
	rng *rand.Rand
	eps float64
}

func NewEpsBest[M comparable, S State[M, S]](rng *rand.Rand, eps float64) *EpsBest[M, S] {
	return &EpsBest[M, S]{rng: mustRandom(rng), eps: mustProbability(eps)}
}

func (e *EpsBest[M, S]) Expand(node *Node[M, BestPayload], state S, _, _ int) bool {
	return node.Payload.Visits >= expandThreshold[M](state)
}

func (e *EpsBest[M, S]) Choose(node *Node[M, BestPayload], _ S) int {
	if best, ok := node.Payload.best(); ok && best < node.Len() && e.rng.Float64() >= e.eps {
		return best
	}
	return uniform(node, e.rng)
}

func (e *EpsBest[M, S]) Update(node *Node[M, BestPayload], chosen int, estimate float64) {
	p := &node.Payload
	if p.Visits == 0 {
		p.Estimate = math.Inf(1)
		p.BestEstimate = math.Inf(1)
		p.BestChild = -1
	}
	p.Visits++
	p.Estimate = min(p.Estimate, estimate)
	if chosen >= 0 && estimate < p.BestEstimate {
		p.BestEstimate = estimate
		p.BestChild = chosen
	}
}

func (e *EpsBest[M, S]) BestChild(node *Node[M, BestPayload]) int {
	if best, ok := node.Payload.best(); ok {
		return best
	}
	return argMin(node, func(p *BestPayload) (float64, bool) {
		return p.Estimate, p.Visits > 0
	})
}

func (e *EpsBest[M, S]) Random() *rand.Rand {
	return e.rng
}
