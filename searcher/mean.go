package searcher

import "golang.org/x/exp/rand"

// MeanPayload keeps the running mean of the estimates seen at a node.
type MeanPayload struct {
	Visits   int
	Estimate float64
}

func (p *MeanPayload) add(estimate float64) {
	p.Visits++
	if p.Visits == 1 {
		p.Estimate = estimate
		return
	}
	p.Estimate += (estimate - p.Estimate) / float64(p.Visits)
}

func meanScore(p *MeanPayload) (float64, bool) {
	return p.Estimate, p.Visits > 0
}

// RandMean descends uniformly at random and commits the child with the lowest
// mean estimate.
type RandMean[M comparable, S State[M, S]] struct {
	rng *rand.Rand
}

func NewRandMean[M comparable, S State[M, S]](rng *rand.Rand) *RandMean[M, S] {
	return &RandMean[M, S]{rng: mustRandom(rng)}
}

func (r *RandMean[M, S]) Expand(node *Node[M, MeanPayload], state S, _, _ int) bool {
	return node.Payload.Visits >= expandThreshold[M](state)
}

func (r *RandMean[M, S]) Choose(node *Node[M, MeanPayload], _ S) int {
	return uniform(node, r.rng)
}

func (r *RandMean[M, S]) Update(node *Node[M, MeanPayload], _ int, estimate float64) {
	node.Payload.add(estimate)
}

func (r *RandMean[M, S]) BestChild(node *Node[M, MeanPayload]) int {
	return argMin(node, meanScore)
}

func (r *RandMean[M, S]) Random() *rand.Rand {
	return r.rng
}

// EpsMean descends uniformly at random with probability eps and into the
// child with the lowest mean otherwise.
type EpsMean[M comparable, S State[M, S]] struct {
	RandMean[M, S]
	eps float64
}

func NewEpsMean[M comparable, S State[M, S]](rng *rand.Rand, eps float64) *EpsMean[M, S] {
	return &EpsMean[M, S]{
		RandMean: RandMean[M, S]{rng: mustRandom(rng)},
		eps:      mustProbability(eps),
	}
}

func (e *EpsMean[M, S]) Choose(node *Node[M, MeanPayload], _ S) int {
	if e.rng.Float64() < e.eps {
		return uniform(node, e.rng)
	}
	if best := e.BestChild(node); best >= 0 {
		return best
	}
	return uniform(node, e.rng)
}
