package searcher

import (
	"math"

	"golang.org/x/exp/rand"
)

// MuSigmaPayload accumulates mean and variance online (Welford).
type MuSigmaPayload struct {
	Visits int
	Mean   float64
	M2     float64
}

// Stddev is the sample standard deviation, 0 below two samples.
func (p *MuSigmaPayload) Stddev() float64 {
	if p.Visits < 2 {
		return 0
	}
	return math.Sqrt(p.M2 / float64(p.Visits-1))
}

// MuSigma scores a child as mean + k*stddev and always descends into the
// lowest score once every child has been visited.
type MuSigma[M comparable, S State[M, S]] struct {
	rng *rand.Rand
	k   float64
}

func NewMuSigma[M comparable, S State[M, S]](rng *rand.Rand, k float64) *MuSigma[M, S] {
	return &MuSigma[M, S]{rng: mustRandom(rng), k: k}
}

func (m *MuSigma[M, S]) score(p *MuSigmaPayload) (float64, bool) {
	return p.Mean + m.k*p.Stddev(), p.Visits > 0
}

func (m *MuSigma[M, S]) Expand(node *Node[M, MuSigmaPayload], state S, _, _ int) bool {
	return node.Payload.Visits >= expandThreshold[M](state)
}

func (m *MuSigma[M, S]) Choose(node *Node[M, MuSigmaPayload], _ S) int {
	for i, child := range node.children {
		if child.Payload.Visits == 0 {
			return i
		}
	}
	return argMin(node, m.score)
}

func (m *MuSigma[M, S]) Update(node *Node[M, MuSigmaPayload], _ int, estimate float64) {
	p := &node.Payload
	p.Visits++
	delta := estimate - p.Mean
	p.Mean += delta / float64(p.Visits)
	p.M2 += delta * (estimate - p.Mean)
}

func (m *MuSigma[M, S]) BestChild(node *Node[M, MuSigmaPayload]) int {
	return argMin(node, m.score)
}

func (m *MuSigma[M, S]) Random() *rand.Rand {
	return m.rng
}
