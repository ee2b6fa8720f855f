package localsearch

import (
	"math"

	"golang.org/x/exp/rand"
)

// HillClimb takes a step iff it does not worsen the fitness.
type HillClimb struct{}

func (HillClimb) StepDecision(current, next, _ float64, _ *rand.Rand) bool {
	return next <= current
}

// factorPeriod is how many decisions reuse one temperature factor.
const factorPeriod = 100

// Annealing accepts a step with the Boltzmann probability
// exp((current-next)/T), where T falls geometrically from t0 at progress 0 to
// t1 at progress 1. The factor 1/T is refreshed every factorPeriod decisions.
type Annealing struct {
	t0, t1 float64
	factor float64
	steps  int
}

func NewAnnealing(t0, t1 float64) *Annealing {
	if t0 <= 0 || t1 <= 0 {
		panic("annealing temperatures must be positive")
	}
	return &Annealing{t0: t0, t1: t1}
}

func (a *Annealing) StepDecision(current, next, progress float64, rng *rand.Rand) bool {
	if a.steps%factorPeriod == 0 {
		a.factor = math.Pow(a.t0/a.t1, progress) / a.t0
	}
	a.steps++
	return rng.Float64() <= math.Exp((current-next)*a.factor)
}

// Factor returns the inverse temperature currently in use.
func (a *Annealing) Factor() float64 {
	return a.factor
}
