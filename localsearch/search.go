// Package localsearch drives a Walker through propose/accept steps until a
// progress.Controller reports that the budget is spent.
package localsearch

import (
	"anytime/progress"

	"golang.org/x/exp/rand"
)

// Walker owns the candidate solution. NextFitness is only meaningful after
// PrepareStep has been called at least once.
type Walker interface {
	CurrentFitness() float64
	NextFitness() float64
	PrepareStep(progress float64, rng *rand.Rand)
	MakeStep()
}

// StepCtrl decides whether the prepared step is taken.
type StepCtrl interface {
	StepDecision(current, next, progress float64, rng *rand.Rand) bool
}

type Logger interface {
	Log(currentFitness float64)
}

type Stats struct {
	Iterations int // number of fitness observations, including the final one
	Prepared   int
	Steps      int
	Fitness    float64
}

func Search(walker Walker, rng *rand.Rand, ctrl progress.Controller, step StepCtrl, logger Logger) Stats {
	stats := Stats{}
	for {
		current := walker.CurrentFitness()
		stats.Iterations++
		logger.Log(current)
		p := ctrl.Progress(current)
		if p >= 1 {
			stats.Fitness = current
			return stats
		}

		walker.PrepareStep(p, rng)
		stats.Prepared++
		if step.StepDecision(current, walker.NextFitness(), p, rng) {
			walker.MakeStep()
			stats.Steps++
		}
	}
}
