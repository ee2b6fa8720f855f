package facility

import (
	"slices"

	"golang.org/x/exp/rand"
)

// RandomStepWalker moves between facility sets at Hamming distance at most
// two. Each prepared step toggles one or two random facilities.
type RandomStepWalker struct {
	instance       *Instance
	current        []bool
	next           []bool
	currentFitness float64
	nextFitness    float64
}

func NewRandomStepWalker(instance *Instance, open []bool) *RandomStepWalker {
	if len(open) != instance.Facilities() {
		panic("initial set must flag every facility")
	}
	current := slices.Clone(open)
	return &RandomStepWalker{
		instance:       instance,
		current:        current,
		next:           slices.Clone(current),
		currentFitness: instance.Cost(current),
	}
}

func (w *RandomStepWalker) CurrentFitness() float64 {
	return w.currentFitness
}

func (w *RandomStepWalker) NextFitness() float64 {
	return w.nextFitness
}

func (w *RandomStepWalker) PrepareStep(_ float64, rng *rand.Rand) {
	copy(w.next, w.current)
	for times := rng.Intn(2); times < 2; times++ {
		f := rng.Intn(len(w.next))
		w.next[f] = !w.next[f]
	}
	w.nextFitness = w.instance.Cost(w.next)
}

func (w *RandomStepWalker) MakeStep() {
	w.current, w.next = w.next, w.current
	w.currentFitness = w.nextFitness
}

// Open returns a copy of the current facility set.
func (w *RandomStepWalker) Open() []bool {
	return slices.Clone(w.current)
}
