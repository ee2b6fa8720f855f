package facility

import (
	"slices"

	"golang.org/x/exp/rand"
)

// State decides facilities one by one in a shuffled order: the move true
// opens the next facility, false skips it.
type State struct {
	instance *Instance
	ordering []int // undecided facilities, the last one is next
	open     []bool
}

func NewState(instance *Instance, rng *rand.Rand) *State {
	ordering := make([]int, instance.Facilities())
	for i := range ordering {
		ordering[i] = i
	}
	rng.Shuffle(len(ordering), func(i, j int) {
		ordering[i], ordering[j] = ordering[j], ordering[i]
	})
	return &State{
		instance: instance,
		ordering: ordering,
		open:     make([]bool, instance.Facilities()),
	}
}

// Moves keeps at least one facility open: the last facility must open when
// every other one was skipped.
func (s *State) Moves() []bool {
	if s.IsTerminal() {
		return nil
	}
	if len(s.ordering) == 1 && !slices.Contains(s.open, true) {
		return []bool{true}
	}
	return []bool{false, true}
}

func (s *State) Apply(open bool) {
	last := len(s.ordering) - 1
	if open {
		s.open[s.ordering[last]] = true
	}
	s.ordering = s.ordering[:last]
}

func (s *State) IsTerminal() bool {
	return len(s.ordering) == 0
}

func (s *State) LeftDecisions() int {
	return len(s.ordering)
}

// EstimatePlayout completes the state with Meyerson's online rule: the next
// facility opens with probability distance/facility cost, where distance is
// measured to the closest open facility.
func (s *State) EstimatePlayout(rng *rand.Rand) float64 {
	for !s.IsTerminal() {
		next := s.ordering[len(s.ordering)-1]
		dist := s.instance.distance(s.open, next)
		s.Apply(dist/s.instance.FacilityCost > rng.Float64())
	}
	return s.Cost()
}

func (s *State) Clone() *State {
	return &State{
		instance: s.instance,
		ordering: slices.Clone(s.ordering),
		open:     slices.Clone(s.open),
	}
}

func (s *State) Cost() float64 {
	return s.instance.Cost(s.open)
}

// Open returns a copy of the open flags indexed by facility.
func (s *State) Open() []bool {
	return slices.Clone(s.open)
}
