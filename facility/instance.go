// Package facility is an uncapacitated facility location client of both
// search engines. Facility i sits at the location of city i.
package facility

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Instance holds the connection cost of every facility/city pair and a
// uniform facility opening cost.
type Instance struct {
	FacilityCost float64
	costs        *mat.Dense
}

// Generate places cities uniformly in the unit square and connects them by
// Euclidean distance.
func Generate(rng *rand.Rand, facilities, cities int, facilityCost float64) *Instance {
	if facilities < 1 || cities < facilities {
		panic("instance needs 1 <= facilities <= cities")
	}
	if facilityCost <= 0 {
		panic("facility cost must be positive")
	}

	points := make([][]float64, cities)
	for i := range points {
		points[i] = []float64{rng.Float64(), rng.Float64()}
	}
	costs := mat.NewDense(facilities, cities, nil)
	for f := 0; f < facilities; f++ {
		for c := 0; c < cities; c++ {
			costs.Set(f, c, floats.Distance(points[f], points[c], 2))
		}
	}
	return &Instance{FacilityCost: facilityCost, costs: costs}
}

// NewInstance wraps an explicit facilities x cities cost matrix.
func NewInstance(costs *mat.Dense, facilityCost float64) *Instance {
	return &Instance{FacilityCost: facilityCost, costs: costs}
}

func (in *Instance) Facilities() int {
	r, _ := in.costs.Dims()
	return r
}

func (in *Instance) Cities() int {
	_, c := in.costs.Dims()
	return c
}

func (in *Instance) Connection(facility, city int) float64 {
	return in.costs.At(facility, city)
}

// Cost is the opening cost of the open facilities plus the cost of connecting
// every city to its closest open facility. It is +Inf when nothing is open.
func (in *Instance) Cost(open []bool) float64 {
	total := 0.0
	nearest := make([]float64, in.Cities())
	floats.AddConst(math.Inf(1), nearest)
	for f, isOpen := range open {
		if !isOpen {
			continue
		}
		total += in.FacilityCost
		for c := range nearest {
			nearest[c] = min(nearest[c], in.costs.At(f, c))
		}
	}
	return total + floats.Sum(nearest)
}

func (in *Instance) distance(open []bool, city int) float64 {
	dist := math.Inf(1)
	for f, isOpen := range open {
		if isOpen {
			dist = min(dist, in.costs.At(f, city))
		}
	}
	return dist
}
