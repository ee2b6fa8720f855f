// meta/meta.go
package meta

// SEED seeds the per-run random source.
const SEED = 5489

// REPEATS is the number of independent runs per experiment.
const REPEATS = 5

// SAMPLES_RATIO is the number of playouts per undecided facility per decision.
const SAMPLES_RATIO = 500

// EXHAUSTIVE_DECISIONS is the number of decisions left below which the
// runner enumerates every completion instead of searching.
const EXHAUSTIVE_DECISIONS = 9

// EPS is the exploration probability of the epsilon policies.
const EPS = 0.1

// K weights the standard deviation of the mean plus k sigma policy.
const K = 1.0

// T0 and T1 are the annealing start and end temperatures.
const T0 = 10.0
const T1 = 0.01

// ITERATIONS is the local search budget in steps.
const ITERATIONS = 100000

// GRANULARITY is how many progress calls share one clock reading.
const GRANULARITY = 100

// FACILITIES, CITIES and FACILITY_COST shape the generated instance.
const FACILITIES = 30
const CITIES = 60
const FACILITY_COST = 0.5
