package experiments

import (
	"anytime/experiments/metrics"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summarize aggregates the final fitness of repeated runs. The deviation is
// the sample standard deviation, 0 for a single run.
func Summarize(engine string, fitness []float64) metrics.SummaryRecord {
	summary := metrics.SummaryRecord{Engine: engine, Runs: len(fitness)}
	if len(fitness) == 0 {
		return summary
	}
	summary.Mean = stat.Mean(fitness, nil)
	if len(fitness) > 1 {
		summary.Stddev = stat.StdDev(fitness, nil)
	}
	summary.Min = floats.Min(fitness)
	summary.Max = floats.Max(fitness)
	return summary
}
