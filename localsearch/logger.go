package localsearch

import (
	"math"

	"github.com/rs/zerolog"
)

type VoidLogger struct{}

func (VoidLogger) Log(float64) {}

type CountingLogger struct {
	calls int
}

func (l *CountingLogger) Log(float64) {
	l.calls++
}

// Iterations returns the number of steps observed, i.e. calls minus the final
// observation that ended the run.
func (l *CountingLogger) Iterations() int {
	return l.calls - 1
}

// HistoryLogger keeps every observed fitness.
type HistoryLogger struct {
	Fitness []float64
}

func (l *HistoryLogger) Log(fitness float64) {
	l.Fitness = append(l.Fitness, fitness)
}

type Record struct {
	Iteration int
	Fitness   float64
}

// ImprovementLogger records the iterations at which the best fitness
// strictly improved.
type ImprovementLogger struct {
	Records    []Record
	iterations int
}

func (l *ImprovementLogger) Log(fitness float64) {
	if len(l.Records) == 0 || fitness < l.Records[len(l.Records)-1].Fitness {
		l.Records = append(l.Records, Record{Iteration: l.iterations, Fitness: fitness})
	}
	l.iterations++
}

func (l *ImprovementLogger) Iterations() int {
	return l.iterations
}

// ZerologLogger writes a debug event each time the fitness improves.
type ZerologLogger struct {
	logger     zerolog.Logger
	best       float64
	iterations int
}

func NewZerologLogger(logger zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{logger: logger, best: math.Inf(1)}
}

func (l *ZerologLogger) Log(fitness float64) {
	if fitness < l.best {
		l.best = fitness
		l.logger.Debug().
			Int("iteration", l.iterations).
			Float64("fitness", fitness).
			Msg("improved")
	}
	l.iterations++
}
