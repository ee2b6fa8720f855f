package metrics

import (
	"math"
	"time"
)

// SearchMetric summarizes one search call of the tree.
type SearchMetric struct {
	Duration     time.Duration
	Playouts     int
	Expansions   int
	Best         float64 // lowest playout estimate of the call
	IsTreeReused bool    // the root kept statistics from earlier searches
}

// DecisionMetric is a search metric tied to the decision it produced.
type DecisionMetric struct {
	Step     int
	TreeSize int
	SearchMetric
}

// RunMetric describes one complete optimization run.
type RunMetric struct {
	Engine    string
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Decisions int // committed tree moves, 0 for local search
	Steps     int // accepted local search steps, 0 for trees
	Open      int // open facilities in the final solution
	Fitness   float64
}

type Collector interface {
	Start()
	SetTreeReused(value bool)
	AddPlayout(estimate float64)
	AddExpansion()
	Complete() SearchMetric
}

// collector is owned by the single goroutine driving the tree.
type collector struct {
	startTime  time.Time
	playouts   int
	expansions int
	best       float64
	treeReused bool
}

func NewCollector() Collector {
	return &collector{best: math.Inf(1)}
}

func (m *collector) Start() {
	m.startTime = time.Now()
	m.playouts = 0
	m.expansions = 0
	m.best = math.Inf(1)
}

func (m *collector) SetTreeReused(value bool) {
	m.treeReused = value
}

func (m *collector) AddPlayout(estimate float64) {
	m.playouts++
	m.best = min(m.best, estimate)
}

func (m *collector) AddExpansion() {
	m.expansions++
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Duration:     time.Since(m.startTime),
		Playouts:     m.playouts,
		Expansions:   m.expansions,
		Best:         m.best,
		IsTreeReused: m.treeReused,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start()                 {}
func (m *dummyCollector) SetTreeReused(bool)     {}
func (m *dummyCollector) AddPlayout(float64)     {}
func (m *dummyCollector) AddExpansion()          {}
func (m *dummyCollector) Complete() SearchMetric { return SearchMetric{} }
