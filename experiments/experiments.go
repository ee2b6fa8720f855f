package experiments

import (
	"fmt"
	"math"
	"slices"
	"time"

	"anytime/experiments/metrics"
	"anytime/facility"
	"anytime/localsearch"
	"anytime/progress"
	"anytime/searcher"
	"anytime/utils"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// Report gathers the records of every repeat of an experiment.
type Report struct {
	Runs      []metrics.RunRecord
	Decisions []metrics.DecisionRecord
	Summary   metrics.SummaryRecord
}

// Run executes config.Repeats independent runs on the configured instance.
// Every repeat owns a random source seeded with config.Seed plus its index.
// A nil collector falls back to an in-memory one.
func Run(config Config, collector metrics.Collector) (Report, error) {
	if err := config.Validate(); err != nil {
		return Report{}, err
	}
	if collector == nil {
		collector = metrics.NewCollector()
	}

	in := config.Instance
	instance := facility.Generate(utils.NewRand(in.Seed), in.Facilities, in.Cities, in.FacilityCost)
	report := Report{}

	log.Info().Msgf("starting %s experiment with %d repeats...", config.Engine, config.Repeats)
	for i := 0; i < config.Repeats; i++ {
		rng := utils.NewRand(config.Seed + uint64(i))

		var run metrics.RunMetric
		var decisions []metrics.DecisionMetric
		var err error
		switch config.Engine {
		case EngineMCTS:
			run, decisions, err = runMCTS(config, instance, rng, collector)
		case EngineLocal:
			run, err = runLocal(config.Local, config.Budget, instance, rng)
		}
		if err != nil {
			return report, fmt.Errorf("repeat %d: %w", i, err)
		}

		report.Runs = append(report.Runs, metrics.RunRecord{ID: i, RunMetric: run})
		for _, d := range decisions {
			report.Decisions = append(report.Decisions, metrics.DecisionRecord{Run: i, DecisionMetric: d})
		}
		log.Info().Msgf("completed repeat %d of %d with fitness %.4f in %s", i+1, config.Repeats, run.Fitness, run.Duration)
	}

	fitness := make([]float64, len(report.Runs))
	for i, run := range report.Runs {
		fitness[i] = run.Fitness
	}
	report.Summary = Summarize(config.Engine, fitness)
	log.Info().Msgf("completed %s experiment: mean %.4f, stddev %.4f, best %.4f",
		config.Engine, report.Summary.Mean, report.Summary.Stddev, report.Summary.Min)

	if config.OutputDir != "" {
		if err := store(config.OutputDir, config.Engine, report); err != nil {
			return report, err
		}
	}
	return report, nil
}

func store(dir, name string, report Report) error {
	writer, err := metrics.NewWriter(dir, name)
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}

	err = writer.WriteRunRecords(report.Runs)
	if err != nil {
		return fmt.Errorf("failed to write run records: %w", err)
	}
	log.Info().Msg("stored run records")

	if len(report.Decisions) > 0 {
		err = writer.WriteDecisionRecords(report.Decisions)
		if err != nil {
			return fmt.Errorf("failed to write decision records: %w", err)
		}
		log.Info().Msg("stored decision records")
	}

	err = writer.WriteSummary(report.Summary)
	if err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	log.Info().Msgf("stored summary in %s", writer.Dir())
	return nil
}

func runMCTS(config Config, instance *facility.Instance, rng *rand.Rand, collector metrics.Collector) (metrics.RunMetric, []metrics.DecisionMetric, error) {
	state := facility.NewState(instance, rng)
	options := []searcher.Option{searcher.WithMetrics(collector)}
	budget := decisionBudget(config.MCTS, config.Budget, instance.Facilities())
	exhaustiveLeft := config.MCTS.Exhaustive

	switch config.MCTS.Policy {
	case PolicyEpsMean:
		policy := searcher.NewEpsMean[bool, *facility.State](rng, config.MCTS.Eps)
		return decide(searcher.NewTree[bool, *facility.State, searcher.MeanPayload](state, policy, options...), exhaustiveLeft, budget)
	case PolicyMuSigma:
		policy := searcher.NewMuSigma[bool, *facility.State](rng, config.MCTS.K)
		return decide(searcher.NewTree[bool, *facility.State, searcher.MuSigmaPayload](state, policy, options...), exhaustiveLeft, budget)
	case PolicyEpsBest:
		policy := searcher.NewEpsBest[bool, *facility.State](rng, config.MCTS.Eps)
		return decide(searcher.NewTree[bool, *facility.State, searcher.BestPayload](state, policy, options...), exhaustiveLeft, budget)
	default:
		policy := searcher.NewRandMean[bool, *facility.State](rng)
		return decide(searcher.NewTree[bool, *facility.State, searcher.MeanPayload](state, policy, options...), exhaustiveLeft, budget)
	}
}

// decisionBudget returns the controller factory of a single search given the
// decisions left. A time budget is split so that each search gets a share
// proportional to the decisions it still has to cover, otherwise every left
// decision is worth samples_ratio playouts.
func decisionBudget(config MCTSConfig, budget BudgetConfig, facilities int) func(left int) progress.Controller {
	if budget.Seconds <= 0 {
		return func(left int) progress.Controller {
			return progress.NewIteration(left * config.SamplesRatio)
		}
	}

	atom := budget.Seconds
	if facilities > 1 {
		atom = 2 * budget.Seconds / float64(facilities*(facilities-1))
	}
	return func(left int) progress.Controller {
		share := budget
		share.Seconds = float64(left) * atom
		return newController(share)
	}
}

// decide commits one move per search with a budget given by the decisions
// left, and enumerates the remaining completions once few are left.
func decide[P any](tree *searcher.Tree[bool, *facility.State, P], exhaustiveLeft int, budget func(left int) progress.Controller) (metrics.RunMetric, []metrics.DecisionMetric, error) {
	run := metrics.RunMetric{Engine: EngineMCTS, StartTime: time.Now()}
	var decisions []metrics.DecisionMetric

	for step := 0; !tree.State().IsTerminal(); step++ {
		left := tree.State().LeftDecisions()
		if left <= exhaustiveLeft {
			for _, move := range exhaustive(tree.State()) {
				if err := tree.Apply(move); err != nil {
					return run, decisions, err
				}
				run.Decisions++
			}
			break
		}

		move, err := tree.Search(budget(left))
		if err != nil {
			return run, decisions, fmt.Errorf("decision %d: %w", step, err)
		}
		decisions = append(decisions, metrics.DecisionMetric{
			Step:         step,
			TreeSize:     tree.Size(),
			SearchMetric: tree.Metric(),
		})
		if err := tree.Apply(move); err != nil {
			return run, decisions, fmt.Errorf("decision %d: %w", step, err)
		}
		run.Decisions++
	}

	run.EndTime = time.Now()
	run.Duration = run.EndTime.Sub(run.StartTime)
	run.Fitness = tree.State().Cost()
	run.Open = countOpen(tree.State().Open())
	return run, decisions, nil
}

// exhaustive returns the cheapest sequence of moves completing state.
func exhaustive(state *facility.State) []bool {
	best := math.Inf(1)
	var bestMoves []bool

	var walk func(s *facility.State, moves []bool)
	walk = func(s *facility.State, moves []bool) {
		if s.IsTerminal() {
			if cost := s.Cost(); cost < best {
				best = cost
				bestMoves = slices.Clone(moves)
			}
			return
		}
		for _, move := range s.Moves() {
			next := s.Clone()
			next.Apply(move)
			walk(next, append(moves, move))
		}
	}
	walk(state, nil)
	return bestMoves
}

func runLocal(config LocalConfig, budget BudgetConfig, instance *facility.Instance, rng *rand.Rand) (metrics.RunMetric, error) {
	run := metrics.RunMetric{Engine: EngineLocal, StartTime: time.Now()}
	walker := facility.NewRandomStepWalker(instance, make([]bool, instance.Facilities()))

	var step localsearch.StepCtrl = localsearch.HillClimb{}
	if config.Step == StepAnnealing {
		step = localsearch.NewAnnealing(config.T0, config.T1)
	}

	stats := localsearch.Search(walker, rng, newController(budget), step, localsearch.NewZerologLogger(log.Logger))

	run.EndTime = time.Now()
	run.Duration = run.EndTime.Sub(run.StartTime)
	run.Steps = stats.Steps
	run.Fitness = stats.Fitness
	run.Open = countOpen(walker.Open())
	return run, nil
}

func newController(budget BudgetConfig) progress.Controller {
	switch {
	case budget.Seconds > 0 && budget.Adaptive:
		return progress.NewAutoTimer(budget.Seconds)
	case budget.Seconds > 0:
		return progress.NewTimer(budget.Seconds, budget.Granularity)
	default:
		return progress.NewIteration(budget.Iterations)
	}
}

func countOpen(open []bool) int {
	n := 0
	for _, o := range open {
		if o {
			n++
		}
	}
	return n
}
