package experiments

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"anytime/experiments/metrics"
	"anytime/facility"
	"anytime/progress"
	"anytime/utils"

	"github.com/stretchr/testify/require"
)

func smallConfig() Config {
	config := DefaultConfig()
	config.Repeats = 2
	config.MCTS.SamplesRatio = 20
	config.MCTS.Exhaustive = 3
	config.Budget.Iterations = 500
	config.Instance.Facilities = 8
	config.Instance.Cities = 12
	return config
}

func TestConfig(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		require.NoError(t, DefaultConfig().Validate())
	})

	t.Run("load overlays the file on the defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "run.yaml")
		data := []byte("engine: local\nrepeats: 3\nlocal:\n  step: hillclimb\nbudget:\n  seconds: 0.5\n  adaptive: true\n")
		require.NoError(t, os.WriteFile(path, data, 0644))

		config, err := LoadConfig(path)
		require.NoError(t, err)
		require.Equal(t, EngineLocal, config.Engine)
		require.Equal(t, 3, config.Repeats)
		require.Equal(t, StepHillClimb, config.Local.Step)
		require.Equal(t, 0.5, config.Budget.Seconds)
		require.True(t, config.Budget.Adaptive)
		require.Equal(t, DefaultConfig().Instance, config.Instance, "Unset sections should keep defaults")
	})

	t.Run("load reports a missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})

	t.Run("validation collects every problem", func(t *testing.T) {
		config := DefaultConfig()
		config.Repeats = 0
		config.MCTS.Policy = "uct"
		config.MCTS.Eps = 2

		err := config.Validate()
		require.ErrorIs(t, err, ErrInvalidConfig)
		require.ErrorContains(t, err, "repeats")
		require.ErrorContains(t, err, `unknown policy "uct"`)
		require.ErrorContains(t, err, "eps")
	})

	t.Run("local engine needs a budget", func(t *testing.T) {
		config := DefaultConfig()
		config.Engine = EngineLocal
		config.Budget.Iterations = 0
		require.ErrorContains(t, config.Validate(), "budget")
	})

	t.Run("granularity applies to timed tree search", func(t *testing.T) {
		config := DefaultConfig()
		config.Budget.Seconds = 1
		config.Budget.Granularity = 0
		require.ErrorContains(t, config.Validate(), "granularity")

		config.Budget.Adaptive = true
		require.NoError(t, config.Validate())
	})

	t.Run("unknown engine", func(t *testing.T) {
		config := DefaultConfig()
		config.Engine = "tabu"
		require.ErrorIs(t, config.Validate(), ErrInvalidConfig)
	})
}

func TestSummarize(t *testing.T) {
	t.Run("mean deviation and range", func(t *testing.T) {
		s := Summarize(EngineMCTS, []float64{2, 4, 4, 4, 5, 5, 7, 9})
		require.Equal(t, 8, s.Runs)
		require.InDelta(t, 5.0, s.Mean, 1e-12)
		require.InDelta(t, math.Sqrt(32.0/7), s.Stddev, 1e-12)
		require.Equal(t, 2.0, s.Min)
		require.Equal(t, 9.0, s.Max)
	})

	t.Run("single run has no deviation", func(t *testing.T) {
		s := Summarize(EngineLocal, []float64{3})
		require.Zero(t, s.Stddev)
		require.Equal(t, 3.0, s.Mean)
	})

	t.Run("no runs", func(t *testing.T) {
		require.Equal(t, metrics.SummaryRecord{Engine: EngineLocal}, Summarize(EngineLocal, nil))
	})
}

func TestDecisionBudget(t *testing.T) {
	mcts := MCTSConfig{SamplesRatio: 20}

	t.Run("iterations per decision left", func(t *testing.T) {
		budget := decisionBudget(mcts, BudgetConfig{Iterations: 7}, 8)
		ctrl := budget(3)
		require.IsType(t, &progress.Iteration{}, ctrl)

		calls := 0
		for ctrl.Progress(0) <= 1 {
			calls++
		}
		require.Equal(t, 3*20+1, calls)
	})

	t.Run("seconds select a timer", func(t *testing.T) {
		budget := decisionBudget(mcts, BudgetConfig{Seconds: 2, Granularity: 10}, 5)
		require.IsType(t, &progress.Timer{}, budget(4))
	})

	t.Run("adaptive selects an auto timer", func(t *testing.T) {
		budget := decisionBudget(mcts, BudgetConfig{Seconds: 2, Adaptive: true}, 5)
		require.IsType(t, &progress.AutoTimer{}, budget(4))
	})

	t.Run("single facility keeps the whole budget", func(t *testing.T) {
		require.NotPanics(t, func() {
			decisionBudget(mcts, BudgetConfig{Seconds: 1, Granularity: 1}, 1)(1)
		})
	})
}

func TestExhaustive(t *testing.T) {
	in := facility.Generate(utils.NewRand(3), 6, 10, .4)
	state := facility.NewState(in, utils.NewRand(4))

	moves := exhaustive(state)
	require.Len(t, moves, 6)

	best := state.Clone()
	for _, m := range moves {
		best.Apply(m)
	}
	for i := 0; i < 200; i++ {
		random := state.Clone()
		require.LessOrEqual(t, best.Cost(), random.EstimatePlayout(utils.NewRand(uint64(i))),
			"Enumeration should beat every random completion")
	}
}

func TestRun(t *testing.T) {
	policies := []string{PolicyRandMean, PolicyEpsMean, PolicyMuSigma, PolicyEpsBest}
	for _, policy := range policies {
		t.Run("mcts "+policy, func(t *testing.T) {
			config := smallConfig()
			config.MCTS.Policy = policy

			report, err := Run(config, nil)
			require.NoError(t, err)
			require.Len(t, report.Runs, 2)
			for _, run := range report.Runs {
				require.Equal(t, 8, run.Decisions, "Every facility should be decided")
				require.Positive(t, run.Open)
				require.False(t, math.IsInf(run.Fitness, 1))
			}
			// 8 facilities with 3 left to enumerate means 5 searched decisions per run.
			require.Len(t, report.Decisions, 10)
			require.Equal(t, 8*20+1, report.Decisions[0].Playouts, "First search should sample 8 decisions left")
			require.Equal(t, 4*20+1, report.Decisions[4].Playouts, "Budget should shrink with the decisions left")
			require.Equal(t, 1, report.Decisions[5].Run)
		})
	}

	t.Run("mcts on a time budget", func(t *testing.T) {
		config := smallConfig()
		// Each decision gets far less than a microsecond, so a search ends
		// at the first clock read after the anchoring one.
		config.Budget.Seconds = 1e-9
		config.Budget.Granularity = 50

		report, err := Run(config, nil)
		require.NoError(t, err)
		require.Len(t, report.Decisions, 10)
		for _, d := range report.Decisions {
			require.Equal(t, 50, d.Playouts, "Timer should stop the search instead of the iteration budget")
		}
		for _, run := range report.Runs {
			require.Equal(t, 8, run.Decisions)
		}
	})

	t.Run("local search", func(t *testing.T) {
		for _, step := range []string{StepHillClimb, StepAnnealing} {
			config := smallConfig()
			config.Engine = EngineLocal
			config.Local.Step = step

			report, err := Run(config, nil)
			require.NoError(t, err)
			require.Len(t, report.Runs, 2)
			require.Empty(t, report.Decisions)
			for _, run := range report.Runs {
				require.Positive(t, run.Steps)
				require.False(t, math.IsInf(run.Fitness, 1), "Search should leave the empty start")
			}
		}
	})

	t.Run("repeats are reproducible", func(t *testing.T) {
		config := smallConfig()
		first, err := Run(config, nil)
		require.NoError(t, err)
		second, err := Run(config, nil)
		require.NoError(t, err)

		require.Equal(t, first.Summary, second.Summary)
	})

	t.Run("writes records", func(t *testing.T) {
		config := smallConfig()
		config.OutputDir = t.TempDir()

		_, err := Run(config, nil)
		require.NoError(t, err)

		files, err := filepath.Glob(filepath.Join(config.OutputDir, EngineMCTS, "*", "*.csv"))
		require.NoError(t, err)
		require.Len(t, files, 3)
	})

	t.Run("rejects invalid config", func(t *testing.T) {
		config := smallConfig()
		config.Repeats = 0
		_, err := Run(config, nil)
		require.ErrorIs(t, err, ErrInvalidConfig)
	})
}
