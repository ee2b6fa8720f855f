package main

import (
	"fmt"
	"os"
	"time"

	"anytime/experiments"
	"anytime/experiments/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	metricsOut string
	seed       uint64
	repeats    int
	outputDir  string

	policy       string
	eps          float64
	k            float64
	samplesRatio int

	step       string
	iterations int
	seconds    float64
	adaptive   bool

	rootCmd = &cobra.Command{
		Use:   "anytime",
		Short: "Anytime optimization of facility location with MCTS and local search",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("log level: %w", err)
			}
			zerolog.SetGlobalLevel(level)
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
			return nil
		},
		SilenceUsage: true,
	}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the experiment described by --config",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("run requires --config")
			}
			config, err := experiments.LoadConfig(configPath)
			if err != nil {
				return err
			}
			return execute(cmd, config)
		},
	}

	mctsCmd = &cobra.Command{
		Use:   "mcts",
		Short: "Decide facilities one by one with Monte Carlo tree search",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := baseConfig()
			if err != nil {
				return err
			}
			config.Engine = experiments.EngineMCTS
			flags := cmd.Flags()
			if flags.Changed("policy") {
				config.MCTS.Policy = policy
			}
			if flags.Changed("eps") {
				config.MCTS.Eps = eps
			}
			if flags.Changed("k") {
				config.MCTS.K = k
			}
			if flags.Changed("samples-ratio") {
				config.MCTS.SamplesRatio = samplesRatio
			}
			if flags.Changed("seconds") {
				config.Budget.Seconds = seconds
			}
			if flags.Changed("adaptive") {
				config.Budget.Adaptive = adaptive
			}
			return execute(cmd, config)
		},
	}

	localCmd = &cobra.Command{
		Use:   "local",
		Short: "Improve a facility set with random steps",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := baseConfig()
			if err != nil {
				return err
			}
			config.Engine = experiments.EngineLocal
			flags := cmd.Flags()
			if flags.Changed("step") {
				config.Local.Step = step
			}
			if flags.Changed("iterations") {
				config.Budget.Iterations = iterations
			}
			if flags.Changed("seconds") {
				config.Budget.Seconds = seconds
			}
			if flags.Changed("adaptive") {
				config.Budget.Adaptive = adaptive
			}
			return execute(cmd, config)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML run configuration")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&metricsOut, "metrics-out", "", "Write Prometheus metrics to this file after the run")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "Override the random seed")
	rootCmd.PersistentFlags().IntVar(&repeats, "repeats", 0, "Override the number of runs")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "Directory for CSV records")

	mctsCmd.Flags().StringVar(&policy, "policy", experiments.PolicyRandMean, "Tree policy (randmean, epsmean, musigma, epsbest)")
	mctsCmd.Flags().Float64Var(&eps, "eps", 0, "Exploration probability of the epsilon policies")
	mctsCmd.Flags().Float64Var(&k, "k", 0, "Standard deviation weight of musigma")
	mctsCmd.Flags().IntVar(&samplesRatio, "samples-ratio", 0, "Playouts per undecided facility")
	mctsCmd.Flags().Float64Var(&seconds, "seconds", 0, "Time budget of the whole run, split over the decisions")
	mctsCmd.Flags().BoolVar(&adaptive, "adaptive", false, "Calibrate how often the clock is read")

	localCmd.Flags().StringVar(&step, "step", experiments.StepAnnealing, "Step acceptance (hillclimb, annealing)")
	localCmd.Flags().IntVar(&iterations, "iterations", 0, "Step budget")
	localCmd.Flags().Float64Var(&seconds, "seconds", 0, "Time budget, takes precedence over iterations")
	localCmd.Flags().BoolVar(&adaptive, "adaptive", false, "Calibrate how often the clock is read")

	rootCmd.AddCommand(runCmd, mctsCmd, localCmd)
}

// baseConfig starts from --config when given and from the defaults otherwise.
func baseConfig() (experiments.Config, error) {
	if configPath == "" {
		return experiments.DefaultConfig(), nil
	}
	return experiments.LoadConfig(configPath)
}

func execute(cmd *cobra.Command, config experiments.Config) error {
	flags := cmd.Flags()
	if flags.Changed("seed") {
		config.Seed = seed
	}
	if flags.Changed("repeats") {
		config.Repeats = repeats
	}
	if flags.Changed("output") {
		config.OutputDir = outputDir
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewPrometheusCollector(registry)

	report, err := experiments.Run(config, collector)
	if err != nil {
		return err
	}

	summary := report.Summary
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d runs, mean %.4f, stddev %.4f, min %.4f, max %.4f\n",
		summary.Engine, summary.Runs, summary.Mean, summary.Stddev, summary.Min, summary.Max)

	if metricsOut != "" {
		if err := prometheus.WriteToTextfile(metricsOut, registry); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		log.Info().Msgf("stored metrics in %s", metricsOut)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("anytime failed")
		os.Exit(1)
	}
}
