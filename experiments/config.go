package experiments

import (
	"errors"
	"fmt"
	"os"

	"anytime/meta"

	"gopkg.in/yaml.v3"
)

const (
	EngineMCTS  = "mcts"
	EngineLocal = "local"

	PolicyRandMean = "randmean"
	PolicyEpsMean  = "epsmean"
	PolicyMuSigma  = "musigma"
	PolicyEpsBest  = "epsbest"

	StepHillClimb = "hillclimb"
	StepAnnealing = "annealing"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config describes a batch of repeated runs on one generated instance.
type Config struct {
	Seed    uint64 `yaml:"seed"`
	Repeats int    `yaml:"repeats"`
	Engine  string `yaml:"engine"`
	// OutputDir receives the CSV records. Empty disables writing.
	OutputDir string `yaml:"output_dir"`

	MCTS     MCTSConfig     `yaml:"mcts"`
	Local    LocalConfig    `yaml:"local"`
	Budget   BudgetConfig   `yaml:"budget"`
	Instance InstanceConfig `yaml:"instance"`
}

type MCTSConfig struct {
	Policy       string  `yaml:"policy"`
	Eps          float64 `yaml:"eps"`
	K            float64 `yaml:"k"`
	SamplesRatio int     `yaml:"samples_ratio"`
	// Exhaustive switches to enumeration when this few decisions are left.
	Exhaustive int `yaml:"exhaustive"`
}

type LocalConfig struct {
	Step string  `yaml:"step"`
	T0   float64 `yaml:"t0"`
	T1   float64 `yaml:"t1"`
}

// BudgetConfig bounds a run. Seconds > 0 selects a timer over the iteration
// budget. Tree search splits Seconds over its decisions and otherwise spends
// samples_ratio playouts per decision left; Iterations bounds local search.
type BudgetConfig struct {
	Iterations  int     `yaml:"iterations"`
	Seconds     float64 `yaml:"seconds"`
	Granularity int     `yaml:"granularity"`
	Adaptive    bool    `yaml:"adaptive"`
}

type InstanceConfig struct {
	Facilities   int     `yaml:"facilities"`
	Cities       int     `yaml:"cities"`
	FacilityCost float64 `yaml:"facility_cost"`
	Seed         uint64  `yaml:"seed"`
}

func DefaultConfig() Config {
	return Config{
		Seed:    meta.SEED,
		Repeats: meta.REPEATS,
		Engine:  EngineMCTS,
		MCTS: MCTSConfig{
			Policy:       PolicyRandMean,
			Eps:          meta.EPS,
			K:            meta.K,
			SamplesRatio: meta.SAMPLES_RATIO,
			Exhaustive:   meta.EXHAUSTIVE_DECISIONS,
		},
		Local: LocalConfig{
			Step: StepAnnealing,
			T0:   meta.T0,
			T1:   meta.T1,
		},
		Budget: BudgetConfig{
			Iterations:  meta.ITERATIONS,
			Granularity: meta.GRANULARITY,
		},
		Instance: InstanceConfig{
			Facilities:   meta.FACILITIES,
			Cities:       meta.CITIES,
			FacilityCost: meta.FACILITY_COST,
			Seed:         meta.SEED,
		},
	}
}

// LoadConfig overlays the YAML file at path on the defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("parse config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Repeats < 1 {
		errs = append(errs, errors.New("repeats must be at least 1"))
	}
	switch c.Engine {
	case EngineMCTS:
		switch c.MCTS.Policy {
		case PolicyRandMean, PolicyEpsMean, PolicyMuSigma, PolicyEpsBest:
		default:
			errs = append(errs, fmt.Errorf("unknown policy %q", c.MCTS.Policy))
		}
		if c.MCTS.Eps < 0 || c.MCTS.Eps > 1 {
			errs = append(errs, errors.New("eps must be within [0, 1]"))
		}
		if c.MCTS.SamplesRatio < 1 {
			errs = append(errs, errors.New("samples_ratio must be at least 1"))
		}
		if c.MCTS.Exhaustive < 0 {
			errs = append(errs, errors.New("exhaustive must not be negative"))
		}
	case EngineLocal:
		switch c.Local.Step {
		case StepHillClimb:
		case StepAnnealing:
			if c.Local.T0 <= 0 || c.Local.T1 <= 0 {
				errs = append(errs, errors.New("annealing temperatures must be positive"))
			}
		default:
			errs = append(errs, fmt.Errorf("unknown step %q", c.Local.Step))
		}
		if c.Budget.Seconds <= 0 && c.Budget.Iterations < 1 {
			errs = append(errs, errors.New("budget needs iterations or seconds"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown engine %q", c.Engine))
	}
	if c.Budget.Seconds < 0 {
		errs = append(errs, errors.New("seconds must not be negative"))
	}
	if c.Budget.Seconds > 0 && !c.Budget.Adaptive && c.Budget.Granularity < 1 {
		errs = append(errs, errors.New("granularity must be at least 1"))
	}
	if c.Instance.Facilities < 1 || c.Instance.Cities < c.Instance.Facilities {
		errs = append(errs, errors.New("instance needs 1 <= facilities <= cities"))
	}
	if c.Instance.FacilityCost <= 0 {
		errs = append(errs, errors.New("facility_cost must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
