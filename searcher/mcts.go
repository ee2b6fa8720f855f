package searcher

import (
	"errors"
	"fmt"
	"math"

	"anytime/experiments/metrics"
	"anytime/progress"
	"anytime/utils"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	ErrMoveNotFound = errors.New("move is not a child of the root")
	ErrTerminal     = errors.New("root state has no moves left")
	ErrNoDecision   = errors.New("policy did not pick a root child")
)

type Option func(s *settings)

type settings struct {
	metrics metrics.Collector
	logger  zerolog.Logger
}

func WithMetrics(collector metrics.Collector) Option {
	return func(s *settings) {
		if collector != nil {
			s.metrics = collector
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// Tree is a Monte Carlo search tree over the decisions of a State. The tree
// owns a canonical copy of the state that only changes through Apply.
type Tree[M comparable, S State[M, S], P any] struct {
	root      *Node[M, P]
	state     S
	policy    Policy[M, S, P]
	best      float64
	iteration int
	path      []step[M, P]
	metrics   metrics.Collector
	metric    metrics.SearchMetric
	logger    zerolog.Logger
}

type step[M comparable, P any] struct {
	node   *Node[M, P]
	chosen int
}

// NewTree copies state and expands the root with its moves.
func NewTree[M comparable, S State[M, S], P any](state S, policy Policy[M, S, P], options ...Option) *Tree[M, S, P] {
	if policy == nil {
		panic("tree requires a policy")
	}
	s := &settings{
		metrics: metrics.NewDummyCollector(),
		logger:  log.Logger,
	}
	for _, option := range options {
		option(s)
	}
	s.metrics.SetTreeReused(false)

	t := &Tree[M, S, P]{
		root:    &Node[M, P]{},
		state:   state.Clone(),
		policy:  policy,
		best:    math.Inf(1),
		metrics: s.metrics,
		logger:  s.logger,
	}
	if !t.state.IsTerminal() {
		t.root.Expand(t.state.Moves())
	}
	return t
}

// Search runs playouts while ctrl reports progress of at most 1 and returns
// the move of the root child picked by the policy.
func (t *Tree[M, S, P]) Search(ctrl progress.Controller) (M, error) {
	var none M
	if t.root.IsLeaf() {
		return none, ErrTerminal
	}

	t.metrics.Start()
	best := math.Inf(1)
	playouts := 0
	for ctrl.Progress(best) <= 1 {
		estimate := t.playout()
		best = min(best, estimate)
		playouts++
		t.metrics.AddPlayout(estimate)
	}
	t.metric = t.metrics.Complete()

	i := t.policy.BestChild(t.root)
	if i < 0 || i >= t.root.Len() {
		return none, fmt.Errorf("best child %d of %d: %w", i, t.root.Len(), ErrNoDecision)
	}
	move := t.root.Child(i).Move
	t.logger.Debug().
		Int("playouts", playouts).
		Float64("best", best).
		Interface("move", move).
		Msg("search done")
	return move, nil
}

func (t *Tree[M, S, P]) playout() float64 {
	state := t.state.Clone()
	node := t.root
	t.path = t.path[:0]

	for !node.IsLeaf() {
		node = t.descend(node, state)
	}
	if !state.IsTerminal() && t.policy.Expand(node, state, t.iteration, len(t.path)) {
		if node.Expand(state.Moves()) {
			t.metrics.AddExpansion()
			node = t.descend(node, state)
		}
	}

	estimate := state.EstimatePlayout(t.policy.Random())
	t.policy.Update(node, -1, estimate)
	for i := len(t.path) - 1; i >= 0; i-- {
		t.policy.Update(t.path[i].node, t.path[i].chosen, estimate)
	}

	t.iteration++
	t.best = min(t.best, estimate)
	return estimate
}

func (t *Tree[M, S, P]) descend(node *Node[M, P], state S) *Node[M, P] {
	i := t.policy.Choose(node, state)
	t.path = append(t.path, step[M, P]{node: node, chosen: i})
	child := node.children[i]
	state.Apply(child.Move)
	return child
}

// Apply commits move: the matching root child becomes the new root and every
// other subtree is dropped.
func (t *Tree[M, S, P]) Apply(move M) error {
	i := utils.FindIndex(t.root.Moves(), move)
	if i < 0 {
		return fmt.Errorf("apply %v: %w", move, ErrMoveNotFound)
	}

	t.root = t.root.children[i]
	t.state.Apply(move)
	t.metrics.SetTreeReused(!t.root.IsLeaf())
	if t.root.IsLeaf() && !t.state.IsTerminal() {
		t.root.Expand(t.state.Moves())
	}
	return nil
}

// State returns the canonical state. Callers must not mutate it.
func (t *Tree[M, S, P]) State() S {
	return t.state
}

func (t *Tree[M, S, P]) Root() *Node[M, P] {
	return t.root
}

func (t *Tree[M, S, P]) Size() int {
	return t.root.Size()
}

// Metric returns the collector summary of the last search.
func (t *Tree[M, S, P]) Metric() metrics.SearchMetric {
	return t.metric
}

// Best is the lowest playout estimate seen over the lifetime of the tree.
func (t *Tree[M, S, P]) Best() float64 {
	return t.best
}
