package searcher

import (
	"math"
	"testing"

	"anytime/utils"

	"github.com/stretchr/testify/require"
)

func expanded[P any](moves ...string) *Node[string, P] {
	node := &Node[string, P]{}
	node.Expand(moves)
	return node
}

func TestRandMean(t *testing.T) {
	t.Run("running mean is order independent", func(t *testing.T) {
		orders := [][]float64{
			{10, 20, 30}, {10, 30, 20}, {20, 10, 30},
			{20, 30, 10}, {30, 10, 20}, {30, 20, 10},
		}
		policy := NewRandMean[string, *seqState](utils.NewRand(1))
		for _, order := range orders {
			node := &Node[string, MeanPayload]{}
			for _, e := range order {
				policy.Update(node, -1, e)
			}
			require.InDelta(t, 20.0, node.Payload.Estimate, 1e-12, "Mean of %v should be 20", order)
			require.Equal(t, 3, node.Payload.Visits)
		}
	})

	t.Run("best child is the lowest visited mean", func(t *testing.T) {
		policy := NewRandMean[string, *seqState](utils.NewRand(1))
		node := expanded[MeanPayload]("A", "B", "C")
		policy.Update(node.Child(0), -1, 8)
		policy.Update(node.Child(2), -1, 3)
		policy.Update(node.Child(2), -1, 5)

		require.Equal(t, 2, policy.BestChild(node), "Unvisited B must not win with its zero estimate")
	})

	t.Run("no decision without visits", func(t *testing.T) {
		policy := NewRandMean[string, *seqState](utils.NewRand(1))
		require.Equal(t, -1, policy.BestChild(expanded[MeanPayload]("A", "B")))
	})

	t.Run("choose covers every child", func(t *testing.T) {
		policy := NewRandMean[string, *seqState](utils.NewRand(5))
		node := expanded[MeanPayload]("A", "B", "C")
		seen := map[int]bool{}
		for i := 0; i < 100; i++ {
			seen[policy.Choose(node, nil)] = true
		}
		require.Len(t, seen, 3, "Uniform choice should reach every child")
	})

	t.Run("expands once visits reach the branching factor", func(t *testing.T) {
		policy := NewRandMean[string, *seqState](utils.NewRand(1))
		state := newSeqState(4)
		node := &Node[string, MeanPayload]{}

		require.False(t, policy.Expand(node, state, 0, 0))
		node.Payload.Visits = 2
		require.False(t, policy.Expand(node, state, 0, 0))
		node.Payload.Visits = 3
		require.True(t, policy.Expand(node, state, 0, 0), "Three options should expand at three visits")
	})

	t.Run("expands by left decisions when known", func(t *testing.T) {
		policy := NewRandMean[int, *pickState](utils.NewRand(1))
		state := newPickState(6)
		state.Apply(0)
		node := &Node[int, MeanPayload]{Payload: MeanPayload{Visits: 4}}

		require.False(t, policy.Expand(node, state, 0, 0))
		node.Payload.Visits = 5
		require.True(t, policy.Expand(node, state, 0, 0))
	})

	t.Run("panics without random source", func(t *testing.T) {
		require.Panics(t, func() { NewRandMean[string, *seqState](nil) })
	})
}

func TestEpsMean(t *testing.T) {
	t.Run("zero eps always picks the best", func(t *testing.T) {
		policy := NewEpsMean[string, *seqState](utils.NewRand(2), 0)
		node := expanded[MeanPayload]("A", "B", "C")
		policy.Update(node.Child(0), -1, 4)
		policy.Update(node.Child(1), -1, 2)
		policy.Update(node.Child(2), -1, 9)

		for i := 0; i < 50; i++ {
			require.Equal(t, 1, policy.Choose(node, nil))
		}
	})

	t.Run("unvisited children fall back to uniform", func(t *testing.T) {
		policy := NewEpsMean[string, *seqState](utils.NewRand(2), 0)
		node := expanded[MeanPayload]("A", "B", "C")
		seen := map[int]bool{}
		for i := 0; i < 100; i++ {
			seen[policy.Choose(node, nil)] = true
		}
		require.Len(t, seen, 3)
	})

	t.Run("eps of one explores", func(t *testing.T) {
		policy := NewEpsMean[string, *seqState](utils.NewRand(3), 1)
		node := expanded[MeanPayload]("A", "B", "C")
		policy.Update(node.Child(1), -1, 2)
		picks := 0
		for i := 0; i < 300; i++ {
			if policy.Choose(node, nil) != 1 {
				picks++
			}
		}
		require.Greater(t, picks, 150, "Random picks should leave the best child about two thirds of the time")
	})

	t.Run("panics with eps outside [0, 1]", func(t *testing.T) {
		require.Panics(t, func() { NewEpsMean[string, *seqState](utils.NewRand(1), 1.5) })
		require.Panics(t, func() { NewEpsMean[string, *seqState](utils.NewRand(1), -.1) })
	})
}

func TestMuSigma(t *testing.T) {
	t.Run("welford mean and deviation", func(t *testing.T) {
		policy := NewMuSigma[string, *seqState](utils.NewRand(1), 1)
		node := &Node[string, MuSigmaPayload]{}
		for _, e := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
			policy.Update(node, -1, e)
		}
		require.InDelta(t, 5.0, node.Payload.Mean, 1e-12)
		require.InDelta(t, math.Sqrt(32.0/7), node.Payload.Stddev(), 1e-12)
	})

	t.Run("deviation is zero below two samples", func(t *testing.T) {
		p := MuSigmaPayload{}
		require.Zero(t, p.Stddev())
		p = MuSigmaPayload{Visits: 1, Mean: 3}
		require.Zero(t, p.Stddev())
	})

	t.Run("choose visits every child first", func(t *testing.T) {
		policy := NewMuSigma[string, *seqState](utils.NewRand(1), 1)
		node := expanded[MuSigmaPayload]("A", "B", "C")
		policy.Update(node.Child(0), -1, 1)
		require.Equal(t, 1, policy.Choose(node, nil))
		policy.Update(node.Child(1), -1, 1)
		require.Equal(t, 2, policy.Choose(node, nil))
	})

	t.Run("choose minimizes mean plus k sigma", func(t *testing.T) {
		policy := NewMuSigma[string, *seqState](utils.NewRand(1), 2)
		node := expanded[MuSigmaPayload]("A", "B")
		// A: mean 5, stddev 0. B: mean 4, stddev ~1.41 so its score is ~6.83.
		policy.Update(node.Child(0), -1, 5)
		policy.Update(node.Child(0), -1, 5)
		policy.Update(node.Child(1), -1, 3)
		policy.Update(node.Child(1), -1, 5)

		require.Equal(t, 0, policy.Choose(node, nil), "Wide spread should be penalized")
		require.Equal(t, 0, policy.BestChild(node))

		plain := NewMuSigma[string, *seqState](utils.NewRand(1), 0)
		require.Equal(t, 1, plain.BestChild(node), "Without k the lower mean should win")
	})
}

func TestEpsBest(t *testing.T) {
	t.Run("tracks the child of the best playout", func(t *testing.T) {
		policy := NewEpsBest[string, *seqState](utils.NewRand(1), .1)
		node := expanded[BestPayload]("A", "B", "C")

		policy.Update(node, 2, 10)
		policy.Update(node, 0, 7)
		policy.Update(node, 1, 8)
		policy.Update(node, -1, 1)

		require.Equal(t, 4, node.Payload.Visits)
		require.Equal(t, 1.0, node.Payload.Estimate, "Estimate should be the lowest seen")
		require.Equal(t, 0, node.Payload.BestChild, "Leaf updates must not move the best child")
		require.Equal(t, 7.0, node.Payload.BestEstimate)
		require.Equal(t, 0, policy.BestChild(node))
	})

	t.Run("zero eps follows the best child", func(t *testing.T) {
		policy := NewEpsBest[string, *seqState](utils.NewRand(4), 0)
		node := expanded[BestPayload]("A", "B", "C")
		policy.Update(node, 2, 3)
		for i := 0; i < 50; i++ {
			require.Equal(t, 2, policy.Choose(node, nil))
		}
	})

	t.Run("unknown best falls back to the children", func(t *testing.T) {
		policy := NewEpsBest[string, *seqState](utils.NewRand(4), 0)
		node := expanded[BestPayload]("A", "B", "C")
		require.Equal(t, -1, policy.BestChild(node), "Nothing visited means no decision")

		policy.Update(node.Child(1), -1, 6)
		policy.Update(node.Child(2), -1, 4)
		require.Equal(t, 2, policy.BestChild(node))
	})
}
