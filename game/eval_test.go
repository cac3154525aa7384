package game

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvaluateHeuristic(t *testing.T) {
	t.Run("empty board is balanced", func(t *testing.T) {
		b := testBoard(t, 5)
		require.Equal(t, 0.0, EvaluateHeuristic(b, Blue))
	})

	t.Run("road dominates", func(t *testing.T) {
		b := testBoard(t, 5)
		row(b, 1, Green)
		require.Equal(t, WinScore, EvaluateHeuristic(b, Green))
		require.Equal(t, -WinScore, EvaluateHeuristic(b, Blue))
	})

	t.Run("zero sum between perspectives", func(t *testing.T) {
		b := testBoard(t, 5)
		put(b, 2, 2, flat(Blue))
		put(b, 0, 1, flat(Blue))
		put(b, 4, 4, standing(Green))
		b.SetReserve(Blue, Reserve{FlatStone: 19, StandingStone: 5, Capstone: 1})
		b.SetReserve(Green, Reserve{FlatStone: 21, StandingStone: 4, Capstone: 1})

		blue := EvaluateHeuristic(b, Blue)
		require.Greater(t, blue, 0.0, "Blue holds more flats and the center")
		require.InDelta(t, -blue, EvaluateHeuristic(b, Green), 1e-9)
		require.Less(t, math.Abs(blue), 1.0, "Heuristic scores stay below a decided game")
	})

	t.Run("decided flat count", func(t *testing.T) {
		b := reserveBoard(t, 5)
		put(b, 0, 0, flat(Green))
		b.SetReserve(Green, Reserve{})
		require.Equal(t, WinScore, EvaluateFlats(b, Green))
		require.Equal(t, -WinScore, EvaluateFlats(b, Blue))
	})
}

func TestRoadSpan(t *testing.T) {
	b := testBoard(t, 5)
	require.Equal(t, 0, RoadSpan(b, Blue))
	put(b, 0, 0, flat(Blue))
	put(b, 1, 0, flat(Blue))
	put(b, 1, 1, capstone(Blue))
	put(b, 3, 0, flat(Blue))
	put(b, 4, 4, standing(Blue))
	require.Equal(t, 2, RoadSpan(b, Blue), "Standing stones and separate groups do not extend the span")
}

func TestLinearEvaluator(t *testing.T) {
	t.Run("wrong weight count", func(t *testing.T) {
		_, err := NewLinearEvaluator([]float64{1, 2}, 0)
		require.Error(t, err)
	})

	t.Run("squashes the weighted features", func(t *testing.T) {
		l, err := NewLinearEvaluator([]float64{0, 1, 0, 0, 0}, 0.5)
		require.NoError(t, err)
		b := testBoard(t, 4)
		put(b, 0, 0, flat(Blue))

		f := Features(b, Blue)
		require.Equal(t, 1.0, f[1], "Blue holds every flat")
		require.InDelta(t, math.Tanh(1.5), l.Evaluate(b, Blue), 1e-9)
		require.InDelta(t, math.Tanh(-0.5), l.Evaluate(b, Green), 1e-9)
	})
}
