package game

import (
	"fmt"
	"math"

	"tak/utils"
)

// WinScore is the magnitude returned for decided positions. Heuristic scores
// stay within [-1, 1] so a decided game always dominates.
const WinScore = 1000.0

// Weights balances the heuristic features. They need not sum to one.
type Weights struct {
	Road     float64 `yaml:"road"`
	Flats    float64 `yaml:"flats"`
	Center   float64 `yaml:"center"`
	Mobility float64 `yaml:"mobility"`
	Reserve  float64 `yaml:"reserve"`
}

// DefaultWeights favours road building, then the flat count.
var DefaultWeights = Weights{Road: 0.4, Flats: 0.3, Center: 0.1, Mobility: 0.1, Reserve: 0.1}

// NumFeatures is the length of the vector returned by Features.
const NumFeatures = 5

// Features returns the normalized feature vector of b from c's point of view,
// in the order road, flats, center, mobility, reserve. Every feature lies in
// [-1, 1].
func Features(b *Board, c Color) [NumFeatures]float64 {
	o := c.Opponent()
	return [NumFeatures]float64{
		utils.Normalize(RoadSpan(b, c), RoadSpan(b, o)),
		utils.Normalize(FlatCount(b, c), FlatCount(b, o)),
		utils.Normalize(centerControl(b, c), centerControl(b, o)),
		utils.Normalize(mobility(b, c), mobility(b, o)),
		utils.Normalize(b.reserves[c].Total(), b.reserves[o].Total()),
	}
}

// Heuristic is a static evaluator combining weighted features with a terminal
// bonus for decided positions.
type Heuristic struct {
	Weights Weights
}

func (h Heuristic) Evaluate(b *Board, perspective Color) float64 {
	if score, ok := terminalScore(b, perspective); ok {
		return score
	}
	f := Features(b, perspective)
	w := h.Weights
	return w.Road*f[0] + w.Flats*f[1] + w.Center*f[2] + w.Mobility*f[3] + w.Reserve*f[4]
}

var defaultHeuristic = Heuristic{Weights: DefaultWeights}

// EvaluateHeuristic evaluates b with DefaultWeights.
func EvaluateHeuristic(b *Board, perspective Color) float64 {
	return defaultHeuristic.Evaluate(b, perspective)
}

// EvaluateFlats only looks at the flat count and decided positions.
func EvaluateFlats(b *Board, perspective Color) float64 {
	if score, ok := terminalScore(b, perspective); ok {
		return score
	}
	return utils.Normalize(FlatCount(b, perspective), FlatCount(b, perspective.Opponent()))
}

// terminalScore returns ±WinScore, or 0 for a draw, when b is decided.
func terminalScore(b *Board, c Color) (float64, bool) {
	switch {
	case HasRoad(b, c):
		return WinScore, true
	case HasRoad(b, c.Opponent()):
		return -WinScore, true
	case !flatsDecide(b):
		return 0, false
	}
	winner, ok := FlatWinner(b)
	switch {
	case !ok:
		return 0, true
	case winner == c:
		return WinScore, true
	default:
		return -WinScore, true
	}
}

// RoadSpan returns the widest extent, in cells along one axis, covered by a
// single connected group of c's road pieces.
func RoadSpan(b *Board, c Color) int {
	size := b.rules.Size
	visited := make([]bool, len(b.cells))
	best := 0
	for start := range b.cells {
		if visited[start] || !b.isRoadCell(start, c) {
			continue
		}
		minX, maxX, minY, maxY := size, -1, size, -1
		stack := []int{start}
		visited[start] = true
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := i%size, i/size
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
			for _, d := range Directions {
				dx, dy := d.Delta()
				nx, ny := x+dx, y+dy
				if !b.InBounds(nx, ny) {
					continue
				}
				j := b.index(nx, ny)
				if !visited[j] && b.isRoadCell(j, c) {
					visited[j] = true
					stack = append(stack, j)
				}
			}
		}
		best = max(best, maxX-minX+1, maxY-minY+1)
	}
	return best
}

// centerControl weights each stack c controls by its closeness to the center.
func centerControl(b *Board, c Color) float64 {
	size := b.rules.Size
	mid := float64(size-1) / 2
	score := 0.0
	for i, s := range b.cells {
		if !s.Controlled(c) {
			continue
		}
		x, y := float64(i%size), float64(i/size)
		dist := math.Abs(x-mid) + math.Abs(y-mid)
		score += 2*mid + 1 - dist
	}
	return score
}

// mobility counts the pieces c could lift from the stacks it controls.
func mobility(b *Board, c Color) int {
	n := 0
	for _, s := range b.cells {
		if s.Controlled(c) {
			n += min(len(s), b.rules.CarryLimit)
		}
	}
	return n
}

// LinearEvaluator scores positions with a learned linear model over Features,
// squashed with tanh. Weights come from configuration; training happens
// outside this module.
type LinearEvaluator struct {
	Weights [NumFeatures]float64
	Bias    float64
}

// NewLinearEvaluator builds an evaluator from a weight slice of length
// NumFeatures.
func NewLinearEvaluator(weights []float64, bias float64) (*LinearEvaluator, error) {
	if len(weights) != NumFeatures {
		return nil, fmt.Errorf("linear evaluator wants %d weights, got %d", NumFeatures, len(weights))
	}
	l := &LinearEvaluator{Bias: bias}
	copy(l.Weights[:], weights)
	return l, nil
}

func (l *LinearEvaluator) Evaluate(b *Board, perspective Color) float64 {
	if score, ok := terminalScore(b, perspective); ok {
		return score
	}
	f := Features(b, perspective)
	sum := l.Bias
	for i, w := range l.Weights {
		sum += w * f[i]
	}
	return math.Tanh(sum)
}
