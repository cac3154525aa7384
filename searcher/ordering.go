package searcher

import (
	"math"
	"sort"

	"tak/game"
	"tak/utils"
)

// Bonuses added on top of the one-ply evaluation when ordering candidates.
const (
	RoadBonus     = 2.0
	SpanBonus     = 0.05
	CapstoneBonus = 0.1
	CenterBonus   = 0.05
)

// OrderActions sorts actions in place, most promising first for player. Each
// action is tried on a scratch copy of b and scored with evaluate plus bonuses
// for winning roads, growing its own road span, shrinking the opponent's,
// capstone placements and central placements. Actions that fail to execute
// sink to the end. The sort is stable so equal scores keep generation order.
func OrderActions(actions []game.Action, b *game.Board, player game.Color, evaluate game.Evaluate) {
	if len(actions) < 2 {
		return
	}
	opponent := player.Opponent()
	ownSpan, theirSpan := game.RoadSpan(b, player), game.RoadSpan(b, opponent)

	scratch := b.Copy()
	scores := make([]float64, len(actions))
	for i, a := range actions {
		undo, err := a.Execute(scratch)
		if err != nil {
			scores[i] = math.Inf(-1)
			continue
		}
		score := evaluate(scratch, player)
		if game.HasRoad(scratch, player) {
			score += RoadBonus
		}
		score += SpanBonus * float64(game.RoadSpan(scratch, player)-ownSpan)
		score += SpanBonus * float64(theirSpan-game.RoadSpan(scratch, opponent))
		if p, ok := a.(game.Placement); ok {
			score += placementBonus(p, b.Size())
		}
		scores[i] = score
		if err := undo.Revert(scratch); err != nil {
			scratch = b.Copy()
		}
	}

	order := make([]int, len(actions))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})
	sorted := make([]game.Action, len(actions))
	for i, k := range order {
		sorted[i] = actions[k]
	}
	copy(actions, sorted)
}

func placementBonus(p game.Placement, size int) float64 {
	bonus := 0.0
	if p.Type == game.Capstone {
		bonus += CapstoneBonus
	}
	if p.Type.IsRoad() {
		mid := float64(size-1) / 2
		dist := utils.Abs(float64(p.X)-mid) + utils.Abs(float64(p.Y)-mid)
		if mid > 0 {
			bonus += CenterBonus * (1 - dist/(2*mid))
		}
	}
	return bonus
}
