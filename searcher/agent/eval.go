package agent

import (
	"context"

	"tak/experiments/metrics"
	"tak/game"
	"tak/searcher"
)

type minimaxAgent struct {
	minimax *searcher.Minimax
}

// NewMinimaxAgent returns an agent playing the best action found by minimax.
func NewMinimaxAgent(minimax *searcher.Minimax) Agent {
	return minimaxAgent{minimax: minimax}
}

func (a minimaxAgent) FindMove(ctx context.Context, g *game.Game) (game.Action, metrics.SearchMetric, error) {
	return a.minimax.FindBestMove(ctx, g.Board, g.Turn, g.MoveCount)
}

type greedyAgent struct {
	evaluate game.Evaluate
}

// NewGreedyAgent returns an agent playing the action ranked first by the move
// ordering heuristic, a one-ply lookahead.
func NewGreedyAgent(evaluate game.Evaluate) Agent {
	if evaluate == nil {
		evaluate = game.EvaluateHeuristic
	}
	return greedyAgent{evaluate: evaluate}
}

func (a greedyAgent) FindMove(_ context.Context, g *game.Game) (game.Action, metrics.SearchMetric, error) {
	collector := metrics.NewCollector()
	collector.Start(1, 1)
	actions := g.LegalActions()
	collector.SetCandidates(len(actions))
	if len(actions) == 0 {
		return nil, collector.Complete(), searcher.ErrNoActions
	}
	searcher.OrderActions(actions, g.Board, g.Turn, a.evaluate)
	collector.SetDepthReached(1)
	return actions[0], collector.Complete(), nil
}
