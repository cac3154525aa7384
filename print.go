package main

import (
	"context"
	"fmt"

	"tak/experiments/metrics"
	"tak/game"
	"tak/searcher/agent"
)

// boardPrinter shows the board and the last action before asking its agent.
type boardPrinter struct {
	agent.Agent
}

func (p boardPrinter) FindMove(ctx context.Context, g *game.Game) (game.Action, metrics.SearchMetric, error) {
	if n := len(g.History); n > 0 {
		fmt.Printf("%s played %s\n", g.Turn.Opponent(), g.History[n-1])
	}
	fmt.Println(g.Board)
	return p.Agent.FindMove(ctx, g)
}
