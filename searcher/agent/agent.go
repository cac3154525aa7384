package agent

import (
	"context"

	"tak/experiments/metrics"
	"tak/game"
)

type Agent interface {
	// FindMove returns the action to play for the side to move in g and the
	// metrics of the search behind it (zero when no search ran). g is a copy
	// and may be modified freely.
	FindMove(ctx context.Context, g *game.Game) (game.Action, metrics.SearchMetric, error)
}
