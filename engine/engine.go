package engine

import (
	"context"

	"tak/experiments/metrics"
)

type Engine interface {
	// Run plays a game till there's a winner or a max number of plies is reached
	Run(ctx context.Context) (winner string, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
