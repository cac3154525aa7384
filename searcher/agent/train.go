package agent

import (
	"context"
	"sync"

	"tak/experiments/metrics"
	"tak/game"
	"tak/searcher"
	"tak/utils"

	"golang.org/x/exp/rand"
)

type randomAgent struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomAgent returns an agent playing uniformly random legal actions.
func NewRandomAgent(seed uint64) Agent {
	return &randomAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a *randomAgent) FindMove(_ context.Context, g *game.Game) (game.Action, metrics.SearchMetric, error) {
	actions := g.LegalActions()
	if len(actions) == 0 {
		return nil, metrics.SearchMetric{}, searcher.ErrNoActions
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return actions[a.rng.Intn(len(actions))], metrics.SearchMetric{Candidates: len(actions)}, nil
}

type exploringAgent struct {
	inner   Agent
	epsilon float64
	mu      sync.Mutex
	rng     *rand.Rand
}

// NewExploringAgent returns an agent for self-play that plays a random legal
// action with probability epsilon and defers to inner otherwise.
func NewExploringAgent(inner Agent, epsilon float64, seed uint64) Agent {
	return &exploringAgent{
		inner:   inner,
		epsilon: utils.Clamp(epsilon, 0, 1),
		rng:     rand.New(rand.NewSource(seed)),
	}
}

func (a *exploringAgent) FindMove(ctx context.Context, g *game.Game) (game.Action, metrics.SearchMetric, error) {
	a.mu.Lock()
	explore := a.rng.Float64() < a.epsilon
	pick := a.rng.Int()
	a.mu.Unlock()

	if !explore {
		return a.inner.FindMove(ctx, g)
	}
	actions := g.LegalActions()
	if len(actions) == 0 {
		return nil, metrics.SearchMetric{}, searcher.ErrNoActions
	}
	return actions[pick%len(actions)], metrics.SearchMetric{Candidates: len(actions)}, nil
}
