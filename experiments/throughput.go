package experiments

import (
	"fmt"

	"tak/config"
	"tak/experiments/metrics"
)

// ThroughputExperiment pits each goroutine count against itself, so both
// sides have the same strength and games have similar lengths. Move records
// then show how nodes per move scale with root parallelism.
func ThroughputExperiment(base metrics.AgentConfig, goroutines []int, games int) config.Experiment {
	exp := config.Experiment{
		Name:  "throughput",
		Games: games,
	}
	for i, n := range goroutines {
		ac := base
		ac.ID = i + 1
		ac.Kind = metrics.KindMinimax
		ac.Goroutines = n
		exp.Agents = append(exp.Agents, ac)
		exp.MatchUps = append(exp.MatchUps, [2]int{ac.ID, ac.ID})
	}
	return exp
}

// DepthExperiment pairs a baseline agent against the same agent searching to
// each of the given depths.
func DepthExperiment(base metrics.AgentConfig, depths []int, games int) (config.Experiment, error) {
	if base.ID != 0 {
		return config.Experiment{}, fmt.Errorf("baseline agent must use id 0, got %d", base.ID)
	}
	exp := config.Experiment{
		Name:   "depth",
		Games:  games,
		Agents: []metrics.AgentConfig{base},
	}
	for i, d := range depths {
		ac := base
		ac.ID = i + 1
		ac.Depth = d
		exp.Agents = append(exp.Agents, ac)
		exp.MatchUps = append(exp.MatchUps, [2]int{base.ID, ac.ID})
	}
	return exp, nil
}
