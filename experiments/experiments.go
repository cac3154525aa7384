package experiments

import (
	"context"
	"fmt"

	"tak/config"
	"tak/engine"
	"tak/experiments/metrics"
	"tak/game"
	"tak/searcher"
	"tak/searcher/agent"

	"github.com/rs/zerolog/log"
)

type Summary struct {
	Dir        string
	Games      int
	Wins       map[int]int // By AgentConfig.ID
	Draws      int
	Unfinished int
}

// Run plays cfg.Experiment.Games games for every match up, alternating which
// agent moves first, and stores agent configs, game records and move records
// as CSV files.
func Run(ctx context.Context, cfg config.Config) (Summary, error) {
	exp := cfg.Experiment
	rules, err := cfg.Rules()
	if err != nil {
		return Summary{}, err
	}
	configs := make(map[int]metrics.AgentConfig, len(exp.Agents))
	for _, a := range exp.Agents {
		configs[a.ID] = a
	}

	summary := Summary{Wins: make(map[int]int)}
	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment...", exp.Name)

	for mi, matchup := range exp.MatchUps {
		config1, ok1 := configs[matchup[0]]
		config2, ok2 := configs[matchup[1]]
		if !ok1 || !ok2 {
			return summary, fmt.Errorf("match up %v names an unknown agent", matchup)
		}

		log.Info().Msgf("starting matchup %d of %d between agent1=%+v and agent2=%+v...", mi+1, len(exp.MatchUps), config1, config2)

		for i := 0; i < exp.Games; i++ {
			blue, green := config1, config2
			if i%2 == 1 {
				blue, green = config2, config1
			}

			winner, gameMetric, moveMetrics, err := runGame(ctx, cfg, rules, blue, green)
			if err != nil {
				return summary, fmt.Errorf("matchup %d game %d: %w", mi+1, i+1, err)
			}
			count++
			gameRecords = append(gameRecords, metrics.GameRecord{
				Number:     count,
				Blue:       blue.ID,
				Green:      green.ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}

			switch {
			case winner == game.Blue.String():
				summary.Wins[blue.ID]++
			case winner == game.Green.String():
				summary.Wins[green.ID]++
			case gameMetric.Reason == game.Draw.String():
				summary.Draws++
			default:
				summary.Unfinished++
			}
			log.Info().Msgf("completed matchup %d of %d game %d of %d with winner: %q", mi+1, len(exp.MatchUps), i+1, exp.Games, winner)
		}
		log.Info().Msgf("completed matchup %d of %d", mi+1, len(exp.MatchUps))
	}
	summary.Games = count

	log.Info().Msgf("completed %s experiment", exp.Name)

	writer, err := metrics.NewWriter(exp.OutputDir, exp.Name)
	if err != nil {
		return summary, fmt.Errorf("failed to create experiment writer: %w", err)
	}
	summary.Dir = writer.Dir()
	if err := writer.WriteAgentConfigs(exp.Agents); err != nil {
		return summary, fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return summary, fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return summary, fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msgf("stored experiment records in %s", summary.Dir)
	return summary, nil
}

// runGame executes a single game between two agents and returns the winner
func runGame(ctx context.Context, cfg config.Config, rules *game.Rules, blue, green metrics.AgentConfig) (string, metrics.GameMetric, []metrics.MoveMetric, error) {
	blueAgent, err := NewAgent(cfg, blue)
	if err != nil {
		return "", metrics.GameMetric{}, nil, err
	}
	greenAgent, err := NewAgent(cfg, green)
	if err != nil {
		return "", metrics.GameMetric{}, nil, err
	}
	e := engine.NewLocalEngine(rules, blueAgent, greenAgent, engine.WithMaxTurns(cfg.MaxTurns))
	return e.Run(ctx)
}

// NewAgent builds the agent described by ac. Unset search settings fall back
// to cfg.Search.
func NewAgent(cfg config.Config, ac metrics.AgentConfig) (agent.Agent, error) {
	if err := ac.Validate(); err != nil {
		return nil, err
	}
	name := ac.Evaluator
	if name == "" {
		name = cfg.Search.Evaluator
	}
	evaluate, err := cfg.Evaluator(name)
	if err != nil {
		return nil, err
	}

	switch ac.Kind {
	case metrics.KindGreedy:
		return agent.NewGreedyAgent(evaluate), nil
	case metrics.KindRandom:
		return agent.NewRandomAgent(ac.Seed), nil
	}
	minimax := agent.NewMinimaxAgent(NewMinimax(cfg.Search, ac, evaluate))
	if ac.Kind == metrics.KindExploring {
		return agent.NewExploringAgent(minimax, ac.Epsilon, ac.Seed), nil
	}
	return minimax, nil
}

func NewMinimax(search config.Search, ac metrics.AgentConfig, evaluate game.Evaluate) *searcher.Minimax {
	options := []searcher.Option{
		searcher.WithDepth(search.Depth),
		searcher.WithDuration(search.Duration),
		searcher.WithGoroutines(search.Goroutines),
		searcher.WithEvaluationFn(evaluate),
	}
	// Zero values keep the search defaults above
	options = append(options,
		searcher.WithDepth(ac.Depth),
		searcher.WithDuration(ac.Duration),
		searcher.WithGoroutines(ac.Goroutines),
	)
	if search.Iterative || ac.Iterative {
		options = append(options, searcher.WithIterativeDeepening())
	}
	return searcher.NewMinimax(options...)
}
