// Package config loads run settings from a YAML file on top of the defaults
// in package meta.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"tak/experiments/metrics"
	"tak/game"
	"tak/meta"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type Search struct {
	Depth      int           `yaml:"depth"`
	Duration   time.Duration `yaml:"duration"`
	Goroutines int           `yaml:"goroutines"`
	Iterative  bool          `yaml:"iterative"`
	Evaluator  string        `yaml:"evaluator"`
}

type Linear struct {
	Weights []float64 `yaml:"weights"`
	Bias    float64   `yaml:"bias"`
}

type Experiment struct {
	Name      string                `yaml:"name"`
	Games     int                   `yaml:"games"` // Per match up
	OutputDir string                `yaml:"output_dir"`
	Agents    []metrics.AgentConfig `yaml:"agents"`
	MatchUps  [][2]int              `yaml:"match_ups"` // Pairs of agent IDs
}

type Config struct {
	BoardSize  int          `yaml:"board_size"`
	CarryLimit int          `yaml:"carry_limit"` // 0 means the board size
	// ReserveEndsGame also ends a game on the flat count once a reserve is
	// empty
	ReserveEndsGame bool `yaml:"reserve_ends_game"`
	MaxTurns   int          `yaml:"max_turns"`
	LogLevel   string       `yaml:"log_level"`
	ServerAddr string       `yaml:"server_addr"`
	Search     Search       `yaml:"search"`
	Weights    game.Weights `yaml:"weights"`
	Linear     Linear       `yaml:"linear"`
	Experiment Experiment   `yaml:"experiment"`
}

func Default() Config {
	return Config{
		BoardSize:  meta.BOARD_SIZE,
		MaxTurns:   meta.MAX_TURNS,
		LogLevel:   zerolog.LevelInfoValue,
		ServerAddr: meta.SERVER_ADDR,
		Search: Search{
			Depth:      meta.SEARCH_DEPTH,
			Duration:   meta.TIME_BUDGET,
			Goroutines: meta.GO_ROUTINES,
			Evaluator:  EvaluatorHeuristic,
		},
		Weights: game.DefaultWeights,
		Experiment: Experiment{
			Name:      "minimax",
			Games:     10,
			OutputDir: "experiments",
			Agents: []metrics.AgentConfig{
				{ID: 1, Kind: metrics.KindMinimax, Depth: 2, Duration: time.Second, Goroutines: 1},
				{ID: 2, Kind: metrics.KindGreedy},
			},
			MatchUps: [][2]int{{1, 2}},
		},
	}
}

// Load overlays the YAML file at path on Default. An empty path returns the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.BoardSize < game.MinBoardSize || c.BoardSize > game.MaxBoardSize {
		errs = append(errs, fmt.Errorf("board_size %d not in [%d, %d]", c.BoardSize, game.MinBoardSize, game.MaxBoardSize))
	} else if _, err := c.Rules(); err != nil {
		errs = append(errs, err)
	}
	if c.MaxTurns <= 0 {
		errs = append(errs, fmt.Errorf("max_turns must be positive, got %d", c.MaxTurns))
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if c.Search.Depth <= 0 {
		errs = append(errs, fmt.Errorf("search.depth must be positive, got %d", c.Search.Depth))
	}
	if c.Search.Duration <= 0 {
		errs = append(errs, fmt.Errorf("search.duration must be positive, got %s", c.Search.Duration))
	}
	if c.Search.Goroutines <= 0 {
		errs = append(errs, fmt.Errorf("search.goroutines must be positive, got %d", c.Search.Goroutines))
	}
	if _, err := c.Evaluator(c.Search.Evaluator); err != nil {
		errs = append(errs, err)
	}

	ids := make(map[int]bool, len(c.Experiment.Agents))
	for _, a := range c.Experiment.Agents {
		if ids[a.ID] {
			errs = append(errs, fmt.Errorf("experiment agent id %d used twice", a.ID))
		}
		ids[a.ID] = true
		if err := a.Validate(); err != nil {
			errs = append(errs, err)
		}
		if _, err := c.Evaluator(a.Evaluator); err != nil {
			errs = append(errs, fmt.Errorf("experiment agent %d: %w", a.ID, err))
		}
	}
	for _, m := range c.Experiment.MatchUps {
		for _, id := range m {
			if !ids[id] {
				errs = append(errs, fmt.Errorf("match up %v names unknown agent %d", m, id))
			}
		}
	}
	return errors.Join(errs...)
}

func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

const (
	EvaluatorHeuristic = "heuristic"
	EvaluatorFlats     = "flats"
	EvaluatorLinear    = "linear"
)

// Evaluator resolves an evaluator name. The empty name means the heuristic
// with the configured weights.
func (c Config) Evaluator(name string) (game.Evaluate, error) {
	switch name {
	case "", EvaluatorHeuristic:
		return game.Heuristic{Weights: c.Weights}.Evaluate, nil
	case EvaluatorFlats:
		return game.EvaluateFlats, nil
	case EvaluatorLinear:
		l, err := game.NewLinearEvaluator(c.Linear.Weights, c.Linear.Bias)
		if err != nil {
			return nil, err
		}
		return l.Evaluate, nil
	}
	return nil, fmt.Errorf("unknown evaluator %q", name)
}

// Rules returns the rules for the configured board size.
func (c Config) Rules() (*game.Rules, error) {
	return c.RulesFor(c.BoardSize)
}

// RulesFor returns the standard rules for a size x size board with the
// configured overrides applied. Every call returns a fresh value.
func (c Config) RulesFor(size int) (*game.Rules, error) {
	rules, err := game.NewStandardRules(size)
	if err != nil {
		return nil, err
	}
	if c.CarryLimit != 0 {
		rules.CarryLimit = c.CarryLimit
	}
	rules.ReserveEndsGame = c.ReserveEndsGame
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return rules, nil
}
