package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"tak/experiments/metrics"
	"tak/game"
	"tak/meta"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, meta.BOARD_SIZE, cfg.BoardSize)
	require.Equal(t, meta.SEARCH_DEPTH, cfg.Search.Depth)
	require.Equal(t, meta.TIME_BUDGET, cfg.Search.Duration)
	require.Equal(t, zerolog.InfoLevel, cfg.Level())

	rules, err := cfg.Rules()
	require.NoError(t, err)
	require.Equal(t, meta.BOARD_SIZE, rules.Size)
	require.Equal(t, meta.BOARD_SIZE, rules.CarryLimit)

	require.False(t, rules.ReserveEndsGame)

	cfg.CarryLimit = 3
	cfg.ReserveEndsGame = true
	rules, err = cfg.Rules()
	require.NoError(t, err)
	require.Equal(t, 3, rules.CarryLimit)
	require.True(t, rules.ReserveEndsGame)
}

func TestRulesFor(t *testing.T) {
	cfg := Default()
	cfg.CarryLimit = 2

	for _, size := range []int{3, 6} {
		rules, err := cfg.RulesFor(size)
		require.NoError(t, err)
		require.Equal(t, size, rules.Size)
		require.Equal(t, 2, rules.CarryLimit, "Overrides apply to every board size")
	}

	a, err := cfg.RulesFor(4)
	require.NoError(t, err)
	b, err := cfg.RulesFor(4)
	require.NoError(t, err)
	require.NotSame(t, a, b)

	cfg.CarryLimit = 5
	_, err = cfg.RulesFor(4)
	require.ErrorIs(t, err, game.ErrInvalidRules)
	_, err = cfg.RulesFor(12)
	require.ErrorIs(t, err, game.ErrInvalidRules)
}

func TestLoad(t *testing.T) {
	t.Run("empty path keeps the defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		require.Equal(t, Default(), cfg)
	})

	t.Run("file overlays the defaults", func(t *testing.T) {
		path := writeConfig(t, `
board_size: 6
carry_limit: 4
reserve_ends_game: true
log_level: debug
search:
  depth: 4
  duration: 2s
  iterative: true
weights:
  road: 1
experiment:
  name: smoke
  games: 2
  agents:
    - {id: 7, kind: random, seed: 3}
    - {id: 8, kind: exploring, depth: 1, epsilon: 0.25}
  match_ups: [[7, 8]]
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, 6, cfg.BoardSize)
		require.Equal(t, 4, cfg.CarryLimit)
		require.True(t, cfg.ReserveEndsGame)
		require.Equal(t, meta.MAX_TURNS, cfg.MaxTurns, "Unset keys keep their default")
		require.Equal(t, zerolog.DebugLevel, cfg.Level())
		require.Equal(t, 4, cfg.Search.Depth)
		require.Equal(t, 2*time.Second, cfg.Search.Duration)
		require.True(t, cfg.Search.Iterative)
		require.Equal(t, meta.GO_ROUTINES, cfg.Search.Goroutines)
		require.Equal(t, 1.0, cfg.Weights.Road)
		require.Equal(t, game.DefaultWeights.Flats, cfg.Weights.Flats)
		require.Equal(t, "smoke", cfg.Experiment.Name)
		require.Equal(t, [][2]int{{7, 8}}, cfg.Experiment.MatchUps)
		require.Equal(t, metrics.AgentConfig{ID: 8, Kind: metrics.KindExploring, Depth: 1, Epsilon: 0.25}, cfg.Experiment.Agents[1])
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "board_size: [oops"))
		require.Error(t, err)
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		_, err := Load(writeConfig(t, "board_size: 12\nsearch:\n  depth: 0\n"))
		require.ErrorContains(t, err, "board_size 12")
		require.ErrorContains(t, err, "search.depth")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		want   string
	}{
		{"max turns", func(c *Config) { c.MaxTurns = 0 }, "max_turns"},
		{"carry limit", func(c *Config) { c.CarryLimit = 9 }, "carry limit 9"},
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"duration", func(c *Config) { c.Search.Duration = 0 }, "search.duration"},
		{"goroutines", func(c *Config) { c.Search.Goroutines = -1 }, "search.goroutines"},
		{"evaluator", func(c *Config) { c.Search.Evaluator = "oracle" }, "unknown evaluator"},
		{"duplicate agent", func(c *Config) {
			c.Experiment.Agents = append(c.Experiment.Agents, metrics.AgentConfig{ID: 1, Kind: metrics.KindRandom})
		}, "used twice"},
		{"unknown kind", func(c *Config) { c.Experiment.Agents[1].Kind = "psychic" }, "unknown kind"},
		{"epsilon", func(c *Config) {
			c.Experiment.Agents[0].Kind = metrics.KindExploring
			c.Experiment.Agents[0].Epsilon = 2
		}, "epsilon"},
		{"unknown match up", func(c *Config) { c.Experiment.MatchUps = [][2]int{{1, 9}} }, "unknown agent 9"},
		{"linear without weights", func(c *Config) { c.Experiment.Agents[0].Evaluator = EvaluatorLinear }, "linear evaluator"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			require.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}

func TestEvaluator(t *testing.T) {
	b := game.NewBoard(game.MustStandardRules(5))
	require.NoError(t, b.PlacePiece(2, 2, game.Piece{Owner: game.Blue, Type: game.FlatStone}))

	cfg := Default()
	cfg.Linear = Linear{Weights: []float64{1, 1, 1, 1, 1}}

	for _, name := range []string{"", EvaluatorHeuristic, EvaluatorFlats, EvaluatorLinear} {
		t.Run(name, func(t *testing.T) {
			evaluate, err := cfg.Evaluator(name)
			require.NoError(t, err)
			require.Positive(t, evaluate(b, game.Blue))
			require.Negative(t, evaluate(b, game.Green))
		})
	}

	t.Run("weights are used", func(t *testing.T) {
		cfg := Default()
		cfg.Weights = game.Weights{}
		evaluate, err := cfg.Evaluator(EvaluatorHeuristic)
		require.NoError(t, err)
		require.Zero(t, evaluate(b, game.Blue))
	})

	_, err := cfg.Evaluator("oracle")
	require.Error(t, err)
}
