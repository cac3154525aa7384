package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tak/experiments/metrics"
	"tak/game"
	"tak/meta"
	"tak/searcher"
	"tak/searcher/agent"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Option func(e *LocalEngine)

// WithMaxTurns caps the number of plies; an unfinished game has no winner.
func WithMaxTurns(maxTurns int) Option {
	return func(e *LocalEngine) {
		if maxTurns > 0 {
			e.maxTurns = maxTurns
		}
	}
}

func WithID(id string) Option {
	return func(e *LocalEngine) {
		if id != "" {
			e.id = id
		}
	}
}

// LocalEngine is the turn controller of a game between two in-process agents.
// It owns the authoritative game; agents only ever see copies.
type LocalEngine struct {
	Game     *game.Game
	Agents   [game.NumColors]agent.Agent
	maxTurns int
	id       string
}

func NewLocalEngine(rules *game.Rules, blue, green agent.Agent, options ...Option) *LocalEngine {
	if blue == nil || green == nil {
		panic("need an agent for both colors")
	}
	e := &LocalEngine{
		Game:     game.NewGame(rules),
		Agents:   [game.NumColors]agent.Agent{game.Blue: blue, game.Green: green},
		maxTurns: meta.MAX_TURNS,
		id:       uuid.NewString(),
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Run executes the game loop until the game is decided, the side to move has
// no action left or maxTurns plies were played.
func (e *LocalEngine) Run(ctx context.Context) (string, metrics.GameMetric, []metrics.MoveMetric, error) {
	g := e.Game
	gameMetric := metrics.GameMetric{
		ID:             e.id,
		StartingPlayer: g.Turn,
		StartTime:      time.Now(),
	}
	log.Info().Msgf("game %s: %s is starting on a %dx%d board", e.id, g.Turn, g.Rules().Size, g.Rules().Size)

	var moveMetrics []metrics.MoveMetric
	for !g.Over() && g.MoveCount < e.maxTurns {
		mover := g.Turn
		action, metric, err := e.Agents[mover].FindMove(ctx, g.Copy())
		switch {
		case errors.Is(err, searcher.ErrNoActions):
			log.Info().Msgf("game %s: %s has no legal action, counting flats", e.id, mover)
			g.Adjudicate()
			continue
		case errors.Is(err, searcher.ErrNoValidMoves):
			panic("No legal moves at all!")
		case err != nil:
			return "", e.complete(gameMetric), moveMetrics, fmt.Errorf("%s agent: %w", mover, err)
		}

		if err := g.Play(action); err != nil {
			return "", e.complete(gameMetric), moveMetrics, fmt.Errorf("%s played %s: %w", mover, action, err)
		}
		log.Debug().Msgf("game %s: ply %d %s %s", e.id, g.MoveCount, mover, action)
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         g.MoveCount,
			Player:       mover,
			Action:       action.String(),
			SearchMetric: metric,
		})
	}

	gameMetric = e.complete(gameMetric)
	if g.Over() {
		log.Info().Msgf("game %s: %s after %d plies", e.id, g.Result, g.MoveCount)
	} else {
		log.Info().Msgf("game %s: stopped after %d plies (no winner yet)", e.id, g.MoveCount)
	}
	return gameMetric.Winner, gameMetric, moveMetrics, nil
}

func (e *LocalEngine) complete(m metrics.GameMetric) metrics.GameMetric {
	g := e.Game
	m.EndTime = time.Now()
	m.Duration = m.EndTime.Sub(m.StartTime)
	m.TotalMoves = g.MoveCount
	m.Reason = g.Result.Reason.String()
	if g.Over() && g.Result.Reason != game.Draw {
		m.Winner = g.Result.Winner.String()
	}
	return m
}
