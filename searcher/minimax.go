package searcher

import (
	"context"
	"errors"
	"math"
	"time"

	"tak/experiments/metrics"
	"tak/game"
	"tak/meta"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoActions means the side to move has no legal action at all. The
	// caller decides how the game ends.
	ErrNoActions = errors.New("no legal actions")
	// ErrNoValidMoves means actions were generated but none of them could be
	// played. It signals a generator bug.
	ErrNoValidMoves = errors.New("no valid moves")

	errAborted = errors.New("search aborted")
)

type Option func(m *Minimax)

type Minimax struct {
	depth      int
	duration   time.Duration
	goroutines int
	evaluate   game.Evaluate
	pruning    bool
	ordering   bool
	iterative  bool
}

func WithDepth(depth int) Option {
	return func(m *Minimax) {
		if depth > 0 {
			m.depth = depth
		}
	}
}

func WithDuration(duration time.Duration) Option {
	return func(m *Minimax) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

func WithGoroutines(goroutines int) Option {
	return func(m *Minimax) {
		if goroutines > 0 {
			m.goroutines = goroutines
		}
	}
}

func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(m *Minimax) {
		if evaluate != nil {
			m.evaluate = evaluate
		}
	}
}

// WithoutPruning turns the search into plain exhaustive minimax.
func WithoutPruning() Option {
	return func(m *Minimax) {
		m.pruning = false
	}
}

func WithoutOrdering() Option {
	return func(m *Minimax) {
		m.ordering = false
	}
}

// WithIterativeDeepening searches depth 1 up to the maximum depth, trying the
// previous iteration's best action first, and keeps the result of the last
// completed iteration when time runs out.
func WithIterativeDeepening() Option {
	return func(m *Minimax) {
		m.iterative = true
	}
}

func NewMinimax(options ...Option) *Minimax {
	m := &Minimax{ // Default values
		depth:      meta.SEARCH_DEPTH,
		duration:   meta.TIME_BUDGET,
		goroutines: meta.GO_ROUTINES,
		evaluate:   game.EvaluateHeuristic,
		pruning:    true,
		ordering:   true,
	}
	for _, option := range options {
		option(m)
	}
	return m
}

func (m *Minimax) Depth() int {
	return m.depth
}

// FindBestMove returns the action maximizing the evaluation for player after
// moveCount plies have been played on b. b itself is never modified. When the
// time budget or ctx expires the best action fully scored so far is returned,
// or the first ordered action if none was.
func (m *Minimax) FindBestMove(ctx context.Context, b *game.Board, player game.Color, moveCount int) (game.Action, metrics.SearchMetric, error) {
	collector := metrics.NewCollector()
	collector.Start(m.goroutines, m.depth)

	actions := game.GenerateActions(b, player, moveCount)
	return m.searchActions(ctx, b, player, moveCount, actions, collector)
}

// searchActions runs the root search over the given candidates.
func (m *Minimax) searchActions(ctx context.Context, b *game.Board, player game.Color, moveCount int, actions []game.Action, collector metrics.Collector) (game.Action, metrics.SearchMetric, error) {
	collector.SetCandidates(len(actions))
	if len(actions) == 0 {
		return nil, collector.Complete(), ErrNoActions
	}

	ctx, cancel := context.WithTimeout(ctx, m.duration)
	defer cancel()
	s := &search{
		ctx:        ctx,
		root:       player,
		evaluate:   m.evaluate,
		pruning:    m.pruning,
		ordering:   m.ordering,
		goroutines: m.goroutines,
		metrics:    collector,
	}
	if s.ordering {
		OrderActions(actions, b, player, s.evaluate)
	}

	first := 1
	if !m.iterative {
		first = m.depth
	}
	var best *outcome
	for depth := first; depth <= m.depth; depth++ {
		results, err := s.searchRoot(b, actions, moveCount, depth)
		if errors.Is(err, errAborted) {
			collector.SetTimedOut()
			if best == nil {
				best = fallback(actions, results)
			}
			break
		}
		if err != nil {
			return nil, collector.Complete(), err
		}
		i := choose(results)
		if i < 0 {
			return nil, collector.Complete(), ErrNoValidMoves
		}
		best = &outcome{action: actions[i], score: results[i].score, scored: true}
		collector.SetDepthReached(depth)
		promote(actions, i)
	}

	if best.scored {
		collector.SetScore(best.score)
	}
	metric := collector.Complete()
	log.Debug().Msgf("%s picked %s (score %.3f, depth %d/%d, %d nodes, %d prunes, %s, timed out %t)",
		player, best.action, metric.Score, metric.DepthReached, metric.MaxDepth, metric.Nodes, metric.Prunes, metric.Duration, metric.TimedOut)
	return best.action, metric, nil
}

type search struct {
	ctx        context.Context
	root       game.Color
	evaluate   game.Evaluate
	pruning    bool
	ordering   bool
	goroutines int
	metrics    metrics.Collector
}

type result struct {
	score  float64
	scored bool
}

type outcome struct {
	action game.Action
	score  float64
	scored bool
}

// searchRoot scores every root action at the given depth. Results are index
// aligned with actions; actions that fail to execute stay unscored.
func (s *search) searchRoot(b *game.Board, actions []game.Action, moveCount, depth int) ([]result, error) {
	results := make([]result, len(actions))
	if s.goroutines > 1 {
		return results, s.searchRootParallel(b, actions, moveCount, depth, results)
	}

	alpha := math.Inf(-1)
	for i, a := range actions {
		score, ok, err := s.child(b, a, depth, alpha, math.Inf(1), moveCount)
		if err != nil {
			return results, err
		}
		if !ok {
			continue
		}
		results[i] = result{score: score, scored: true}
		if s.pruning {
			alpha = max(alpha, score)
		}
	}
	return results, nil
}

// searchRootParallel gives each root action its own copy and a full window,
// so the chosen action and score match the sequential search.
func (s *search) searchRootParallel(b *game.Board, actions []game.Action, moveCount, depth int, results []result) error {
	var g errgroup.Group
	g.SetLimit(s.goroutines)
	for i, a := range actions {
		i, a := i, a
		g.Go(func() error {
			score, ok, err := s.child(b, a, depth, math.Inf(-1), math.Inf(1), moveCount)
			if err != nil {
				return err
			}
			if ok {
				results[i] = result{score: score, scored: true}
			}
			return nil
		})
	}
	return g.Wait()
}

// child plays a on a fresh copy of b and scores the reply subtree. The boolean
// is false when a cannot be played on b.
func (s *search) child(b *game.Board, a game.Action, depth int, alpha, beta float64, moveCount int) (float64, bool, error) {
	next := b.Copy()
	if _, err := a.Execute(next); err != nil {
		return 0, false, nil
	}
	score, err := s.alphaBeta(next, depth-1, alpha, beta, false, moveCount+1)
	if err != nil {
		return 0, false, err
	}
	return score, true, nil
}

func (s *search) alphaBeta(b *game.Board, depth int, alpha, beta float64, maximizing bool, moveCount int) (float64, error) {
	if s.ctx.Err() != nil {
		return 0, errAborted
	}
	if depth <= 0 || game.IsTerminal(b) {
		return s.leaf(b), nil
	}

	mover := s.root
	if !maximizing {
		mover = s.root.Opponent()
	}
	actions := game.GenerateActions(b, mover, moveCount)
	if len(actions) == 0 {
		return s.leaf(b), nil
	}
	if s.ordering {
		OrderActions(actions, b, mover, s.evaluate)
	}

	best := math.Inf(1)
	if maximizing {
		best = math.Inf(-1)
	}
	scored := false
	for _, a := range actions {
		next := b.Copy()
		if _, err := a.Execute(next); err != nil {
			continue
		}
		score, err := s.alphaBeta(next, depth-1, alpha, beta, !maximizing, moveCount+1)
		if err != nil {
			return 0, err
		}
		scored = true
		if maximizing {
			best = max(best, score)
			alpha = max(alpha, best)
		} else {
			best = min(best, score)
			beta = min(beta, best)
		}
		if s.pruning && beta <= alpha {
			s.metrics.AddPrune()
			break
		}
	}
	if !scored {
		return s.leaf(b), nil
	}
	return best, nil
}

func (s *search) leaf(b *game.Board) float64 {
	s.metrics.AddNode()
	return s.evaluate(b, s.root)
}

// choose returns the index of the first maximal scored result, or -1.
func choose(results []result) int {
	best := -1
	for i, r := range results {
		if r.scored && (best < 0 || r.score > results[best].score) {
			best = i
		}
	}
	return best
}

func fallback(actions []game.Action, results []result) *outcome {
	if i := choose(results); i >= 0 {
		return &outcome{action: actions[i], score: results[i].score, scored: true}
	}
	return &outcome{action: actions[0]}
}

// promote moves actions[i] to the front, keeping the relative order of the
// others.
func promote(actions []game.Action, i int) {
	if i <= 0 {
		return
	}
	a := actions[i]
	copy(actions[1:i+1], actions[:i])
	actions[0] = a
}
