package gamemaster

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"tak/game"
	"tak/searcher"
	"tak/searcher/agent"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var ErrGameNotFound = errors.New("game not found")

// RulesFn builds the rules for a size x size board. It must return a fresh
// value on every call.
type RulesFn func(size int) (*game.Rules, error)

type Option func(m *Manager)

// WithRules makes hosted games and searches use rules built by fn instead of
// the standard rules.
func WithRules(fn RulesFn) Option {
	return func(m *Manager) {
		if fn != nil {
			m.rules = fn
		}
	}
}

// Manager hosts games keyed by id and answers AI requests with one shared,
// stateless minimax searcher.
type Manager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	minimax     *searcher.Minimax
	defaultSize int
	rules       RulesFn
}

func NewManager(minimax *searcher.Minimax, defaultSize int, options ...Option) *Manager {
	m := &Manager{
		sessions:    make(map[string]*Session),
		minimax:     minimax,
		defaultSize: defaultSize,
		rules:       game.NewStandardRules,
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// NewGame hosts a new game on a size x size board, or the default size when
// size is 0.
func (m *Manager) NewGame(size int) (*Session, error) {
	if size == 0 {
		size = m.defaultSize
	}
	rules, err := m.rules(size)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	s := newSession(uuid.NewString(), rules)
	m.sessions[s.ID] = s
	log.Info().Msgf("hosting game %s on a %dx%d board (carry limit %d)", s.ID, size, size, rules.CarryLimit)
	return s, nil
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return s, nil
}

func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	delete(m.sessions, id)
	return nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Search replays req on a fresh board and returns the action minimax picks
// for the side to move. Rule settings carried by req override the manager's.
// No session is created.
func (m *Manager) Search(ctx context.Context, req agent.SearchRequest) (agent.SearchResponse, error) {
	size := req.Size
	if size == 0 {
		size = m.defaultSize
	}
	rules, err := m.rules(size)
	if err != nil {
		return agent.SearchResponse{}, err
	}
	if req.CarryLimit != 0 {
		rules.CarryLimit = req.CarryLimit
	}
	if req.ReserveEndsGame != nil {
		rules.ReserveEndsGame = *req.ReserveEndsGame
	}
	if err := rules.Validate(); err != nil {
		return agent.SearchResponse{}, err
	}
	g := game.NewGame(rules)
	for i, text := range req.Actions {
		if _, err := g.PlayText(text); err != nil {
			return agent.SearchResponse{}, fmt.Errorf("replay ply %d %q: %w", i+1, text, err)
		}
	}
	if g.Over() {
		return agent.SearchResponse{}, game.ErrGameOver
	}

	action, metric, err := m.minimax.FindBestMove(ctx, g.Board, g.Turn, g.MoveCount)
	if err != nil {
		return agent.SearchResponse{Metric: metric}, err
	}
	return agent.SearchResponse{Action: action.String(), Metric: metric}, nil
}
