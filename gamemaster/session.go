package gamemaster

import (
	"context"
	"errors"
	"sync"
	"time"

	"tak/experiments/metrics"
	"tak/game"
	"tak/searcher"
)

// Update records one ply played in a session.
type Update struct {
	Ply    int    `json:"ply"`
	Player string `json:"player"`
	Action string `json:"action"`
	Result string `json:"result"`
}

// Session is a hosted game. All access to the game goes through the session
// lock; callers only ever receive copies.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	game      *game.Game
	updates   []Update
	updatedAt time.Time
}

func newSession(id string, rules *game.Rules) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		CreatedAt: now,
		game:      game.NewGame(rules),
		updatedAt: now,
	}
}

// Snapshot returns a copy of the game and the time of the last update.
func (s *Session) Snapshot() (*game.Game, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Copy(), s.updatedAt
}

func (s *Session) LegalActions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	actions := s.game.LegalActions()
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = a.String()
	}
	return out
}

// Play parses text for the side to move and plays it. A rejected action
// leaves the game untouched.
func (s *Session) Play(text string) (Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mover := s.game.Turn
	action, err := s.game.PlayText(text)
	if err != nil {
		return Update{}, err
	}
	return s.record(mover, action), nil
}

// PlayAI lets minimax pick and play the action for the side to move. When no
// action is left the game is settled on the flat count and ErrNoActions is
// returned.
func (s *Session) PlayAI(ctx context.Context, minimax *searcher.Minimax) (Update, metrics.SearchMetric, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game.Over() {
		return Update{}, metrics.SearchMetric{}, game.ErrGameOver
	}
	mover := s.game.Turn
	action, metric, err := minimax.FindBestMove(ctx, s.game.Board, mover, s.game.MoveCount)
	if err != nil {
		if errors.Is(err, searcher.ErrNoActions) {
			s.game.Adjudicate()
			s.updatedAt = time.Now()
		}
		return Update{}, metric, err
	}
	if err := s.game.Play(action); err != nil {
		return Update{}, metric, err
	}
	return s.record(mover, action), metric, nil
}

// Updates returns the plies played after the first since plies.
func (s *Session) Updates(since int) []Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	if since < 0 {
		since = 0
	}
	if since >= len(s.updates) {
		return []Update{}
	}
	return append([]Update(nil), s.updates[since:]...)
}

func (s *Session) record(mover game.Color, action game.Action) Update {
	u := Update{
		Ply:    s.game.MoveCount,
		Player: mover.String(),
		Action: action.String(),
		Result: s.game.Result.String(),
	}
	s.updates = append(s.updates, u)
	s.updatedAt = time.Now()
	return u
}
