package gamemaster

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tak/config"
	"tak/game"
	"tak/searcher"
	"tak/searcher/agent"

	"github.com/stretchr/testify/require"
)

type testServer struct {
	t       *testing.T
	manager *Manager
	handler http.Handler
}

func newTestServer(t *testing.T, options ...Option) *testServer {
	m := NewManager(searcher.NewMinimax(searcher.WithDepth(1), searcher.WithDuration(5*time.Second)), 4, options...)
	return &testServer{t: t, manager: m, handler: NewRouter(m)}
}

// carryOne builds standard rules limited to lifting a single piece.
func carryOne(size int) (*game.Rules, error) {
	rules, err := game.NewStandardRules(size)
	if err != nil {
		return nil, err
	}
	rules.CarryLimit = 1
	return rules, nil
}

// stackedOpening leaves a Green-Blue stack at (0,0) with Blue on top and Blue
// to move.
var stackedOpening = []string{
	"PLACE_FLAT_STONE 0 0", // Green stone
	"PLACE_FLAT_STONE 1 0", // Blue stone
	"MOVE 1 0 LEFT 1 1",
	"PLACE_FLAT_STONE 3 3",
}

// do sends a request and decodes the JSON response into out when out is not
// nil.
func (s *testServer) do(method, path string, body any, out any) int {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body == nil {
		req.ContentLength = 0
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	if out != nil && rec.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec.Code
}

func (s *testServer) newGame(size int) GameResponse {
	s.t.Helper()
	var resp GameResponse
	require.Equal(s.t, http.StatusCreated, s.do(http.MethodPost, "/api/games", NewGameRequest{Size: size}, &resp))
	return resp
}

func TestPing(t *testing.T) {
	s := newTestServer(t)
	var resp map[string]bool
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/ping", nil, &resp))
	require.True(t, resp["ok"])
}

func TestGames(t *testing.T) {
	t.Run("create with the default size", func(t *testing.T) {
		s := newTestServer(t)
		var resp GameResponse
		require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/games", nil, &resp))
		require.NotEmpty(t, resp.ID)
		require.Equal(t, 4, resp.Size)
		require.Equal(t, "BLUE", resp.Turn)
		require.Equal(t, "ongoing", resp.Status)
		require.Equal(t, ReserveDTO{Flats: 15, Standing: 4}, resp.Reserves["BLUE"])
		require.Empty(t, resp.History)
		require.Equal(t, 1, s.manager.Len())
	})

	t.Run("invalid size", func(t *testing.T) {
		s := newTestServer(t)
		var resp ErrorResponse
		require.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/games", NewGameRequest{Size: 9}, &resp))
		require.Contains(t, resp.Error, "board size")
	})

	t.Run("malformed payload", func(t *testing.T) {
		s := newTestServer(t)
		req := httptest.NewRequest(http.MethodPost, "/api/games", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		s.handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("get and delete", func(t *testing.T) {
		s := newTestServer(t)
		created := s.newGame(5)

		var got GameResponse
		require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/games/"+created.ID, nil, &got))
		require.Equal(t, created.ID, got.ID)
		require.Equal(t, 5, got.Size)
		require.Equal(t, 1, got.Reserves["GREEN"].Capstones)

		require.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/api/games/"+created.ID, nil, nil))
		require.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/games/"+created.ID, nil, nil))
		require.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/api/games/"+created.ID, nil, nil))
		require.Zero(t, s.manager.Len())
	})

	t.Run("unknown game", func(t *testing.T) {
		s := newTestServer(t)
		var resp ErrorResponse
		require.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/games/nope/actions", nil, &resp))
		require.Contains(t, resp.Error, "game not found")
		require.Equal(t, http.StatusNotFound, s.do(http.MethodPost, "/api/games/nope/ai", nil, nil))
	})
}

func TestPlay(t *testing.T) {
	s := newTestServer(t)
	id := s.newGame(4).ID

	var actions ActionsResponse
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/games/"+id+"/actions", nil, &actions))
	require.Len(t, actions.Actions, 16)

	t.Run("valid action", func(t *testing.T) {
		var resp PlayResponse
		require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/games/"+id+"/actions", PlayRequest{Action: "PLACE_FLAT_STONE 1 1"}, &resp))
		require.Equal(t, Update{Ply: 1, Player: "BLUE", Action: "PLACE_FLAT_STONE 1 1", Result: "in progress"}, resp.Update)
		require.Equal(t, "GREEN", resp.Game.Turn)
		require.Equal(t, 1, resp.Game.MoveCount)
		require.Equal(t, 14, resp.Game.Reserves["GREEN"].Flats, "Opening placements use the opponent's stones")
		require.Equal(t, []string{"PLACE_FLAT_STONE 1 1"}, resp.Game.History)
	})

	t.Run("illegal action", func(t *testing.T) {
		var resp ErrorResponse
		require.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/games/"+id+"/actions", PlayRequest{Action: "PLACE_FLAT_STONE 1 1"}, &resp))
		require.Contains(t, resp.Error, "not empty")
		require.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/games/"+id+"/actions", PlayRequest{Action: "JUMP"}, nil))
	})

	t.Run("ai plays for the side to move", func(t *testing.T) {
		var resp AIResponse
		require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/games/"+id+"/ai", nil, &resp))
		require.Equal(t, 2, resp.Update.Ply)
		require.Equal(t, "GREEN", resp.Update.Player)
		require.Equal(t, 1, resp.Metric.DepthReached)
		require.Positive(t, resp.Metric.Candidates)
		require.Equal(t, "BLUE", resp.Game.Turn)
	})

	t.Run("updates", func(t *testing.T) {
		var all UpdatesResponse
		require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/games/"+id+"/updates", nil, &all))
		require.Len(t, all.Updates, 2)

		var later UpdatesResponse
		require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/games/"+id+"/updates?since=1", nil, &later))
		require.Equal(t, all.Updates[1:], later.Updates)

		var none UpdatesResponse
		require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/games/"+id+"/updates?since=9", nil, &none))
		require.Empty(t, none.Updates)

		require.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/games/"+id+"/updates?since=x", nil, nil))
	})
}

func TestFinishedGame(t *testing.T) {
	s := newTestServer(t)
	id := s.newGame(3).ID
	// Green's flats go to the corners, Blue builds the top row
	for _, a := range []string{"PLACE_FLAT_STONE 2 2", "PLACE_FLAT_STONE 0 0", "PLACE_FLAT_STONE 1 0", "PLACE_FLAT_STONE 0 2", "PLACE_FLAT_STONE 2 0"} {
		require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/games/"+id+"/actions", PlayRequest{Action: a}, nil))
	}

	var got GameResponse
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/games/"+id, nil, &got))
	require.Equal(t, "over", got.Status)
	require.Equal(t, "BLUE", got.Winner)
	require.Equal(t, "road", got.Reason)
	require.Equal(t, 9+got.Reserves["BLUE"].Flats+got.Reserves["BLUE"].Standing, got.Scores["BLUE"])

	var actions ActionsResponse
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/games/"+id+"/actions", nil, &actions))
	require.Empty(t, actions.Actions)

	require.Equal(t, http.StatusConflict, s.do(http.MethodPost, "/api/games/"+id+"/actions", PlayRequest{Action: "PLACE_FLAT_STONE 1 1"}, nil))
	require.Equal(t, http.StatusConflict, s.do(http.MethodPost, "/api/games/"+id+"/ai", nil, nil))
}

func TestSearch(t *testing.T) {
	s := newTestServer(t)

	t.Run("replays and answers", func(t *testing.T) {
		var resp agent.SearchResponse
		req := agent.SearchRequest{Size: 4, Actions: []string{"PLACE_FLAT_STONE 0 0", "PLACE_FLAT_STONE 3 3"}}
		require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/search", req, &resp))
		require.NotEmpty(t, resp.Action)
		require.Equal(t, 1, resp.Metric.DepthReached)
		require.Zero(t, s.manager.Len(), "Searching does not host a game")
	})

	t.Run("bad replay", func(t *testing.T) {
		var resp ErrorResponse
		req := agent.SearchRequest{Size: 4, Actions: []string{"PLACE_FLAT_STONE 0 0", "PLACE_FLAT_STONE 0 0"}}
		require.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/search", req, &resp))
		require.Contains(t, resp.Error, "replay ply 2")
	})

	t.Run("finished game", func(t *testing.T) {
		req := agent.SearchRequest{Size: 3, Actions: []string{"PLACE_FLAT_STONE 2 2", "PLACE_FLAT_STONE 0 0", "PLACE_FLAT_STONE 1 0", "PLACE_FLAT_STONE 0 2", "PLACE_FLAT_STONE 2 0"}}
		require.Equal(t, http.StatusConflict, s.do(http.MethodPost, "/api/search", req, nil))
	})
}

func TestConfiguredRules(t *testing.T) {
	t.Run("hosted games use the configured carry limit", func(t *testing.T) {
		s := newTestServer(t, WithRules(carryOne))
		id := s.newGame(4).ID
		for _, a := range stackedOpening {
			require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/games/"+id+"/actions", PlayRequest{Action: a}, nil), a)
		}

		var actions ActionsResponse
		require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/games/"+id+"/actions", nil, &actions))
		require.Contains(t, actions.Actions, "MOVE 0 0 RIGHT 1 1")
		require.NotContains(t, actions.Actions, "MOVE 0 0 RIGHT 2 1 1")

		var resp ErrorResponse
		require.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/games/"+id+"/actions", PlayRequest{Action: "MOVE 0 0 RIGHT 2 1 1"}, &resp))
		require.Contains(t, resp.Error, "carry limit")
		require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/games/"+id+"/actions", PlayRequest{Action: "MOVE 0 0 RIGHT 1 1"}, nil))
	})

	t.Run("search replays under the configured carry limit", func(t *testing.T) {
		s := newTestServer(t, WithRules(carryOne))
		req := agent.SearchRequest{Size: 4, Actions: append(append([]string(nil), stackedOpening...), "MOVE 0 0 RIGHT 2 1 1")}
		require.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/search", req, nil))
	})

	t.Run("search follows the caller's rules", func(t *testing.T) {
		s := newTestServer(t)
		actions := append(append([]string(nil), stackedOpening...), "MOVE 0 0 RIGHT 2 1 1")
		require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/search", agent.SearchRequest{Size: 4, Actions: actions}, nil),
			"The standard carry limit allows lifting both pieces")

		var resp ErrorResponse
		req := agent.SearchRequest{Size: 4, CarryLimit: 1, Actions: actions}
		require.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/search", req, &resp))
		require.Contains(t, resp.Error, "carry limit")

		req = agent.SearchRequest{Size: 4, CarryLimit: 9, Actions: stackedOpening}
		require.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/search", req, nil))
	})

	t.Run("config overrides reach hosted games", func(t *testing.T) {
		cfg := config.Default()
		cfg.CarryLimit = 2
		cfg.ReserveEndsGame = true
		s := newTestServer(t, WithRules(cfg.RulesFor))

		created := s.newGame(5)
		session, err := s.manager.Get(created.ID)
		require.NoError(t, err)
		g, _ := session.Snapshot()
		require.Equal(t, 2, g.Rules().CarryLimit)
		require.True(t, g.Rules().ReserveEndsGame)
	})
}
