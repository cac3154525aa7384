package gamemaster

import (
	"time"

	"tak/experiments/metrics"
	"tak/game"
)

type NewGameRequest struct {
	Size int `json:"size"`
}

type PlayRequest struct {
	Action string `json:"action"`
}

type ReserveDTO struct {
	Flats     int `json:"flats"`
	Standing  int `json:"standing"`
	Capstones int `json:"capstones"`
}

type GameResponse struct {
	ID        string                `json:"id"`
	Size      int                   `json:"size"`
	Turn      string                `json:"turn"`
	MoveCount int                   `json:"move_count"`
	Board     string                `json:"board"`
	Reserves  map[string]ReserveDTO `json:"reserves"`
	Scores    map[string]int        `json:"scores"`
	Status    string                `json:"status"` // "ongoing" / "over"
	Winner    string                `json:"winner,omitempty"`
	Reason    string                `json:"reason"`
	History   []string              `json:"history"`
	UpdatedAt time.Time             `json:"updated_at"`
}

type PlayResponse struct {
	Update Update       `json:"update"`
	Game   GameResponse `json:"game"`
}

type AIResponse struct {
	Update Update               `json:"update"`
	Metric metrics.SearchMetric `json:"metric"`
	Game   GameResponse         `json:"game"`
}

type ActionsResponse struct {
	Actions []string `json:"actions"`
}

type UpdatesResponse struct {
	Updates []Update `json:"updates"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func toGameResponse(s *Session) GameResponse {
	g, updatedAt := s.Snapshot()
	resp := GameResponse{
		ID:        s.ID,
		Size:      g.Rules().Size,
		Turn:      g.Turn.String(),
		MoveCount: g.MoveCount,
		Board:     g.Board.String(),
		Reserves:  make(map[string]ReserveDTO, game.NumColors),
		Scores:    make(map[string]int, game.NumColors),
		Status:    "ongoing",
		Reason:    g.Result.Reason.String(),
		History:   make([]string, len(g.History)),
		UpdatedAt: updatedAt,
	}
	for _, p := range g.Players {
		r := g.Board.Reserve(p.Color)
		resp.Reserves[p.Color.String()] = ReserveDTO{
			Flats:     r[game.FlatStone],
			Standing:  r[game.StandingStone],
			Capstones: r[game.Capstone],
		}
		resp.Scores[p.Color.String()] = p.Score
	}
	if g.Over() {
		resp.Status = "over"
		if g.Result.Reason != game.Draw {
			resp.Winner = g.Result.Winner.String()
		}
	}
	for i, a := range g.History {
		resp.History[i] = a.String()
	}
	return resp
}
