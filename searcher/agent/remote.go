package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"tak/experiments/metrics"
	"tak/game"
)

// SearchRequest asks a game server to search the position reached by playing
// Actions from an empty board of the given size. Zero rule settings leave the
// server's own rules in place.
type SearchRequest struct {
	Size            int      `json:"size"`
	CarryLimit      int      `json:"carry_limit,omitempty"`
	ReserveEndsGame *bool    `json:"reserve_ends_game,omitempty"`
	Actions         []string `json:"actions"`
}

type SearchResponse struct {
	Action string              `json:"action"`
	Metric metrics.SearchMetric `json:"metric"`
}

type remoteAgent struct {
	url    string
	client *http.Client
}

// NewRemoteAgent returns an agent delegating the search to a game server
// reachable at baseURL.
func NewRemoteAgent(baseURL string, client *http.Client) Agent {
	if client == nil {
		client = http.DefaultClient
	}
	return remoteAgent{url: baseURL + "/api/search", client: client}
}

func (a remoteAgent) FindMove(ctx context.Context, g *game.Game) (game.Action, metrics.SearchMetric, error) {
	rules := g.Rules()
	reserveEndsGame := rules.ReserveEndsGame
	payload := SearchRequest{
		Size:            rules.Size,
		CarryLimit:      rules.CarryLimit,
		ReserveEndsGame: &reserveEndsGame,
		Actions:         make([]string, len(g.History)),
	}
	for i, action := range g.History {
		payload.Actions[i] = action.String()
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, metrics.SearchMetric{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return nil, metrics.SearchMetric{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, metrics.SearchMetric{}, fmt.Errorf("request search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		out, _ := io.ReadAll(resp.Body)
		return nil, metrics.SearchMetric{}, fmt.Errorf("search returned status %d: %s", resp.StatusCode, bytes.TrimSpace(out))
	}
	var sr SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, metrics.SearchMetric{}, fmt.Errorf("decode search response: %w", err)
	}
	action, err := game.ParseAction(sr.Action, g.Turn, g.MoveCount, g.Rules())
	if err != nil {
		return nil, sr.Metric, err
	}
	return action, sr.Metric, nil
}
