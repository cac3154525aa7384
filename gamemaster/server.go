package gamemaster

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"tak/game"
	"tak/searcher"
	"tak/searcher/agent"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// NewRouter exposes the manager over HTTP.
func NewRouter(m *Manager) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Post("/api/search", m.handleSearch)

	r.Route("/api/games", func(r chi.Router) {
		r.Post("/", m.handleNewGame)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", m.handleGetGame)
			r.Delete("/", m.handleDeleteGame)
			r.Get("/actions", m.handleLegalActions)
			r.Post("/actions", m.handlePlay)
			r.Post("/ai", m.handleAI)
			r.Get("/updates", m.handleUpdates)
		})
	})
	return r
}

func (m *Manager) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req NewGameRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, errors.New("invalid payload"))
			return
		}
	}
	s, err := m.NewGame(req.Size)
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, toGameResponse(s))
}

func (m *Manager) handleGetGame(w http.ResponseWriter, r *http.Request) {
	s, err := m.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, toGameResponse(s))
}

func (m *Manager) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := m.Delete(chi.URLParam(r, "id")); err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (m *Manager) handleLegalActions(w http.ResponseWriter, r *http.Request) {
	s, err := m.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, ActionsResponse{Actions: s.LegalActions()})
}

func (m *Manager) handlePlay(w http.ResponseWriter, r *http.Request) {
	s, err := m.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	var req PlayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid payload"))
		return
	}
	u, err := s.Play(req.Action)
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, PlayResponse{Update: u, Game: toGameResponse(s)})
}

func (m *Manager) handleAI(w http.ResponseWriter, r *http.Request) {
	s, err := m.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	u, metric, err := s.PlayAI(r.Context(), m.minimax)
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, AIResponse{Update: u, Metric: metric, Game: toGameResponse(s)})
}

func (m *Manager) handleUpdates(w http.ResponseWriter, r *http.Request) {
	s, err := m.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	since := 0
	if raw := r.URL.Query().Get("since"); raw != "" {
		since, err = strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("invalid since"))
			return
		}
	}
	writeJSON(w, http.StatusOK, UpdatesResponse{Updates: s.Updates(since)})
}

func (m *Manager) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req agent.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid payload"))
		return
	}
	resp, err := m.Search(r.Context(), req)
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// statusOf maps domain errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrGameOver), errors.Is(err, searcher.ErrNoActions):
		return http.StatusConflict
	case errors.Is(err, game.ErrInvalidMove), errors.Is(err, game.ErrWrongTurn), errors.Is(err, game.ErrInvalidRules):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}
