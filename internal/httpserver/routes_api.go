// internal/httpserver/routes_api.go
//
// Leaderboard routes under /api:
//   - POST /api/score → finish the game named by the token and post its score
//   - GET  /api/top   → ranked scores for a board (?n=, ?board=)
//
// Bodies keep the public leaderboard shape: {ok:true,...} on success and
// {ok:false, err:"..."} on failure.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/candymatch/internal/game"
	"github.com/robalobadob/candymatch/internal/leaderboard"
)

func (s *Server) mountAPI(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/score", s.handleScore)
		r.Get("/top", s.handleTop)
	})
}

type scoreReq struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Addr  string `json:"addr"`
}

type scoreRes struct {
	OK    bool   `json:"ok"`
	Score int    `json:"score,omitempty"`
	Err   string `json:"err,omitempty"`
}

func scoreFail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, scoreRes{OK: false, Err: msg})
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		scoreFail(w, http.StatusBadRequest, "bad body")
		return
	}
	claims, err := s.parseToken(req.Token)
	if err != nil {
		scoreFail(w, http.StatusUnauthorized, "bad token")
		return
	}
	g, err := s.store.Get(r.Context(), claims.GameID)
	if err != nil {
		scoreFail(w, http.StatusNotFound, "unknown game")
		return
	}
	if g.Board != claims.Board {
		scoreFail(w, http.StatusUnauthorized, "bad token")
		return
	}
	if s.board == nil {
		scoreFail(w, http.StatusInternalServerError, "server")
		return
	}

	now := s.now()
	var entry leaderboard.Entry
	_, err = g.Finish(now, func(score int) error {
		entry = leaderboard.Sanitize(leaderboard.Entry{
			Addr:  req.Addr,
			Name:  req.Name,
			Score: score,
			TS:    now.UnixMilli(),
		}, s.limits)
		return s.board.Submit(r.Context(), g.Board, entry)
	})
	if errors.Is(err, game.ErrAlreadySubmitted) {
		scoreFail(w, http.StatusConflict, "already submitted")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("gameId", g.ID).Msg("submit score")
		scoreFail(w, http.StatusInternalServerError, "server")
		return
	}

	log.Info().Str("gameId", g.ID).Str("board", g.Board).Str("name", entry.Name).Int("score", entry.Score).Msg("score submitted")
	writeJSON(w, http.StatusOK, scoreRes{OK: true, Score: entry.Score})
}

func (s *Server) handleTop(w http.ResponseWriter, r *http.Request) {
	n, _ := strconv.Atoi(r.URL.Query().Get("n")) // bad input falls back to the default
	board := strings.TrimSpace(r.URL.Query().Get("board"))
	if board == "" {
		board = game.GlobalBoard
	}
	if s.board == nil {
		scoreFail(w, http.StatusInternalServerError, "server")
		return
	}
	rows, err := s.board.Top(r.Context(), board, leaderboard.ClampTop(n, s.limits))
	if err != nil {
		log.Error().Err(err).Str("board", board).Msg("top scores")
		scoreFail(w, http.StatusInternalServerError, "server")
		return
	}
	if rows == nil {
		rows = []leaderboard.Ranked{}
	}
	writeJSON(w, http.StatusOK, rows)
}
