// internal/httpserver/admin.go
//
// Operator routes, mounted only when admin.password_hash is configured:
//   - DELETE /admin/scores?board= → wipe one leaderboard board
//
// Credentials are HTTP basic auth; the password is checked against a bcrypt
// hash (see `candymatch hash-password`).

package httpserver

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/robalobadob/candymatch/internal/game"
)

func (s *Server) mountAdmin(r chi.Router) {
	if s.cfg.Admin.PasswordHash == "" {
		return
	}
	r.Route("/admin", func(r chi.Router) {
		r.Use(s.requireAdmin)
		r.Delete("/scores", s.handleClearScores)
	})
}

// requireAdmin enforces basic auth against the configured user and hash.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pw, ok := r.BasicAuth()
		if !ok || !s.checkAdmin(user, pw) {
			w.Header().Set("WWW-Authenticate", `Basic realm="candymatch-admin"`)
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) checkAdmin(user, pw string) bool {
	want := s.cfg.Admin.User
	if want == "" {
		want = "admin"
	}
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(want)) == 1
	pwOK := bcrypt.CompareHashAndPassword([]byte(s.cfg.Admin.PasswordHash), []byte(pw)) == nil
	return userOK && pwOK
}

func (s *Server) handleClearScores(w http.ResponseWriter, r *http.Request) {
	board := strings.TrimSpace(r.URL.Query().Get("board"))
	if board == "" {
		board = game.GlobalBoard
	}
	if s.board == nil {
		writeError(w, http.StatusInternalServerError, "no_leaderboard")
		return
	}
	if err := s.board.Clear(r.Context(), board); err != nil {
		log.Error().Err(err).Str("board", board).Msg("clear board")
		writeError(w, http.StatusInternalServerError, "clear_failed")
		return
	}
	log.Warn().Str("board", board).Msg("leaderboard cleared by admin")
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "board": board})
}
