// internal/httpserver/server.go
//
// HTTP server wiring for the candymatch backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     request logging).
//   - Public endpoints: "/", "/health".
//   - Game endpoints: POST /game/new, GET /game/{id}, POST /game/swap.
//   - Leaderboard endpoints: POST /api/score, GET /api/top (routes_api.go).
//   - Admin endpoints behind basic auth (admin.go).
//   - Janitor that drops sessions once their submission window has closed.
//
// Notes:
//   - Boards settle synchronously on swap; clients replay the returned frames
//     for animation.
//   - Scores are never taken from the client. /api/score finishes the game
//     named by the token and posts the server-side score.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/candymatch/internal/config"
	"github.com/robalobadob/candymatch/internal/game"
	"github.com/robalobadob/candymatch/internal/leaderboard"
	"github.com/robalobadob/candymatch/internal/match3"
	"github.com/robalobadob/candymatch/internal/store"
)

// Options are the server's collaborators. Now defaults to time.Now.
type Options struct {
	Config config.Config
	Store  store.Store
	Board  leaderboard.Board
	Now    func() time.Time
}

// Server bundles router, session store and leaderboard.
type Server struct {
	r      *chi.Mux
	cfg    config.Config
	store  store.Store
	board  leaderboard.Board
	limits leaderboard.Limits
	now    func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) *Server {
	s := &Server{
		r:      chi.NewRouter(),
		cfg:    opts.Config,
		store:  opts.Store,
		board:  opts.Board,
		limits: leaderboard.LimitsFrom(opts.Config.Leaderboard),
		now:    opts.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                   // one zerolog line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(cors(s.cfg.Server.ClientOrigin)) // single-origin CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"candymatch","endpoints":["/health","POST /game/new","GET /game/{id}","POST /game/swap","POST /api/score","GET /api/top"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Post("/game/new", s.handleNewGame)
	s.r.Get("/game/{id}", s.handleGetGame)
	s.r.Post("/game/swap", s.handleSwap)

	s.mountAPI(s.r)
	s.mountAdmin(s.r)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Handler exposes the router (useful for tests).
func (s *Server) Handler() http.Handler { return s.r }

// Start serves HTTP on addr until ctx is cancelled, then shuts down
// gracefully. The janitor runs for the lifetime of the server.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go s.janitor(ctx)

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) janitor(ctx context.Context) {
	every := s.cfg.Server.SweepInterval
	if every <= 0 {
		every = time.Minute
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.Sweep(ctx); n > 0 {
				log.Debug().Int("removed", n).Msg("swept expired games")
			}
		}
	}
}

// Sweep removes games whose submission window has closed.
func (s *Server) Sweep(ctx context.Context) int {
	return s.store.Sweep(ctx, s.now().Add(-s.cfg.Server.SubmitGrace))
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors allows a single configured origin.
func cors(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Info().
			Str("reqId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// ------------------------------ GAME ---------------------------------------

type newGameReq struct {
	Mode string `json:"mode"` // "classic" | "daily"
}

type newGameRes struct {
	game.Snapshot
	Token string `json:"token"`
}

// handleNewGame creates a game, stores it and returns its first board with
// the token needed to submit the score.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req) // empty body means classic

	mode, err := game.ParseMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_mode")
		return
	}
	now := s.now()
	g, err := game.New(game.Options{
		Mode:     mode,
		Board:    s.cfg.Game.Board(),
		Duration: s.cfg.Game.Duration,
		Salt:     s.cfg.Game.DailySalt,
		Now:      now,
	})
	if err != nil {
		log.Error().Err(err).Msg("new game")
		writeError(w, http.StatusInternalServerError, "new_game_failed")
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	tok, err := s.signToken(g.ID, g.Board, g.Deadline)
	if err != nil {
		log.Error().Err(err).Msg("sign token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}

	log.Info().Str("gameId", g.ID).Str("mode", string(g.Mode)).Str("board", g.Board).Msg("game started")
	writeJSON(w, http.StatusOK, newGameRes{Snapshot: g.Snapshot(now), Token: tok})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	writeJSON(w, http.StatusOK, g.Snapshot(s.now()))
}

type swapReq struct {
	GameID string     `json:"gameId"`
	A      match3.Pos `json:"a"`
	B      match3.Pos `json:"b"`
}

// handleSwap applies a swap and returns every cascade frame it produced.
// Rejected swaps are a normal 200 response with accepted=false.
func (s *Server) handleSwap(w http.ResponseWriter, r *http.Request) {
	var req swapReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	g, err := s.store.Get(r.Context(), req.GameID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	res, err := g.Swap(s.now(), req.A, req.B)
	if errors.Is(err, game.ErrFinished) {
		writeError(w, http.StatusConflict, "finished")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "swap_failed")
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}
