package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/candymatch/internal/config"
	"github.com/robalobadob/candymatch/internal/game"
	"github.com/robalobadob/candymatch/internal/leaderboard"
)

// SSHServer hosts one board per SSH session.
type SSHServer struct {
	cfg    config.Config
	mode   game.Mode
	board  leaderboard.Board
	server *ssh.Server
}

// NewSSHServer builds the wish server. board may be nil, in which case
// sessions play without posting scores. The host key is generated on first
// start if the file does not exist.
func NewSSHServer(cfg config.Config, mode game.Mode, board leaderboard.Board) (*SSHServer, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.SSH.HostKey), 0o700); err != nil {
		return nil, fmt.Errorf("host key dir: %w", err)
	}

	s := &SSHServer{cfg: cfg, mode: mode, board: board}
	server, err := wish.NewServer(
		wish.WithAddress(cfg.SSH.Addr),
		wish.WithHostKeyPath(cfg.SSH.HostKey),
		wish.WithIdleTimeout(cfg.SSH.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(s.teaHandler),
			s.loggingMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("ssh server: %w", err)
	}
	s.server = server
	return s, nil
}

func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	if _, _, ok := sess.Pty(); !ok {
		log.Warn().Str("user", sess.User()).Msg("no pty requested")
		return nil, nil
	}
	m, err := NewModel(Options{
		Game:   s.cfg.Game,
		Mode:   s.mode,
		Player: sess.User(),
		Board:  s.board,
	})
	if err != nil {
		log.Error().Err(err).Str("user", sess.User()).Msg("new model")
		return nil, nil
	}
	return m, []tea.ProgramOption{tea.WithAltScreen()}
}

func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		start := time.Now()
		l := log.With().Str("user", sess.User()).Str("remote", sess.RemoteAddr().String()).Logger()
		l.Info().Msg("session started")
		next(sess)
		l.Info().Dur("dur", time.Since(start)).Msg("session ended")
	}
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.cfg.SSH.Addr).Msg("ssh listening")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("ssh shutting down")
	return s.Shutdown()
}

// Shutdown stops accepting sessions and waits up to 10s for open ones.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}
