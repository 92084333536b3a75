package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/candymatch/internal/httpserver"
	"github.com/robalobadob/candymatch/internal/store"
)

var flagServeAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API used by browser clients.

The listen address defaults to :$PORT (server.port in config, 8080).

Examples:
  candymatch serve
  candymatch serve --addr 127.0.0.1:9000
  LEADERBOARD_BACKEND=redis REDIS_URL=redis://localhost:6379/0 candymatch serve`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "", "Listen address (host:port)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	board, err := openBoard(ctx)
	if err != nil {
		return err
	}
	defer board.Close()

	addr := flagServeAddr
	if addr == "" {
		addr = cfg.Server.Addr()
	}

	srv := httpserver.New(httpserver.Options{
		Config: cfg,
		Store:  store.NewMemoryStore(),
		Board:  board,
	})
	log.Info().Str("addr", addr).Str("leaderboard", cfg.Leaderboard.Backend).Msg("starting candymatch")
	if err := srv.Start(ctx, addr); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}
