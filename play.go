package main

import (
	"context"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/candymatch/internal/game"
	"github.com/robalobadob/candymatch/internal/leaderboard"
	"github.com/robalobadob/candymatch/internal/tui"
)

var (
	flagPlayName  string
	flagPlayDaily bool
	flagPlaySeed  int64
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Play one timed board in this terminal.

When the clock runs out the score is posted to the configured leaderboard
(global, or today's daily board with --daily). If the leaderboard cannot be
opened the game is still playable.

Examples:
  candymatch play --name ada
  candymatch play --daily
  candymatch play --seed 42`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagPlayName, "name", os.Getenv("USER"), "Name shown on the leaderboard")
	playCmd.Flags().BoolVar(&flagPlayDaily, "daily", false, "Play today's shared board")
	playCmd.Flags().Int64Var(&flagPlaySeed, "seed", 0, "RNG seed for classic boards (0 = random)")
}

func runPlay(cmd *cobra.Command, _ []string) error {
	// Log lines would tear the alternate screen.
	log.Logger = log.Output(io.Discard)

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	board, err := openBoard(ctx)
	cancel()
	var lb leaderboard.Board
	if err == nil {
		lb = board
		defer board.Close()
	}

	mode := game.ModeClassic
	if flagPlayDaily {
		mode = game.ModeDaily
	}
	m, err := tui.NewModel(tui.Options{
		Game:   cfg.Game,
		Mode:   mode,
		Player: flagPlayName,
		Board:  lb,
		Seed:   flagPlaySeed,
	})
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
