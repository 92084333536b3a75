package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/robalobadob/candymatch/internal/daily"
	"github.com/robalobadob/candymatch/internal/game"
	"github.com/robalobadob/candymatch/internal/leaderboard"
)

var (
	flagScoresBoard string
	flagScoresDaily bool
	flagScoresN     int
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Print a leaderboard",
	Long: `Print the top entries of a leaderboard.

Examples:
  candymatch scores
  candymatch scores --daily -n 20
  candymatch scores --board daily:2026-06-01`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagScoresBoard, "board", game.GlobalBoard, "Board name")
	scoresCmd.Flags().BoolVar(&flagScoresDaily, "daily", false, "Today's daily board (overrides --board)")
	scoresCmd.Flags().IntVarP(&flagScoresN, "top", "n", 0, "Number of entries (default leaderboard.default_top)")
}

func runScores(cmd *cobra.Command, _ []string) error {
	board, err := openBoard(cmd.Context())
	if err != nil {
		return err
	}
	defer board.Close()

	name := flagScoresBoard
	if flagScoresDaily {
		name = daily.Board(time.Now())
	}
	n := leaderboard.ClampTop(flagScoresN, leaderboard.LimitsFrom(cfg.Leaderboard))
	top, err := board.Top(cmd.Context(), name, n)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Leaderboard - %s\n\n", name)
	if len(top) == 0 {
		fmt.Fprintln(out, "No scores recorded yet.")
		return nil
	}
	fmt.Fprintf(out, "  %-4s  %-16s  %s\n", "Rank", "Name", "Score")
	fmt.Fprintf(out, "  %-4s  %-16s  %s\n", "----", "----", "-----")
	for _, r := range top {
		fmt.Fprintf(out, "  %-4d  %-16s  %d\n", r.Rank, r.Name, r.Score)
	}
	return nil
}
