// main.go
//
// Entry point for candymatch.
// Responsibilities:
//   - Root cobra command with persistent --config and --log-level flags.
//   - Loads configuration once (embedded defaults, YAML file, .env, env vars)
//     and sets the global zerolog level before any subcommand runs.
//
// Subcommands live next to this file: serve.go, play.go, ssh.go, scores.go,
// hash_password.go.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/candymatch/internal/config"
	"github.com/robalobadob/candymatch/internal/leaderboard"
)

var (
	flagConfig   string
	flagLogLevel string

	cfg config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "candymatch",
	Short: "Timed match-3 game with a shared leaderboard",
	Long: `candymatch is a match-3 puzzle played against a 60 second clock.

Commands:
  serve          - HTTP API for browser clients
  play           - Play in this terminal
  ssh            - Host the terminal game over SSH
  scores         - Print a leaderboard
  hash-password  - Hash an admin password for the config file`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return err
		}
		level := cfg.Log.Level
		if flagLogLevel != "" {
			level = flagLogLevel
		}
		lvl, err := zerolog.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("log level %q: %w", level, err)
		}
		zerolog.SetGlobalLevel(lvl)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config.yaml (default: ~/.candymatch/config.yaml, then ./configs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(sshCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(hashPasswordCmd)
}

// openBoard opens the configured leaderboard. Terminal commands keep
// playing without one, so callers decide whether a failure is fatal.
func openBoard(ctx context.Context) (leaderboard.Board, error) {
	b, err := leaderboard.Open(ctx, cfg.Leaderboard)
	if err != nil {
		return nil, fmt.Errorf("open leaderboard (%s): %w", cfg.Leaderboard.Backend, err)
	}
	log.Debug().Str("backend", cfg.Leaderboard.Backend).Msg("leaderboard open")
	return b, nil
}
