package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/candymatch/internal/game"
	"github.com/robalobadob/candymatch/internal/leaderboard"
	"github.com/robalobadob/candymatch/internal/tui"
)

var (
	flagSSHAddr    string
	flagSSHHostKey string
	flagSSHDaily   bool
)

var sshCmd = &cobra.Command{
	Use:   "ssh",
	Short: "Host the terminal game over SSH",
	Long: `Start an SSH server. Every session gets its own board; the SSH user
name is the leaderboard name.

The host key is generated on first start if it does not exist.

Examples:
  candymatch ssh
  candymatch ssh --addr :2323 --host-key ./host_ed25519
  candymatch ssh --daily

Players connect with:
  ssh -p 2222 ada@localhost`,
	RunE: runSSH,
}

func init() {
	sshCmd.Flags().StringVar(&flagSSHAddr, "addr", "", "SSH listen address (default ssh.addr from config)")
	sshCmd.Flags().StringVar(&flagSSHHostKey, "host-key", "", "Host key path (default ssh.host_key from config)")
	sshCmd.Flags().BoolVar(&flagSSHDaily, "daily", false, "Serve today's shared board")
}

func runSSH(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if flagSSHAddr != "" {
		cfg.SSH.Addr = flagSSHAddr
	}
	if flagSSHHostKey != "" {
		cfg.SSH.HostKey = flagSSHHostKey
	}

	var lb leaderboard.Board
	board, err := openBoard(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("playing without a leaderboard")
	} else {
		lb = board
		defer board.Close()
	}

	mode := game.ModeClassic
	if flagSSHDaily {
		mode = game.ModeDaily
	}
	srv, err := tui.NewSSHServer(cfg, mode, lb)
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx)
}
