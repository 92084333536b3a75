package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/robalobadob/candymatch/internal/leaderboard"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	flagConfig, flagLogLevel = "", ""
	flagScoresBoard, flagScoresDaily, flagScoresN = "global", false, 0

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestScoresCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.db")
	t.Setenv("LEADERBOARD_BACKEND", "sqlite")
	t.Setenv("SQLITE_PATH", path)

	b, err := leaderboard.OpenSQLite(path, leaderboard.DefaultLimits())
	require.NoError(t, err)
	ctx := context.Background()
	for i, e := range []leaderboard.Entry{
		{Name: "ada", Score: 40, TS: 1},
		{Name: "bob", Score: 90, TS: 2},
		{Name: "cy", Score: 10, TS: 3},
	} {
		require.NoError(t, b.Submit(ctx, "global", e), "entry %d", i)
	}
	require.NoError(t, b.Close())

	out := execute(t, "scores", "-n", "2")
	assert.Contains(t, out, "Leaderboard - global")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[4], "bob")
	assert.Contains(t, lines[5], "ada")
	assert.NotContains(t, out, "cy")

	out = execute(t, "scores", "--board", "daily:2000-01-01")
	assert.Contains(t, out, "No scores recorded yet.")
}

func TestHashPasswordCommand(t *testing.T) {
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "unused.db"))
	out := execute(t, "hash-password", "hunter2")
	hash := strings.TrimSpace(out)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter2")))
}
