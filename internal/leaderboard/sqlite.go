// internal/leaderboard/sqlite.go
//
// SQLite leaderboard backend.
// Responsibilities:
//   - Open the database file with safe defaults (WAL, busy timeout).
//   - Apply embedded migrations (assets/sql/*.sql), recorded in _migrations.
//   - Store, rank and trim scores per board.

package leaderboard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/candymatch/assets"
)

type sqliteBoard struct {
	db     *sql.DB
	limits Limits
}

// OpenSQLite opens (creating if missing) the database at path and migrates it.
func OpenSQLite(path string, limits Limits) (Board, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &sqliteBoard{db: db, limits: limits}, nil
}

func openDB(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

// migrate applies each embedded migration once, inside its own transaction.
func migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	migrations, err := assets.Migrations()
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	for _, m := range migrations {
		var done int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, m.Name).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", m.Name).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(m.SQL); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", m.Name, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, m.Name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", m.Name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", m.Name, err)
		}
		log.Info().Str("migration", m.Name).Msg("applied")
	}
	return nil
}

func (s *sqliteBoard) Submit(ctx context.Context, board string, e Entry) error {
	e = Sanitize(e, s.limits)
	board = strings.TrimSpace(board)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO scores (board, name, addr, score, ts) VALUES (?, ?, ?, ?, ?)`,
		board, e.Name, e.Addr, e.Score, e.TS,
	); err != nil {
		return fmt.Errorf("insert score: %w", err)
	}

	// Trim everything below the best Retain rows for this board.
	if _, err := tx.ExecContext(ctx, `
        DELETE FROM scores
        WHERE board = ? AND id NOT IN (
            SELECT id FROM scores
            WHERE board = ?
            ORDER BY score DESC, ts ASC, id ASC
            LIMIT ?
        )`, board, board, s.limits.Retain,
	); err != nil {
		return fmt.Errorf("trim scores: %w", err)
	}
	return tx.Commit()
}

func (s *sqliteBoard) Top(ctx context.Context, board string, n int) ([]Ranked, error) {
	n = ClampTop(n, s.limits)
	rows, err := s.db.QueryContext(ctx, `
        SELECT name, addr, score, ts
        FROM scores
        WHERE board = ?
        ORDER BY score DESC, ts ASC, id ASC
        LIMIT ?`, strings.TrimSpace(board), n,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]Entry, 0, n)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Addr, &e.Score, &e.TS); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rank(entries), nil
}

func (s *sqliteBoard) Clear(ctx context.Context, board string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM scores WHERE board = ?`, strings.TrimSpace(board))
	return err
}

func (s *sqliteBoard) Close() error { return s.db.Close() }
