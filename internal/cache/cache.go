// Package cache keeps the last successful task fetch per (username, view) in
// a local SQLite database. The TUI paints the cached snapshot while the
// first real fetch is still settling, and `faros tasks list --offline` works
// without a reachable server. Everything here is best effort: a cache
// failure must never fail the fetch path.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"faros-cli/internal/config"
	"faros-cli/internal/model"
)

const fileName = "snapshot.sqlite"

// ErrNoSnapshot is returned when nothing has been cached for the key yet.
var ErrNoSnapshot = errors.New("no cached snapshot")

type Store struct {
	path string
}

// Open places the cache database in the faros home dir.
func Open() (*Store, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{path: filepath.Join(dir, fileName)}, nil
}

// Snapshot is one cached task list with its fetch position.
type Snapshot struct {
	Tasks     []model.Task
	Page      int
	Pages     int
	FetchedAt time.Time
}

func (s *Store) open(ctx context.Context) (*sql.DB, error) {
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS snapshots (
		username   TEXT NOT NULL,
		view       TEXT NOT NULL,
		page       INTEGER NOT NULL,
		pages      INTEGER NOT NULL,
		tasks_json TEXT NOT NULL,
		fetched_at TEXT NOT NULL,
		PRIMARY KEY (username, view)
	);`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Put replaces the snapshot for (username, view).
func (s *Store) Put(ctx context.Context, username string, view model.ViewMode, snap Snapshot) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	b, err := json.Marshal(snap.Tasks)
	if err != nil {
		return err
	}
	fetchedAt := snap.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now().UTC()
	}
	_, err = db.ExecContext(ctx, `INSERT INTO snapshots (username, view, page, pages, tasks_json, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (username, view) DO UPDATE SET
			page = excluded.page,
			pages = excluded.pages,
			tasks_json = excluded.tasks_json,
			fetched_at = excluded.fetched_at;`,
		username, string(view), snap.Page, snap.Pages, string(b), fetchedAt.Format(time.RFC3339Nano))
	return err
}

// Get returns the snapshot for (username, view), or ErrNoSnapshot.
func (s *Store) Get(ctx context.Context, username string, view model.ViewMode) (Snapshot, error) {
	db, err := s.open(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	defer db.Close()

	var (
		snap         Snapshot
		tasksJSON    string
		fetchedAtRaw string
	)
	row := db.QueryRowContext(ctx,
		`SELECT page, pages, tasks_json, fetched_at FROM snapshots WHERE username = ? AND view = ?;`,
		username, string(view))
	if err := row.Scan(&snap.Page, &snap.Pages, &tasksJSON, &fetchedAtRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, ErrNoSnapshot
		}
		return Snapshot{}, err
	}
	if err := json.Unmarshal([]byte(tasksJSON), &snap.Tasks); err != nil {
		return Snapshot{}, err
	}
	if t, err := time.Parse(time.RFC3339Nano, fetchedAtRaw); err == nil {
		snap.FetchedAt = t
	}
	return snap, nil
}

// Clear drops every snapshot for the user (used on logout).
func (s *Store) Clear(ctx context.Context, username string) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.ExecContext(ctx, `DELETE FROM snapshots WHERE username = ?;`, username)
	return err
}
