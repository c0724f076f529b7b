package destination

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/singer-io/tap-amazon-sp/types"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps bookmarks as rows, one per stream and marketplace
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state db folder: %s", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open state db: %s", err)
	}
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate state db: %s", err)
	}

	return store, nil
}

func (s *SQLiteStore) migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sync_state (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			currently_syncing TEXT,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS streams (
			stream TEXT PRIMARY KEY,
			replication_key TEXT NOT NULL DEFAULT '',
			completed_at TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS bookmarks (
			stream TEXT NOT NULL,
			marketplace TEXT NOT NULL,
			watermark TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (stream, marketplace)
		)`,
	}
	for _, statement := range statements {
		if _, err := s.db.Exec(statement); err != nil {
			return err
		}
	}

	return nil
}

func (s *SQLiteStore) Load() (*types.State, error) {
	state := types.NewState()

	var currentlySyncing sql.NullString
	err := s.db.QueryRow(`SELECT currently_syncing FROM sync_state WHERE id = 1`).Scan(&currentlySyncing)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to read sync state: %s", err)
	}
	state.SetCurrentlySyncing(currentlySyncing.String)

	rows, err := s.db.Query(`SELECT stream, replication_key, completed_at FROM streams`)
	if err != nil {
		return nil, fmt.Errorf("failed to read streams: %s", err)
	}
	defer rows.Close()
	for rows.Next() {
		var stream, replicationKey, completedAt string
		if err := rows.Scan(&stream, &replicationKey, &completedAt); err != nil {
			return nil, err
		}
		state.Bookmarks[stream] = &types.StreamState{
			ReplicationKey: replicationKey,
			Marketplaces:   make(map[string]string),
			CompletedAt:    completedAt,
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	bookmarks, err := s.db.Query(`SELECT stream, marketplace, watermark FROM bookmarks`)
	if err != nil {
		return nil, fmt.Errorf("failed to read bookmarks: %s", err)
	}
	defer bookmarks.Close()
	for bookmarks.Next() {
		var stream, marketplace, watermark string
		if err := bookmarks.Scan(&stream, &marketplace, &watermark); err != nil {
			return nil, err
		}
		state.SetBookmark(stream, replicationKeyOf(state, stream), marketplace, watermark)
	}

	return state, bookmarks.Err()
}

func replicationKeyOf(state *types.State, stream string) string {
	if streamState, found := state.Bookmarks[stream]; found && streamState != nil {
		return streamState.ReplicationKey
	}
	return ""
}

// Save writes the whole document in one transaction
func (s *SQLiteStore) Save(state *types.State) (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin state transaction: %s", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC().Format(time.RFC3339)
	var currentlySyncing any
	if state.CurrentlySyncing != nil {
		currentlySyncing = *state.CurrentlySyncing
	}

	if _, err = tx.Exec(`INSERT INTO sync_state (id, currently_syncing, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET currently_syncing = excluded.currently_syncing, updated_at = excluded.updated_at`,
		currentlySyncing, now); err != nil {
		return fmt.Errorf("failed to save sync state: %s", err)
	}

	for stream, streamState := range state.Bookmarks {
		if streamState == nil {
			continue
		}
		if _, err = tx.Exec(`INSERT INTO streams (stream, replication_key, completed_at) VALUES (?, ?, ?)
			ON CONFLICT(stream) DO UPDATE SET replication_key = excluded.replication_key, completed_at = excluded.completed_at`,
			stream, streamState.ReplicationKey, streamState.CompletedAt); err != nil {
			return fmt.Errorf("failed to save stream[%s]: %s", stream, err)
		}

		for marketplace, watermark := range streamState.Marketplaces {
			if _, err = tx.Exec(`INSERT INTO bookmarks (stream, marketplace, watermark, updated_at) VALUES (?, ?, ?, ?)
				ON CONFLICT(stream, marketplace) DO UPDATE SET watermark = excluded.watermark, updated_at = excluded.updated_at`,
				stream, marketplace, watermark, now); err != nil {
				return fmt.Errorf("failed to save bookmark[%s/%s]: %s", stream, marketplace, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit state: %s", err)
	}

	return nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
