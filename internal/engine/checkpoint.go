package engine

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNoCheckpoint is returned when a requested checkpoint does not exist.
var ErrNoCheckpoint = errors.New("checkpoint not found")

// CheckpointInfo describes one stored checkpoint.
type CheckpointInfo struct {
	RunID     string
	Step      int
	Name      string
	CreatedAt time.Time
}

// CheckpointStore persists pipeline state between steps. Save failures are
// reported to the caller but treated as non-fatal by the pipeline; Load
// failures abort a resume.
type CheckpointStore interface {
	Save(runID string, step int, name string, state []byte) error
	Load(runID string, step int) ([]byte, error)
	Exists(runID string, step int) (bool, error)
	List(runID string) ([]CheckpointInfo, error)
	Clear(runID string) error
	Close() error
}

// SQLiteStore keeps checkpoints in a single SQLite file, one row per
// (run, step), upserted so re-running a step overwrites its checkpoint.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens or creates the checkpoint database at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening checkpoint db: %w", err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS checkpoints (
			run_id     TEXT    NOT NULL,
			step       INTEGER NOT NULL,
			name       TEXT    NOT NULL,
			state      BLOB    NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (run_id, step)
		)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing checkpoint schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Save(runID string, step int, name string, state []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO checkpoints (run_id, step, name, state, created_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (run_id, step) DO UPDATE SET
			name = excluded.name,
			state = excluded.state,
			created_at = excluded.created_at`,
		runID, step, name, state)
	if err != nil {
		return fmt.Errorf("saving checkpoint %d: %w", step, err)
	}
	return nil
}

func (s *SQLiteStore) Load(runID string, step int) ([]byte, error) {
	var state []byte
	err := s.db.QueryRow(
		`SELECT state FROM checkpoints WHERE run_id = ? AND step = ?`,
		runID, step).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %q step %d: %w", runID, step, ErrNoCheckpoint)
	}
	if err != nil {
		return nil, fmt.Errorf("loading checkpoint %d: %w", step, err)
	}
	return state, nil
}

func (s *SQLiteStore) Exists(runID string, step int) (bool, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM checkpoints WHERE run_id = ? AND step = ?`,
		runID, step).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLiteStore) List(runID string) ([]CheckpointInfo, error) {
	rows, err := s.db.Query(`
		SELECT run_id, step, name, created_at FROM checkpoints
		WHERE run_id = ? OR ? = ''
		ORDER BY run_id, step`, runID, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CheckpointInfo
	for rows.Next() {
		var info CheckpointInfo
		if err := rows.Scan(&info.RunID, &info.Step, &info.Name, &info.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Clear(runID string) error {
	if runID == "" {
		_, err := s.db.Exec(`DELETE FROM checkpoints`)
		return err
	}
	_, err := s.db.Exec(`DELETE FROM checkpoints WHERE run_id = ?`, runID)
	return err
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

// DisabledStore is the no-op store used when checkpointing is off. Loads
// always fail so a resume against it is caught immediately.
type DisabledStore struct{}

func (DisabledStore) Save(string, int, string, []byte) error { return nil }
func (DisabledStore) Load(string, int) ([]byte, error) {
	return nil, fmt.Errorf("checkpointing disabled: %w", ErrNoCheckpoint)
}
func (DisabledStore) Exists(string, int) (bool, error)       { return false, nil }
func (DisabledStore) List(string) ([]CheckpointInfo, error)  { return nil, nil }
func (DisabledStore) Clear(string) error                     { return nil }
func (DisabledStore) Close() error                           { return nil }
