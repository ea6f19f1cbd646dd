// Package journal persists robot session history to SQLite: runs, state
// transitions, and completed placements. The journal is write-only during
// operation and read back by operators investigating a misbehaving run.
package journal

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Journal wraps the session database. One Journal covers one run, created
// at Open time.
type Journal struct {
	*sql.DB
	runID string
}

// Open opens (creating if needed) the journal database at path and starts a
// new run. Use ":memory:" for an ephemeral journal in tests.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id            TEXT PRIMARY KEY,
			started_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			ended_at          TIMESTAMP,
			blocks_completed  BIGINT DEFAULT 0,
			notes             TEXT
		);
		CREATE TABLE IF NOT EXISTS transitions (
			run_id            TEXT,
			from_state        TEXT,
			to_state          TEXT,
			at                TIMESTAMP,
			FOREIGN KEY(run_id) REFERENCES runs(run_id)
		);
		CREATE TABLE IF NOT EXISTS placements (
			run_id            TEXT,
			color             TEXT,
			completed         BIGINT,
			at                TIMESTAMP,
			FOREIGN KEY(run_id) REFERENCES runs(run_id)
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize journal schema: %w", err)
	}

	j := &Journal{DB: db, runID: uuid.NewString()}
	if _, err := j.Exec(`INSERT INTO runs (run_id) VALUES (?)`, j.runID); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to start run: %w", err)
	}

	return j, nil
}

// RunID returns the identifier of the current run.
func (j *Journal) RunID() string { return j.runID }

// RecordTransition stores one controller state change.
func (j *Journal) RecordTransition(from, to string, at time.Time) error {
	_, err := j.Exec(
		`INSERT INTO transitions (run_id, from_state, to_state, at) VALUES (?, ?, ?, ?)`,
		j.runID, from, to, at,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transition: %w", err)
	}
	return nil
}

// RecordPlacement stores one completed block placement.
func (j *Journal) RecordPlacement(color string, completed int, at time.Time) error {
	_, err := j.Exec(
		`INSERT INTO placements (run_id, color, completed, at) VALUES (?, ?, ?, ?)`,
		j.runID, color, completed, at,
	)
	if err != nil {
		return fmt.Errorf("failed to insert placement: %w", err)
	}
	return nil
}

// EndRun stamps the run's end time and final counts, with optional free-form
// notes (typically the detection stats summary).
func (j *Journal) EndRun(completed int, notes string) error {
	_, err := j.Exec(
		`UPDATE runs SET ended_at = ?, blocks_completed = ?, notes = ? WHERE run_id = ?`,
		time.Now(), completed, notes, j.runID,
	)
	if err != nil {
		return fmt.Errorf("failed to end run: %w", err)
	}
	return nil
}

// TransitionCount returns the number of transitions recorded for the current
// run.
func (j *Journal) TransitionCount() (int, error) {
	var n int
	err := j.QueryRow(`SELECT COUNT(*) FROM transitions WHERE run_id = ?`, j.runID).Scan(&n)
	return n, err
}

// Placements returns the colors placed during the current run, in order.
func (j *Journal) Placements() ([]string, error) {
	rows, err := j.Query(`SELECT color FROM placements WHERE run_id = ? ORDER BY completed`, j.runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var colors []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		colors = append(colors, c)
	}
	return colors, rows.Err()
}
