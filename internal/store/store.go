// Package store keeps the best-effort bookkeeping ledger: one row per
// stage run plus the per-record classification audit for reconcile
// runs. The flat files stay the source of truth; the ledger exists so
// a curator can ask later why a row was blocked or junked.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"storelocator/internal/model"
)

// Store wraps SQLite access for runs and classification audits.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
            id TEXT PRIMARY KEY,
            stage TEXT NOT NULL,
            input TEXT,
            started_at TIMESTAMP,
            finished_at TIMESTAMP,
            counts_json TEXT
        );`,
		`CREATE TABLE IF NOT EXISTS classifications (
            run_id TEXT NOT NULL,
            position INTEGER NOT NULL,
            key TEXT,
            bucket TEXT NOT NULL,
            reason TEXT,
            ref_position INTEGER,
            store_name TEXT,
            city TEXT,
            state TEXT
        );`,
		`CREATE INDEX IF NOT EXISTS idx_classifications_run ON classifications(run_id);`,
		`CREATE INDEX IF NOT EXISTS idx_classifications_key ON classifications(key);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Run is one recorded stage execution.
type Run struct {
	ID         string         `json:"id"`
	Stage      string         `json:"stage"`
	Input      string         `json:"input"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt *time.Time     `json:"finished_at"`
	Counts     map[string]int `json:"counts"`
}

// BeginRun records the start of a stage execution and returns its id.
func (s *Store) BeginRun(ctx context.Context, stage, input string, ts time.Time) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs(id, stage, input, started_at) VALUES(?,?,?,?)`,
		id, stage, input, ts)
	if err != nil {
		return "", err
	}
	return id, nil
}

// FinishRun stores the per-bucket counts that form the run summary.
func (s *Store) FinishRun(ctx context.Context, id string, counts map[string]int, ts time.Time) error {
	payload, _ := json.Marshal(counts)
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at=?, counts_json=? WHERE id=?`, ts, string(payload), id)
	return err
}

// RecordClassifications persists the reconcile audit trail for one run.
// records must be the batch the classifications were produced from.
func (s *Store) RecordClassifications(ctx context.Context, runID string, cs []model.Classification, records []model.StoreRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO classifications(run_id, position, key, bucket, reason, ref_position, store_name, city, state)
         VALUES(?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, c := range cs {
		var name, city, state string
		if c.Position >= 0 && c.Position < len(records) {
			name = records[c.Position].Name
			city = records[c.Position].City
			state = records[c.Position].State
		}
		if _, err := stmt.ExecContext(ctx, runID, c.Position, c.Key, string(c.Bucket), c.Reason, c.Ref, name, city, state); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, stage, input, started_at, finished_at, counts_json FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var runs []Run
	for rows.Next() {
		var r Run
		var finished sql.NullTime
		var counts sql.NullString
		if err := rows.Scan(&r.ID, &r.Stage, &r.Input, &r.StartedAt, &finished, &counts); err != nil {
			return nil, err
		}
		if finished.Valid {
			r.FinishedAt = &finished.Time
		}
		if counts.Valid && counts.String != "" {
			_ = json.Unmarshal([]byte(counts.String), &r.Counts)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// KeyHistory returns every recorded classification of a composite key,
// newest run first. This is how a curator answers "why was this store
// blocked?".
func (s *Store) KeyHistory(ctx context.Context, key string) ([]model.Classification, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.position, c.key, c.bucket, c.reason, c.ref_position
         FROM classifications c JOIN runs r ON r.id = c.run_id
         WHERE c.key = ? ORDER BY r.started_at DESC`, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Classification
	for rows.Next() {
		var c model.Classification
		var bucket string
		if err := rows.Scan(&c.Position, &c.Key, &bucket, &c.Reason, &c.Ref); err != nil {
			return nil, err
		}
		c.Bucket = model.Bucket(bucket)
		out = append(out, c)
	}
	return out, rows.Err()
}

// Health returns err if the DB is not reachable.
func (s *Store) Health(ctx context.Context) error {
	row := s.db.QueryRowContext(ctx, `SELECT 1`)
	var v int
	if err := row.Scan(&v); err != nil {
		return fmt.Errorf("db health: %w", err)
	}
	return nil
}
