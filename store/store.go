// Package store persists named scenarios and completed runs to SQLite, so
// parameterizations can be shared between invocations and past runs compared
// without re-simulating.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/careflow-xyz/go-careflow/intervention"
	"github.com/careflow-xyz/go-careflow/model"
	"github.com/careflow-xyz/go-careflow/results"
)

// ErrNotFound is returned when a scenario or run does not exist.
var ErrNotFound = errors.New("store: not found")

// Scenario is a named, reusable parameterization.
type Scenario struct {
	Name          string              `json:"name"`
	Params        model.Parameters    `json:"params"`
	Interventions intervention.Config `json:"interventions"`
	DiseaseID     string              `json:"diseaseId,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
}

// RunRecord is the headline row for a stored run; the full results document
// is loaded on demand.
type RunRecord struct {
	ID        string    `json:"id"`
	Scenario  string    `json:"scenario"`
	CreatedAt time.Time `json:"createdAt"`
	TotalCost float64   `json:"totalCost"`
	DALYs     float64   `json:"dalys"`
	Deaths    float64   `json:"deaths"`
	Resolved  float64   `json:"resolved"`
}

// Store wraps a SQLite database holding scenarios and runs.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the store at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS scenarios (
		name       TEXT PRIMARY KEY,
		payload    BLOB NOT NULL,
		created_at TEXT NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create scenarios table: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id         TEXT PRIMARY KEY,
		scenario   TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		total_cost REAL NOT NULL,
		dalys      REAL NOT NULL,
		deaths     REAL NOT NULL,
		resolved   REAL NOT NULL,
		payload    BLOB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create runs table: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveScenario inserts or replaces a scenario by name.
func (s *Store) SaveScenario(ctx context.Context, sc Scenario) error {
	if sc.Name == "" {
		return errors.New("store: scenario name required")
	}
	if sc.CreatedAt.IsZero() {
		sc.CreatedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(sc)
	if err != nil {
		return fmt.Errorf("encode scenario: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO scenarios (name, payload, created_at) VALUES (?, ?, ?)`,
		sc.Name, payload, sc.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save scenario %q: %w", sc.Name, err)
	}
	return nil
}

// GetScenario loads one scenario by name.
func (s *Store) GetScenario(ctx context.Context, name string) (Scenario, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM scenarios WHERE name = ?`, name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return Scenario{}, fmt.Errorf("%w: scenario %q", ErrNotFound, name)
	}
	if err != nil {
		return Scenario{}, fmt.Errorf("load scenario %q: %w", name, err)
	}
	var sc Scenario
	if err := json.Unmarshal(payload, &sc); err != nil {
		return Scenario{}, fmt.Errorf("decode scenario %q: %w", name, err)
	}
	return sc, nil
}

// ListScenarios returns all scenarios ordered by name.
func (s *Store) ListScenarios(ctx context.Context) ([]Scenario, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM scenarios ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Scenario
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan scenario: %w", err)
		}
		var sc Scenario
		if err := json.Unmarshal(payload, &sc); err != nil {
			return nil, fmt.Errorf("decode scenario: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// DeleteScenario removes a scenario by name.
func (s *Store) DeleteScenario(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM scenarios WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete scenario %q: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: scenario %q", ErrNotFound, name)
	}
	return nil
}

// SaveRun stores a completed run, optionally tagged with the scenario that
// produced it.
func (s *Store) SaveRun(ctx context.Context, scenario string, r *results.Results) error {
	if r == nil || r.RunID == "" {
		return errors.New("store: run with id required")
	}
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode run: %w", err)
	}
	created := r.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs
		 (id, scenario, created_at, total_cost, dalys, deaths, resolved, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, scenario, created.Format(time.RFC3339Nano),
		r.TotalCost, r.DALYs.Total, r.TotalDeaths, r.TotalResolved, payload)
	if err != nil {
		return fmt.Errorf("save run %s: %w", r.RunID, err)
	}
	return nil
}

// GetRun loads the full results document for one run.
func (s *Store) GetRun(ctx context.Context, id string) (*results.Results, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM runs WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: run %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", id, err)
	}
	var r results.Results
	if err := json.Unmarshal(payload, &r); err != nil {
		return nil, fmt.Errorf("decode run %s: %w", id, err)
	}
	return &r, nil
}

// ListRuns returns headline records, newest first. An empty scenario filter
// matches every run.
func (s *Store) ListRuns(ctx context.Context, scenario string) ([]RunRecord, error) {
	query := `SELECT id, scenario, created_at, total_cost, dalys, deaths, resolved
		  FROM runs`
	args := []any{}
	if scenario != "" {
		query += ` WHERE scenario = ?`
		args = append(args, scenario)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		var created string
		if err := rows.Scan(&rec.ID, &rec.Scenario, &created,
			&rec.TotalCost, &rec.DALYs, &rec.Deaths, &rec.Resolved); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
			rec.CreatedAt = t
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// DeleteRun removes one stored run.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: run %s", ErrNotFound, id)
	}
	return nil
}
