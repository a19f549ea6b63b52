package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/tickscript/internal/runtime"
)

// ErrRunNotFound is returned when a run id is not in the store.
var ErrRunNotFound = errors.New("run not found")

// ReadRun retrieves a single run by id.
// Returns an error wrapping ErrRunNotFound if it does not exist.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	var run Run
	err := s.db.QueryRowContext(ctx, `
		SELECT id, label, ticks, final_seq FROM runs WHERE id = ?
	`, id).Scan(&run.ID, &run.Label, &run.Ticks, &run.FinalSeq)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns every run ordered by id.
// UUIDv7 ids sort by creation time.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, label, ticks, final_seq FROM runs ORDER BY id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.Label, &run.Ticks, &run.FinalSeq); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadDispatches returns a run's dispatches ordered by seq.
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ReadDispatches(ctx context.Context, runID string, filter DispatchFilter) ([]Dispatch, error) {
	var where strings.Builder
	where.WriteString("run_id = ?")
	args := []any{runID}
	if filter.Machine != "" {
		where.WriteString(" AND machine = ?")
		args = append(args, filter.Machine)
	}
	if filter.Event != "" {
		where.WriteString(" AND event = ?")
		args = append(args, filter.Event)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, machine, event, outcome, depth
		FROM dispatches
		WHERE `+where.String()+`
		ORDER BY seq ASC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("query dispatches: %w", err)
	}
	defer rows.Close()

	dispatches := []Dispatch{}
	for rows.Next() {
		var d Dispatch
		var outcome string
		if err := rows.Scan(&d.Seq, &d.Machine, &d.Event, &outcome, &d.Depth); err != nil {
			return nil, fmt.Errorf("scan dispatch: %w", err)
		}
		d.Outcome = runtime.Outcome(outcome)
		dispatches = append(dispatches, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dispatches: %w", err)
	}
	return dispatches, nil
}

// ReadVariables returns a machine's stored variables.
// Returns an empty map if the machine recorded none.
func (s *Store) ReadVariables(ctx context.Context, runID, machine string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, value FROM variables
		WHERE run_id = ? AND machine = ?
		ORDER BY name COLLATE BINARY ASC
	`, runID, machine)
	if err != nil {
		return nil, fmt.Errorf("query variables: %w", err)
	}
	defer rows.Close()

	vars := map[string]int{}
	for rows.Next() {
		var name string
		var value int
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("scan variable: %w", err)
		}
		vars[name] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate variables: %w", err)
	}
	return vars, nil
}

// ReadMemory returns a machine's stored memory cells.
func (s *Store) ReadMemory(ctx context.Context, runID, machine string) (map[int]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT idx, value FROM memory
		WHERE run_id = ? AND machine = ?
		ORDER BY idx ASC
	`, runID, machine)
	if err != nil {
		return nil, fmt.Errorf("query memory: %w", err)
	}
	defer rows.Close()

	memory := map[int]int{}
	for rows.Next() {
		var idx, value int
		if err := rows.Scan(&idx, &value); err != nil {
			return nil, fmt.Errorf("scan memory: %w", err)
		}
		memory[idx] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate memory: %w", err)
	}
	return memory, nil
}
