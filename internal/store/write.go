package store

import (
	"context"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// WriteRun inserts a run record.
// Uses ON CONFLICT(id) DO NOTHING, so writing the same run twice is a no-op.
// The label is stored NFC-normalized.
func (s *Store) WriteRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, label, ticks, final_seq)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, run.ID, norm.NFC.String(run.Label), run.Ticks, run.FinalSeq)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// FinishRun records the last logical clock value of a run.
func (s *Store) FinishRun(ctx context.Context, runID string, finalSeq int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE runs SET final_seq = ? WHERE id = ?`, finalSeq, runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish run %s: %w", runID, ErrRunNotFound)
	}
	return nil
}

// WriteDispatches appends dispatches to a run in one transaction.
//
// The run must exist (foreign key constraint). A dispatch whose seq is
// already recorded for the run is ignored.
func (s *Store) WriteDispatches(ctx context.Context, runID string, dispatches []Dispatch) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write dispatches: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO dispatches (run_id, seq, machine, event, outcome, depth)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, seq) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("write dispatches: prepare: %w", err)
	}
	defer stmt.Close()

	for _, d := range dispatches {
		if _, err := stmt.ExecContext(ctx, runID, d.Seq, d.Machine, d.Event, string(d.Outcome), d.Depth); err != nil {
			return fmt.Errorf("write dispatch seq=%d: %w", d.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write dispatches: commit: %w", err)
	}
	return nil
}

// WriteVariables stores a machine's variables, replacing earlier values.
func (s *Store) WriteVariables(ctx context.Context, runID, machine string, vars map[string]int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write variables: begin tx: %w", err)
	}
	defer tx.Rollback()

	for name, value := range vars {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO variables (run_id, machine, name, value)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(run_id, machine, name) DO UPDATE SET value = excluded.value
		`, runID, machine, name, value)
		if err != nil {
			return fmt.Errorf("write variable %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write variables: commit: %w", err)
	}
	return nil
}

// WriteMemory stores a machine's memory cells, replacing earlier values.
func (s *Store) WriteMemory(ctx context.Context, runID, machine string, memory map[int]int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write memory: begin tx: %w", err)
	}
	defer tx.Rollback()

	for idx, value := range memory {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO memory (run_id, machine, idx, value)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(run_id, machine, idx) DO UPDATE SET value = excluded.value
		`, runID, machine, idx, value)
		if err != nil {
			return fmt.Errorf("write memory [%d]: %w", idx, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write memory: commit: %w", err)
	}
	return nil
}
