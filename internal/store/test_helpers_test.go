package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/tickscript/internal/runtime"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun inserts a run so that child rows satisfy foreign keys.
func createTestRun(t *testing.T, s *Store, id string) {
	t.Helper()
	if err := s.WriteRun(context.Background(), Run{ID: id, Label: "test", Ticks: 1}); err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}
}

func dispatch(seq int64, machine, event string, outcome runtime.Outcome, depth int) Dispatch {
	return Dispatch{
		Machine: machine,
		Dispatch: runtime.Dispatch{
			Seq:     seq,
			Event:   event,
			Outcome: outcome,
			Depth:   depth,
		},
	}
}
