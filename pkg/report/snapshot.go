package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/user/isocomply/pkg/engine"
)

// DefaultSnapshotPath is used when no snapshot file is given.
const DefaultSnapshotPath = ".isocomply-snapshot.json"

// Snapshot is a saved set of results used as a baseline for later runs.
type Snapshot struct {
	ID        string                    `json:"id"`
	CreatedAt time.Time                 `json:"created_at"`
	Summary   engine.Summary            `json:"summary"`
	Results   []engine.EvaluationResult `json:"results"`
}

// NewSnapshot captures results under a fresh ID.
func NewSnapshot(results []engine.EvaluationResult, summary engine.Summary, now time.Time) *Snapshot {
	return &Snapshot{
		ID:        uuid.New().String(),
		CreatedAt: now.UTC(),
		Summary:   summary,
		Results:   results,
	}
}

// SaveSnapshot writes the snapshot to path as JSON.
func SaveSnapshot(path string, s *Snapshot) error {
	return WriteFile(path, func(w io.Writer) error {
		return writeJSON(w, s)
	})
}

// LoadSnapshot reads a snapshot written by SaveSnapshot.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}
	if _, err := uuid.Parse(s.ID); err != nil {
		return nil, fmt.Errorf("snapshot %s has invalid id %q: %w", path, s.ID, err)
	}
	return &s, nil
}
