// Package boardfile persists a board snapshot (projects, tasks, dependency
// edges, key sequences) as a JSON file.
//
// The engine itself is storage-agnostic; this is the host-side adapter the
// CLI uses. The whole board is read at startup and atomically rewritten
// after mutations.
package boardfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"

	"github.com/calvinalkan/taskboard/internal/depgraph"
	"github.com/calvinalkan/taskboard/internal/store"
	"github.com/calvinalkan/taskboard/internal/task"
)

const (
	dirPerms = 0o750

	// formatVersion is bumped on incompatible snapshot changes.
	formatVersion = 1
)

type snapshot struct {
	Version   int              `json:"version"`
	Projects  []projectRecord  `json:"projects"`
	Tasks     []taskRecord     `json:"tasks"`
	Edges     []edgeRecord     `json:"edges,omitempty"`
	Sequences map[string]int64 `json:"sequences,omitempty"`
}

type projectRecord struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Key        string `json:"key"`
	ColorToken string `json:"color_token,omitempty"`
}

type taskRecord struct {
	ID             string     `json:"id"`
	Key            string     `json:"key"`
	ProjectID      string     `json:"project_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	DueAt          *time.Time `json:"due_at,omitempty"`
	EstimatedHours float64    `json:"estimated_hours,omitempty"`
	AssigneeIDs    []string   `json:"assignee_ids,omitempty"`
	ParentID       string     `json:"parent_task_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type edgeRecord struct {
	FromID string `json:"from_task_id"`
	ToID   string `json:"to_task_id"`
	Kind   string `json:"kind"`
}

// edgeKindBlocks is the only edge kind in the snapshot format today.
const edgeKindBlocks = "blocks"

// Load reads a board snapshot into the store and graph. A missing file is an
// empty board, not an error.
func Load(path string, s *store.Store, g *depgraph.Graph) error {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from config
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return fmt.Errorf("reading board file: %w", err)
	}

	var snap snapshot

	err = json.Unmarshal(data, &snap)
	if err != nil {
		return fmt.Errorf("parsing board file %s: %w", path, err)
	}

	if snap.Version > formatVersion {
		return fmt.Errorf("board file %s: unsupported version %d", path, snap.Version)
	}

	for _, p := range snap.Projects {
		s.AddProject(task.ProjectRef{ID: p.ID, Name: p.Name, Key: p.Key, ColorToken: p.ColorToken})
	}

	err = validateTaskRecords(path, snap.Tasks)
	if err != nil {
		return err
	}

	for projectID, seq := range snap.Sequences {
		s.RestoreSequence(projectID, seq)
	}

	for _, rec := range snap.Tasks {
		restoreErr := s.Restore(toTask(rec))
		if restoreErr != nil {
			return fmt.Errorf("board file %s: task %s: %w", path, rec.ID, restoreErr)
		}
	}

	for _, e := range snap.Edges {
		if e.Kind != "" && e.Kind != edgeKindBlocks {
			return fmt.Errorf("board file %s: unknown edge kind %q", path, e.Kind)
		}

		edgeErr := g.AddEdge(e.FromID, e.ToID)
		if edgeErr != nil {
			return fmt.Errorf("board file %s: edge %s -> %s: %w", path, e.FromID, e.ToID, edgeErr)
		}
	}

	return nil
}

// validateTaskRecords rejects snapshots that a hand edit or corruption has
// pushed outside the store's invariants: keys must be unique and parent
// chains must be acyclic. The store's Restore path skips runtime checks
// because snapshot order is arbitrary, so these hold the line instead.
func validateTaskRecords(path string, records []taskRecord) error {
	keys := make(map[string]string, len(records))
	parents := make(map[string]string, len(records))

	for _, rec := range records {
		if otherID, dup := keys[rec.Key]; dup {
			return fmt.Errorf("board file %s: key %s used by tasks %s and %s",
				path, rec.Key, otherID, rec.ID)
		}

		keys[rec.Key] = rec.ID

		if rec.ParentID != "" {
			parents[rec.ID] = rec.ParentID
		}
	}

	for id := range parents {
		seen := make(map[string]struct{})

		for cur := id; cur != ""; cur = parents[cur] {
			if _, ok := seen[cur]; ok {
				return fmt.Errorf("%w: board file %s: parent chain of task %s",
					task.ErrCyclicDependency, path, id)
			}

			seen[cur] = struct{}{}
		}
	}

	return nil
}

// Save atomically writes the board snapshot.
func Save(path string, s *store.Store, g *depgraph.Graph) error {
	snap := snapshot{
		Version:   formatVersion,
		Projects:  []projectRecord{},
		Tasks:     []taskRecord{},
		Sequences: s.Sequences(),
	}

	for _, p := range s.Projects() {
		snap.Projects = append(snap.Projects, projectRecord{
			ID: p.ID, Name: p.Name, Key: p.Key, ColorToken: p.ColorToken,
		})
	}

	for _, t := range s.List(nil) {
		snap.Tasks = append(snap.Tasks, toRecord(t))
	}

	for _, e := range g.Edges() {
		snap.Edges = append(snap.Edges, edgeRecord{FromID: e.FromID, ToID: e.ToID, Kind: edgeKindBlocks})
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding board file: %w", err)
	}

	mkdirErr := os.MkdirAll(filepath.Dir(path), dirPerms)
	if mkdirErr != nil {
		return fmt.Errorf("creating board directory: %w", mkdirErr)
	}

	writeErr := atomic.WriteFile(path, strings.NewReader(string(data)+"\n"))
	if writeErr != nil {
		return fmt.Errorf("writing board file: %w", writeErr)
	}

	return nil
}

func toRecord(t task.Task) taskRecord {
	rec := taskRecord{
		ID:             t.ID,
		Key:            t.Key,
		ProjectID:      t.ProjectID,
		Title:          t.Title,
		Description:    t.Description,
		Status:         string(t.Status),
		Priority:       string(t.Priority),
		EstimatedHours: t.EstimatedHours,
		AssigneeIDs:    t.AssigneeIDs,
		ParentID:       t.ParentID,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}

	if !t.DueAt.IsZero() {
		due := t.DueAt
		rec.DueAt = &due
	}

	return rec
}

func toTask(rec taskRecord) task.Task {
	t := task.Task{
		ID:             rec.ID,
		Key:            rec.Key,
		ProjectID:      rec.ProjectID,
		Title:          rec.Title,
		Description:    rec.Description,
		Status:         task.Status(rec.Status),
		Priority:       task.Priority(rec.Priority),
		EstimatedHours: rec.EstimatedHours,
		AssigneeIDs:    rec.AssigneeIDs,
		ParentID:       rec.ParentID,
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
	}

	if rec.DueAt != nil {
		t.DueAt = *rec.DueAt
	}

	return t
}
