// Package depgraph maintains blocking edges and subtask trees over the task
// collection.
//
// BLOCKS edges are owned here: "A blocks B" means B cannot reach done while A
// is not done. The subtask relation is distinct (no blocking semantics) and
// derived from Task.ParentID; the graph only indexes it. Both relations are
// kept cycle-free at write time. The graph holds no task data of its own,
// only adjacency indexed by task id, so it can never desync from the store:
// deletions cascade through the store's change events.
package depgraph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/calvinalkan/taskboard/internal/store"
	"github.com/calvinalkan/taskboard/internal/task"
)

// Graph indexes BLOCKS edges and the subtask tree.
type Graph struct {
	store *store.Store

	// blocks[from] = set of ids that from blocks.
	// blockedBy[to] = set of ids that block to.
	blocks    map[string]map[string]struct{}
	blockedBy map[string]map[string]struct{}

	// parent[child] = parent id; children[parent] = set of child ids.
	parent   map[string]string
	children map[string]map[string]struct{}
}

// New builds a graph over the store and wires it into the store's change
// notification and delete guard.
func New(s *store.Store) *Graph {
	g := &Graph{
		store:     s,
		blocks:    make(map[string]map[string]struct{}),
		blockedBy: make(map[string]map[string]struct{}),
		parent:    make(map[string]string),
		children:  make(map[string]map[string]struct{}),
	}

	s.OnChange(g.onChange)
	s.SetDeleteGuard(g.deleteGuard)

	return g
}

// AddEdge records "from BLOCKS to". Rejects unknown ids, self-edges,
// duplicates, and edges that would create a cycle. Cycle detection runs at
// insert time (DFS from to looking for from) so blocked-state queries stay
// O(edges-of-node).
func (g *Graph) AddEdge(fromID, toID string) error {
	if _, err := g.store.Get(fromID); err != nil {
		return err
	}

	if _, err := g.store.Get(toID); err != nil {
		return err
	}

	if fromID == toID {
		return fmt.Errorf("%w: %s", task.ErrSelfDependency, fromID)
	}

	if _, dup := g.blocks[fromID][toID]; dup {
		return fmt.Errorf("%w: %s", task.ErrDuplicateEdge, fromID)
	}

	if g.reachable(toID, fromID) {
		return fmt.Errorf("%w: %s -> %s", task.ErrCyclicDependency, fromID, toID)
	}

	addToSet(g.blocks, fromID, toID)
	addToSet(g.blockedBy, toID, fromID)

	return nil
}

// RemoveEdge deletes "from BLOCKS to". Removing a missing edge is an error
// so callers can surface typos.
func (g *Graph) RemoveEdge(fromID, toID string) error {
	if _, ok := g.blocks[fromID][toID]; !ok {
		return fmt.Errorf("%w: %s", task.ErrEdgeNotFound, fromID)
	}

	removeFromSet(g.blocks, fromID, toID)
	removeFromSet(g.blockedBy, toID, fromID)

	return nil
}

// IsBlocked reports whether any non-done task blocks taskID.
func (g *Graph) IsBlocked(taskID string) bool {
	for fromID := range g.blockedBy[taskID] {
		from, err := g.store.Get(fromID)
		if err != nil {
			continue
		}

		if from.Status != task.StatusDone {
			return true
		}
	}

	return false
}

// Blockers returns the tasks blocking taskID (resolved or not), ID-sorted.
func (g *Graph) Blockers(taskID string) []task.Task {
	return g.resolve(g.blockedBy[taskID])
}

// UnresolvedBlockers returns the non-done tasks blocking taskID, ID-sorted.
func (g *Graph) UnresolvedBlockers(taskID string) []task.Task {
	all := g.resolve(g.blockedBy[taskID])

	out := all[:0]

	for _, t := range all {
		if t.Status != task.StatusDone {
			out = append(out, t)
		}
	}

	return out
}

// Blocking returns the tasks that taskID blocks, ID-sorted.
func (g *Graph) Blocking(taskID string) []task.Task {
	return g.resolve(g.blocks[taskID])
}

// Edge is one directed BLOCKS relation.
type Edge struct {
	FromID string
	ToID   string
}

// Edges exports all BLOCKS edges sorted by (from, to), for persistence.
func (g *Graph) Edges() []Edge {
	var out []Edge

	for fromID, tos := range g.blocks {
		for toID := range tos {
			out = append(out, Edge{FromID: fromID, ToID: toID})
		}
	}

	slices.SortFunc(out, func(a, b Edge) int {
		if c := strings.Compare(a.FromID, b.FromID); c != 0 {
			return c
		}

		return strings.Compare(a.ToID, b.ToID)
	})

	return out
}

// SetParent makes child a subtask of parent, after checking the relation
// stays cycle-free (a subtask cannot be its own ancestor). An empty parent
// detaches the child. The parent link lives on the task record; the graph
// index follows via the store's change event.
func (g *Graph) SetParent(childID, parentID string) error {
	child, err := g.store.Get(childID)
	if err != nil {
		return err
	}

	if parentID != "" {
		if _, err := g.store.Get(parentID); err != nil {
			return err
		}

		if childID == parentID {
			return fmt.Errorf("%w: %s", task.ErrSelfDependency, childID)
		}

		// Walk up from the proposed parent; finding child means a cycle.
		// The walk tracks visited ids so a damaged parent chain (e.g. a
		// hand-edited snapshot) terminates instead of looping.
		seen := make(map[string]struct{})

		for cur := parentID; cur != ""; cur = g.parent[cur] {
			if cur == childID {
				return fmt.Errorf("%w: %s -> %s", task.ErrCyclicDependency, childID, parentID)
			}

			if _, ok := seen[cur]; ok {
				break
			}

			seen[cur] = struct{}{}
		}
	}

	child.ParentID = parentID

	_, err = g.store.Upsert(child)

	return err
}

// Children returns the direct subtasks of parentID, ID-sorted.
func (g *Graph) Children(parentID string) []task.Task {
	return g.resolve(g.children[parentID])
}

// Progress reports subtask completion for a parent as (done, total).
// Computed on read, never stored.
func (g *Graph) Progress(parentID string) (done, total int) {
	for childID := range g.children[parentID] {
		child, err := g.store.Get(childID)
		if err != nil {
			continue
		}

		total++

		if child.Status == task.StatusDone {
			done++
		}
	}

	return done, total
}

// deleteGuard vetoes deleting a task that still actively blocks others. A
// done task's outgoing edges are all resolved (they no longer gate anything,
// matching IsBlocked), so it can always be deleted.
func (g *Graph) deleteGuard(taskID string) error {
	t, err := g.store.Get(taskID)
	if err != nil || t.Status == task.StatusDone {
		return nil
	}

	for toID := range g.blocks[taskID] {
		to, err := g.store.Get(toID)
		if err != nil {
			continue
		}

		if to.Status != task.StatusDone {
			return fmt.Errorf("%w: %s blocks %s", task.ErrDependencyViolation, taskID, to.Key)
		}
	}

	return nil
}

// onChange keeps the adjacency indexes consistent with the store.
func (g *Graph) onChange(ev store.Event) {
	id := ev.Task.ID

	switch ev.Kind {
	case store.ChangeCreated, store.ChangeUpdated:
		g.reindexParent(id, ev.Task.ParentID)

	case store.ChangeDeleted:
		// Cascade: drop every edge touching the task, both directions.
		for toID := range g.blocks[id] {
			removeFromSet(g.blockedBy, toID, id)
		}

		delete(g.blocks, id)

		for fromID := range g.blockedBy[id] {
			removeFromSet(g.blocks, fromID, id)
		}

		delete(g.blockedBy, id)

		// Orphan subtasks: children become top-level tasks.
		for childID := range g.children[id] {
			delete(g.parent, childID)
			g.store.ClearParent(childID)
		}

		delete(g.children, id)
		g.reindexParent(id, "")
	}
}

func (g *Graph) reindexParent(childID, parentID string) {
	old, had := g.parent[childID]
	if had && old != parentID {
		removeFromSet(g.children, old, childID)
		delete(g.parent, childID)
	}

	if parentID != "" {
		g.parent[childID] = parentID
		addToSet(g.children, parentID, childID)
	}
}

// reachable reports whether dst can be reached from src over BLOCKS edges.
// Iterative DFS, O(V+E).
func (g *Graph) reachable(src, dst string) bool {
	if src == dst {
		return true
	}

	seen := map[string]struct{}{src: {}}
	stack := []string{src}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for next := range g.blocks[cur] {
			if next == dst {
				return true
			}

			if _, ok := seen[next]; ok {
				continue
			}

			seen[next] = struct{}{}
			stack = append(stack, next)
		}
	}

	return false
}

func (g *Graph) resolve(ids map[string]struct{}) []task.Task {
	out := make([]task.Task, 0, len(ids))

	for id := range ids {
		t, err := g.store.Get(id)
		if err != nil {
			continue
		}

		out = append(out, t)
	}

	slices.SortFunc(out, func(a, b task.Task) int {
		return strings.Compare(a.ID, b.ID)
	})

	return out
}

func addToSet(m map[string]map[string]struct{}, key, val string) {
	set, ok := m[key]
	if !ok {
		set = make(map[string]struct{})
		m[key] = set
	}

	set[val] = struct{}{}
}

func removeFromSet(m map[string]map[string]struct{}, key, val string) {
	set, ok := m[key]
	if !ok {
		return
	}

	delete(set, val)

	if len(set) == 0 {
		delete(m, key)
	}
}
