package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/calvinalkan/taskboard/internal/boardfile"
	"github.com/calvinalkan/taskboard/internal/config"
	"github.com/calvinalkan/taskboard/internal/depgraph"
	"github.com/calvinalkan/taskboard/internal/engine"
	"github.com/calvinalkan/taskboard/internal/store"
	"github.com/calvinalkan/taskboard/internal/task"
)

// App wires the engine components to one board file for the duration of a
// command invocation.
type App struct {
	Config    config.Config
	Sources   config.Sources
	BoardPath string
	Store     *store.Store
	Graph     *depgraph.Graph
	Engine    *engine.Engine
	Stdin     io.Reader
}

// NewApp builds the engine stack and loads the board snapshot.
func NewApp(cfg config.Config, sources config.Sources, boardPath string, stdin io.Reader) (*App, error) {
	s := store.New()
	g := depgraph.New(s)

	err := boardfile.Load(boardPath, s, g)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:    cfg,
		Sources:   sources,
		BoardPath: boardPath,
		Store:     s,
		Graph:     g,
		Engine:    engine.New(s, g),
		Stdin:     stdin,
	}, nil
}

// Save persists the board snapshot. Commands call it after every successful
// mutation.
func (a *App) Save() error {
	return boardfile.Save(a.BoardPath, a.Store, a.Graph)
}

// ResolveTask finds a task by id or by key (case-insensitive).
func (a *App) ResolveTask(ref string) (task.Task, error) {
	t, err := a.Store.Get(ref)
	if err == nil {
		return t, nil
	}

	matches := a.Store.List(func(t task.Task) bool {
		return strings.EqualFold(t.Key, ref)
	})

	if len(matches) == 0 {
		return task.Task{}, fmt.Errorf("%w: %s", task.ErrNotFound, ref)
	}

	return matches[0], nil
}

// ResolveProject finds a project by id or key (case-insensitive). An empty
// ref falls back to the configured default project.
func (a *App) ResolveProject(ref string) (task.ProjectRef, error) {
	if ref == "" {
		ref = a.Config.DefaultProject
	}

	if ref == "" {
		return task.ProjectRef{}, fmt.Errorf("%w: no project given and no default_project configured", task.ErrProjectNotFound)
	}

	p, err := a.Store.Project(ref)
	if err == nil {
		return p, nil
	}

	for _, candidate := range a.Store.Projects() {
		if strings.EqualFold(candidate.Key, ref) {
			return candidate, nil
		}
	}

	return task.ProjectRef{}, fmt.Errorf("%w: %s", task.ErrProjectNotFound, ref)
}
