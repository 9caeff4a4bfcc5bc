package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/calvinalkan/taskboard/internal/config"
)

// noGlobal points XDG_CONFIG_HOME at an empty dir so the developer's real
// global config can never leak into a test.
func noGlobal(t *testing.T) []string {
	t.Helper()

	return []string{"XDG_CONFIG_HOME=" + t.TempDir()}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, sources, err := config.Load(t.TempDir(), "", config.Config{}, noGlobal(t))
	if err != nil {
		t.Fatal(err)
	}

	if got, want := cfg.BoardFile, ".taskboard/board.json"; got != want {
		t.Errorf("board file = %q, want %q", got, want)
	}

	if sources.Global != "" || sources.Project != "" {
		t.Errorf("sources = %+v, want none", sources)
	}
}

func TestLoadProjectFileWithComments(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, config.FileName), `{
		// Board lives next to the repo, not in it.
		"board_file": "../board.json",
		"default_project": "WEB", // trailing comma below is fine too
	}`)

	cfg, sources, err := config.Load(dir, "", config.Config{}, noGlobal(t))
	if err != nil {
		t.Fatal(err)
	}

	if got, want := cfg.BoardFile, "../board.json"; got != want {
		t.Errorf("board file = %q, want %q", got, want)
	}

	if got, want := cfg.DefaultProject, "WEB"; got != want {
		t.Errorf("default project = %q, want %q", got, want)
	}

	if sources.Project == "" {
		t.Error("project source not recorded")
	}
}

func TestLoadPrecedence(t *testing.T) {
	t.Parallel()

	globalDir := t.TempDir()
	writeFile(t, filepath.Join(globalDir, "taskboard", "config.json"),
		`{"board_file": "global.json", "default_project": "GLB"}`)

	workDir := t.TempDir()
	writeFile(t, filepath.Join(workDir, config.FileName),
		`{"board_file": "project.json"}`)

	env := []string{"XDG_CONFIG_HOME=" + globalDir}

	// Project file overrides the global board file but inherits the
	// global default project it doesn't set.
	cfg, _, err := config.Load(workDir, "", config.Config{}, env)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := cfg.BoardFile, "project.json"; got != want {
		t.Errorf("board file = %q, want %q", got, want)
	}

	if got, want := cfg.DefaultProject, "GLB"; got != want {
		t.Errorf("default project = %q, want %q", got, want)
	}

	// CLI overrides beat both files.
	cfg, _, err = config.Load(workDir, "", config.Config{BoardFile: "cli.json", DefaultProject: "CLI"}, env)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := cfg.BoardFile, "cli.json"; got != want {
		t.Errorf("board file = %q, want %q", got, want)
	}

	if got, want := cfg.DefaultProject, "CLI"; got != want {
		t.Errorf("default project = %q, want %q", got, want)
	}
}

func TestLoadAssignees(t *testing.T) {
	t.Parallel()

	globalDir := t.TempDir()
	writeFile(t, filepath.Join(globalDir, "taskboard", "config.json"),
		`{"assignees": {"old@example.com": "u-old"}}`)

	workDir := t.TempDir()
	writeFile(t, filepath.Join(workDir, config.FileName), `{
		"assignees": {
			"alice@example.com": "u-alice",
			"bob@example.com": "u-bob",
		},
	}`)

	cfg, _, err := config.Load(workDir, "", config.Config{}, []string{"XDG_CONFIG_HOME=" + globalDir})
	if err != nil {
		t.Fatal(err)
	}

	if got, want := cfg.Assignees["alice@example.com"], "u-alice"; got != want {
		t.Errorf("assignee = %q, want %q", got, want)
	}

	// The project map replaces the global one wholesale, it is not merged
	// entry by entry.
	if _, ok := cfg.Assignees["old@example.com"]; ok {
		t.Error("global assignee survived a project-level assignees map")
	}
}

func TestLoadExplicitConfigPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "alt.json"), `{"board_file": "alt-board.json"}`)

	cfg, _, err := config.Load(dir, "alt.json", config.Config{}, noGlobal(t))
	if err != nil {
		t.Fatal(err)
	}

	if got, want := cfg.BoardFile, "alt-board.json"; got != want {
		t.Errorf("board file = %q, want %q", got, want)
	}

	// An explicit path that doesn't exist is an error, unlike the implicit
	// project file.
	if _, _, err := config.Load(dir, "missing.json", config.Config{}, noGlobal(t)); err == nil {
		t.Error("missing explicit config did not error")
	}
}

func TestLoadRejectsInvalidFiles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "board_file = nope"},
		{name: "wrong type", content: `{"board_file": 42}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, config.FileName), tt.content)

			if _, _, err := config.Load(dir, "", config.Config{}, noGlobal(t)); err == nil {
				t.Error("invalid config did not error")
			}
		})
	}
}

func TestLoadRejectsEmptyBoardFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, config.FileName), `{"board_file": ""}`)

	// An empty board_file in the file falls through to the default, but an
	// override cannot blank it either; the merged result must never be
	// empty. Exercise the default fallback here.
	cfg, _, err := config.Load(dir, "", config.Config{}, noGlobal(t))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.BoardFile == "" {
		t.Error("merged board file is empty")
	}
}
