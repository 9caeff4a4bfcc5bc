// Package config loads taskboard configuration files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"
)

// Config holds all configuration options. Config files are JSONC: comments
// and trailing commas are tolerated.
type Config struct {
	// BoardFile is the path to the board snapshot, relative to the
	// working directory unless absolute.
	BoardFile string `json:"board_file"`

	// DefaultProject is the project key used when a command doesn't name
	// one.
	DefaultProject string `json:"default_project,omitempty"`

	// Assignees maps assignee emails (lowercase) to user ids for CSV
	// import resolution.
	Assignees map[string]string `json:"assignees,omitempty"`
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// Default returns the default configuration.
func Default() Config {
	return Config{BoardFile: ".taskboard/board.json"}
}

// FileName is the default project config file name.
const FileName = ".taskboard.json"

var (
	errConfigFileNotFound = errors.New("config file not found")
	errConfigInvalid      = errors.New("invalid config file")
	errBoardFileEmpty     = errors.New("board_file cannot be empty")
)

// Load loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config ($XDG_CONFIG_HOME/taskboard/config.json)
// 3. Project config file (.taskboard.json, if exists)
// 4. Explicit config file via configPath (if non-empty)
// 5. CLI overrides.
func Load(workDir, configPath string, overrides Config, env []string) (Config, Sources, error) {
	cfg := Default()

	var sources Sources

	globalCfg, globalPath, err := loadGlobal(env)
	if err != nil {
		return Config{}, Sources{}, err
	}

	sources.Global = globalPath
	cfg = merge(cfg, globalCfg)

	projectCfg, projectPath, err := loadProject(workDir, configPath)
	if err != nil {
		return Config{}, Sources{}, err
	}

	sources.Project = projectPath
	cfg = merge(cfg, projectCfg)

	cfg = merge(cfg, overrides)

	if cfg.BoardFile == "" {
		return Config{}, Sources{}, errBoardFileEmpty
	}

	return cfg, sources, nil
}

func merge(base, over Config) Config {
	if over.BoardFile != "" {
		base.BoardFile = over.BoardFile
	}

	if over.DefaultProject != "" {
		base.DefaultProject = over.DefaultProject
	}

	if len(over.Assignees) > 0 {
		base.Assignees = over.Assignees
	}

	return base
}

// globalPath returns the global config path, preferring XDG_CONFIG_HOME from
// the provided env slice. Returns empty if no home can be determined.
func globalPath(env []string) string {
	for _, e := range env {
		if after, ok := strings.CutPrefix(e, "XDG_CONFIG_HOME="); ok {
			return filepath.Join(after, "taskboard", "config.json")
		}
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "taskboard", "config.json")
	}

	home, err := os.UserHomeDir()
	if err == nil {
		return filepath.Join(home, ".config", "taskboard", "config.json")
	}

	return ""
}

func loadGlobal(env []string) (Config, string, error) {
	path := globalPath(env)
	if path == "" {
		return Config{}, "", nil
	}

	cfg, loaded, err := loadFile(path, false)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	return cfg, path, nil
}

func loadProject(workDir, configPath string) (Config, string, error) {
	var cfgFile string

	var mustExist bool

	if configPath != "" {
		// Explicit config file - must exist
		cfgFile = configPath
		if !filepath.IsAbs(cfgFile) {
			cfgFile = filepath.Join(workDir, cfgFile)
		}

		mustExist = true

		_, statErr := os.Stat(cfgFile)
		if statErr != nil {
			return Config{}, "", fmt.Errorf("%w: %s", errConfigFileNotFound, configPath)
		}
	} else {
		cfgFile = filepath.Join(workDir, FileName)
	}

	cfg, loaded, err := loadFile(cfgFile, mustExist)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	return cfg, cfgFile, nil
}

// loadFile loads one config file. If mustExist is false, a missing file
// returns zero config and loaded=false.
func loadFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, false, nil
		}

		if mustExist {
			return Config{}, false, fmt.Errorf("%w: %s", errConfigFileNotFound, path)
		}

		return Config{}, false, nil
	}

	cfg, parseErr := parse(data)
	if parseErr != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", errConfigInvalid, path, parseErr)
	}

	return cfg, true, nil
}

func parse(data []byte) (Config, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	err = json.Unmarshal(standardized, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
