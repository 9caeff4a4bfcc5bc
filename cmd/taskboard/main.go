// Package main provides taskboard, a task tracker with dependency-aware
// lifecycle rules, kanban grouping, and CSV import.
package main

import (
	"os"

	"github.com/calvinalkan/taskboard/internal/cli"
)

func main() {
	os.Exit(cli.Run(nil, os.Stdout, os.Stderr, os.Args, os.Environ()))
}
