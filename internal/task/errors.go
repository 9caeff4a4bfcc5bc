package task

import "errors"

// Error kinds returned across the engine's public boundary. Callers
// discriminate with errors.Is; wrapped messages carry the offending id/key.
var (
	ErrNotFound            = errors.New("task not found")
	ErrProjectNotFound     = errors.New("project not found")
	ErrBlockedByDependency = errors.New("cannot complete: blocked by")
	ErrCyclicDependency    = errors.New("dependency would create a cycle")
	ErrDependencyViolation = errors.New("task is an active blocker")
	ErrSelfDependency      = errors.New("task cannot block itself")
	ErrDuplicateEdge       = errors.New("task is already blocked by")
	ErrEdgeNotFound        = errors.New("task is not blocked by")
	ErrMalformedFile       = errors.New("malformed CSV file")
	ErrInvalidDate         = errors.New("invalid due date")
	ErrInvalidPriority     = errors.New("invalid priority")
	ErrValidationFailed    = errors.New("validation failed")
	ErrIDGenerationFailed  = errors.New("failed to generate unique ID")
	ErrImmutableField      = errors.New("field is immutable")
)
