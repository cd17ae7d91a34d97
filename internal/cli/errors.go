package cli

import (
	"errors"
	"fmt"

	"outline-cli/internal/store"
)

// Process exit codes. Anything not listed exits 1.
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitNotFound     = 3
	ExitDuplicate    = 4
	ExitInvalidMove  = 5
	ExitPersistence  = 6
	ExitNoProject    = 7
	ExitEditCanceled = 8
)

// ExitCode maps an error returned by a command to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, store.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, store.ErrDuplicateName):
		return ExitDuplicate
	case errors.Is(err, store.ErrInvalidMove):
		return ExitInvalidMove
	case errors.Is(err, store.ErrPersistence):
		return ExitPersistence
	case errors.Is(err, errNoActiveProject):
		return ExitNoProject
	case errors.Is(err, errEditCancelled):
		return ExitEditCanceled
	default:
		return ExitFailure
	}
}

var (
	errNoActiveProject = errors.New("no active project; run `outline projects use <name>` or pass --project")
	errEditCancelled   = errors.New("edit cancelled")
)

type badRefError struct {
	kind string
	ref  string
}

func (e badRefError) Error() string {
	return fmt.Sprintf("invalid %s reference: %q", e.kind, e.ref)
}
