package collection

import (
	"fmt"

	"github.com/bansalKrishna311/tryo/internal/domain"
	apperrors "github.com/bansalKrishna311/tryo/pkg/errors"
)

// Outcome tags how an operation ended.
type Outcome string

const (
	// OutcomeApplied means the snapshot changed and was persisted, or a load
	// installed a fresh snapshot.
	OutcomeApplied Outcome = "applied"
	// OutcomeNoop means the operation was rejected or changed nothing.
	OutcomeNoop Outcome = "noop"
	// OutcomeSuperseded means a newer load of the same key replaced this one.
	OutcomeSuperseded Outcome = "superseded"
	// OutcomeFailed means the store could not be read or written.
	OutcomeFailed Outcome = "failed"
)

// Result is what every engine operation returns. Snapshot is always the
// authoritative collection after the operation, even when it failed.
type Result[T domain.Item] struct {
	Snapshot domain.Collection[T]
	Outcome  Outcome
	Reason   string
}

// noopError rejects a mutation without touching the snapshot. It matches
// apperrors.ErrInvalidOperation.
type noopError struct {
	reason string
}

func (e noopError) Error() string { return e.reason }

func (e noopError) Is(target error) bool { return target == apperrors.ErrInvalidOperation }

func noop(format string, args ...any) error {
	return noopError{reason: fmt.Sprintf(format, args...)}
}
