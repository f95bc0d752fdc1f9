package completion

import (
	"errors"
	"fmt"

	"github.com/doeshing/vibe-go/internal/domain"
)

// ErrAllModelsFailed is returned when no candidate produced a completion.
var ErrAllModelsFailed = errors.New("all models failed")

// FailedError reports an exhausted candidate list. Last is the error of the
// final attempt.
type FailedError struct {
	Attempts []domain.Attempt
	Last     error
}

func (e *FailedError) Error() string {
	if e.Last == nil {
		return ErrAllModelsFailed.Error()
	}
	return fmt.Sprintf("%s after %d attempt(s): %v", ErrAllModelsFailed, len(e.Attempts), e.Last)
}

// Unwrap exposes the last underlying error.
func (e *FailedError) Unwrap() error {
	return e.Last
}

// Is matches ErrAllModelsFailed.
func (e *FailedError) Is(target error) bool {
	return target == ErrAllModelsFailed
}
