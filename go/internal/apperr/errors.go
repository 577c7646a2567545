package apperr

import (
	"errors"
	"fmt"

	"github.com/goosetap/goosetap/go/internal/models"
)

// Sentinel errors forming the error taxonomy of the game core. Callers
// classify with errors.Is; transport layers map them onto status codes.
var (
	// ErrNotFound means the user or round does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState means the round cannot accept the operation in its
	// current computed status.
	ErrInvalidState = errors.New("invalid round state")
	// ErrUnauthorized means the caller lacks the role for a privileged action.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict means contention exhausted the retry budget; the caller may
	// safely retry the same request.
	ErrConflict = errors.New("conflict, please retry")
)

// RoundNotActiveError is returned when a tap hits a round outside its active
// window. It carries the computed status so callers can report it.
type RoundNotActiveError struct {
	Status models.RoundStatus
}

func (e *RoundNotActiveError) Error() string {
	return fmt.Sprintf("round is not active, current status: %s", e.Status)
}

// Unwrap makes errors.Is(err, ErrInvalidState) hold.
func (e *RoundNotActiveError) Unwrap() error {
	return ErrInvalidState
}
