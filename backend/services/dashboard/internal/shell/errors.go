package shell

import (
	"errors"
	"fmt"
)

// Messages shown by the shell.
const (
	AdminOnly      = "Only administrators can perform this action"
	FetchFailed    = "Failed to fetch charging stations"
	DeleteFailed   = "Failed to delete station"
	SaveFailed     = "Failed to save station"
	CreatedMessage = "Station created successfully"
	UpdatedMessage = "Station updated successfully"
	DeletedMessage = "Station deleted successfully"
)

// ErrPermissionDenied marks actions the current user may not perform.
var ErrPermissionDenied = errors.New("shell: permission denied")

// PermissionError is returned when an action is refused, locally or by the API.
type PermissionError struct {
	Action string
	Err    error
}

func (e *PermissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("shell: %s: permission denied: %v", e.Action, e.Err)
	}
	return fmt.Sprintf("shell: %s: permission denied", e.Action)
}

// Is makes errors.Is(err, ErrPermissionDenied) hold.
func (e *PermissionError) Is(target error) bool {
	return target == ErrPermissionDenied
}

func (e *PermissionError) Unwrap() error { return e.Err }

// UserMessage is the text shown to the user.
func (e *PermissionError) UserMessage() string { return AdminOnly }
