package ctdf

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// NotFoundError is a valid negative answer: unknown identifier or no result for the query
type NotFoundError struct {
	Resource   string
	Identifier string
}

func (e *NotFoundError) Error() string {
	if e.Identifier == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Identifier)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// InputError is a missing or malformed query parameter
type InputError struct {
	Parameter string
	Reason    string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("Parameter %s %s", e.Parameter, e.Reason)
}

// CollaboratorError is a failure of the timetable store or its data
type CollaboratorError struct {
	Collaborator string
	Err          error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s unavailable: %s", e.Collaborator, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}
