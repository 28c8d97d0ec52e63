package pipeline

import "fmt"

// CollaboratorError tags a remote service failure with the stage it
// happened in. Unwrap exposes the underlying error so typed inspection
// (parse, validation, payload size) still works through it.
type CollaboratorError struct {
	Stage string
	Err   error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}
