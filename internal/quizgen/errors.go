package quizgen

import "fmt"

// ParseError marks a generation response that is not the expected JSON
// object. Raw carries the offending text for diagnostics.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse quiz response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError marks a structurally valid quiz that breaks a semantic
// invariant, such as a correct answer missing from its options.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid quiz: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
