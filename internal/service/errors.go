package service

import "fmt"

// ValidationError marks input the caller can correct. Handlers answer
// it with a 400 carrying the message; any other service error is an
// internal failure and must not leak its text to the client.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(msg string) *ValidationError { return &ValidationError{Msg: msg} }

func invalidf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
