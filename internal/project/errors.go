package project

import "strings"

// ValidationError reports every field of an update that failed the allowed
// value tables. The document is untouched when it is returned.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "invalid update: " + strings.Join(e.Errors, "; ")
}

// LockDeniedError rejects an update touching a section locked by another
// user. The holder's identity is deliberately not disclosed.
type LockDeniedError struct {
	Reason string
}

func (e *LockDeniedError) Error() string {
	return e.Reason
}
