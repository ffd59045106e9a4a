package controller

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned when a mutation is already in flight.
	ErrBusy = errors.New("controller: busy")
	// ErrNoRecord is returned for record operations in create mode.
	ErrNoRecord = errors.New("controller: no record")
	// ErrNotConfirming is returned by ConfirmDelete without a pending
	// RequestDelete.
	ErrNotConfirming = errors.New("controller: delete not requested")
	// ErrConfirming is returned for edits while a delete confirmation is
	// open.
	ErrConfirming = errors.New("controller: delete confirmation pending")
	// ErrTerminated is returned after the screen was navigated away from.
	ErrTerminated = errors.New("controller: terminated")
	// ErrReadOnly is returned for mutations on read-only entities.
	ErrReadOnly = errors.New("controller: read-only entity")
	// ErrMissingID is reported when a create succeeds without returning the
	// new record's id.
	ErrMissingID = errors.New("controller: saved record has no id")
	// ErrNoSender is returned by New when no transport was configured.
	ErrNoSender = errors.New("controller: sender is required")
)

// ErrorKind is the closed set of outcomes surfaced to the presentation layer.
type ErrorKind string

const (
	KindValidationFailed  ErrorKind = "validation_failed"
	KindNetworkFailure    ErrorKind = "network_failure"
	KindIntegrityConflict ErrorKind = "integrity_conflict"
)

// Error is returned by Submit and ConfirmDelete when the operation fails.
// Message is the text shown to the user; Fields carries per-field messages
// for validation failures.
type Error struct {
	Kind    ErrorKind
	Op      string
	Message string
	Fields  map[string][]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("controller: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("controller: %s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the error kind from err.
func KindOf(err error) (ErrorKind, bool) {
	var ctrlErr *Error
	if errors.As(err, &ctrlErr) {
		return ctrlErr.Kind, true
	}
	return "", false
}
