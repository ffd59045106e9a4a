package tui

import "errors"

var (
	// ErrAborted is returned when the user interrupts a prompt with Ctrl+C.
	ErrAborted = errors.New("tui: aborted")
	// ErrCancelled is returned when the user declines a delete.
	ErrCancelled = errors.New("tui: cancelled")
	// ErrNoOptions is returned for a required relationship whose related
	// entity has no records yet.
	ErrNoOptions = errors.New("tui: nothing to choose from")
)
