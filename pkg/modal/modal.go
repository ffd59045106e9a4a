// Package modal holds the open/closed state of the store setup dialog. The
// root screen owns a Modal; descendants that only need to open it receive
// the narrow Opener capability.
package modal

import "sync"

// Opener is the capability handed to screens that may open the dialog.
type Opener interface {
	Open()
}

// Listener is called with the new state after every change.
type Listener func(open bool)

// Modal is safe for concurrent use.
type Modal struct {
	mu        sync.Mutex
	open      bool
	listeners []Listener
}

// New returns a closed modal.
func New() *Modal {
	return &Modal{}
}

// IsOpen reports the current state.
func (m *Modal) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// Open shows the dialog.
func (m *Modal) Open() {
	m.set(true)
}

// Close hides the dialog.
func (m *Modal) Close() {
	m.set(false)
}

// EnsureOpen opens the dialog when it is closed and reports whether it
// changed anything. The setup screen calls it on every visit.
func (m *Modal) EnsureOpen() bool {
	return m.set(true)
}

// OnChange registers l. Listeners run outside the lock in registration
// order and only when the state actually changes.
func (m *Modal) OnChange(l Listener) {
	if l == nil {
		return
	}
	m.mu.Lock()
	m.listeners = append(m.listeners, l)
	m.mu.Unlock()
}

func (m *Modal) set(open bool) bool {
	m.mu.Lock()
	if m.open == open {
		m.mu.Unlock()
		return false
	}
	m.open = open
	listeners := append([]Listener(nil), m.listeners...)
	m.mu.Unlock()

	for _, l := range listeners {
		l(open)
	}
	return true
}
