// Package notify delivers transient user feedback (toasts) from form
// controllers to whatever surface is displaying them.
package notify

import "sync"

// Level classifies a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is one toast.
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Success builds a success notification.
func Success(message string) Notification {
	return Notification{Level: LevelSuccess, Message: message}
}

// Failure builds an error notification.
func Failure(message string) Notification {
	return Notification{Level: LevelError, Message: message}
}

// Notifier shows notifications to the user.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

// Discard drops every notification.
var Discard Notifier = NotifierFunc(func(Notification) {})

// Recorder keeps every notification it receives. It is safe for concurrent
// use.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

// Notify records n.
func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

// Reset clears the recorder.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = nil
}
