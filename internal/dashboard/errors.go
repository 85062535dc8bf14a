package dashboard

import "sync"

// ErrorState is the single user-visible error message of the dashboard.
// It is replaced by the next failure and cleared by the next success or an explicit dismissal.
type ErrorState struct {
	mu  sync.Mutex
	msg string
}

func (e *ErrorState) Set(msg string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.msg = msg
}

func (e *ErrorState) Clear() {
	e.Set("")
}

// Current returns the message and whether one is set.
func (e *ErrorState) Current() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.msg, e.msg != ""
}
