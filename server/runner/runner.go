// Package runner guards parts of the server that may only be started once.
package runner

import (
	"errors"
	"sync"
)

// ErrAlreadyStarted is returned when a runner is started a second time.
var ErrAlreadyStarted = errors.New("already running or has finished running")

// Runner tracks if something has been started or stopped.  It is safe for concurrent use.
type Runner struct {
	mu      sync.Mutex
	running bool
	done    bool
}

// Start marks the runner as running.  A runner can only be started once.
func (r *Runner) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running || r.done {
		return ErrAlreadyStarted
	}
	r.running = true
	return nil
}

// Stop marks the runner as done, regardless if it was started.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = false
	r.done = true
}

// Running determines if the runner has been started but not stopped.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}
