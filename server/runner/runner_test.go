package runner_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/jacobpatterson1549/selene-darts/server/runner"
)

func TestStartStop(t *testing.T) {
	var r runner.Runner
	if r.Running() {
		t.Error("did not want runner to be running before it is started")
	}
	if err := r.Start(); err != nil {
		t.Errorf("unwanted error starting: %v", err)
	}
	if !r.Running() {
		t.Error("wanted runner to be running after it is started")
	}
	if err := r.Start(); !errors.Is(err, runner.ErrAlreadyStarted) {
		t.Errorf("wanted ErrAlreadyStarted when starting a running runner, got %v", err)
	}
	r.Stop()
	if r.Running() {
		t.Error("did not want runner to be running after it is stopped")
	}
	if err := r.Start(); !errors.Is(err, runner.ErrAlreadyStarted) {
		t.Errorf("wanted ErrAlreadyStarted when starting a stopped runner, got %v", err)
	}
}

func TestStopBeforeStart(t *testing.T) {
	var r runner.Runner
	r.Stop()
	if err := r.Start(); err == nil {
		t.Error("wanted error starting a runner that was stopped before it started")
	}
}

func TestStartConcurrent(t *testing.T) {
	const n = 50
	var r runner.Runner
	var wg sync.WaitGroup
	errs := make(chan error, n)
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			errs <- r.Start()
		}()
	}
	wg.Wait()
	close(errs)
	numStarted := 0
	for err := range errs {
		if err == nil {
			numStarted++
		}
	}
	if numStarted != 1 {
		t.Errorf("wanted the runner to only be started once, got %v", numStarted)
	}
}
