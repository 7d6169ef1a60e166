package match

import (
	"sync"
	"time"
)

// scheduler owns the two deferred actions of a round: the round deadline and
// the inter-round delay. Scheduling a kind replaces any pending timer of the
// same kind. Cancellation is best effort: a fire can race a cancel, so every
// callback carries the round generation captured at schedule time and the
// session re-checks it against the live generation before mutating anything.
type scheduler struct {
	mtx      sync.Mutex
	deadline *time.Timer
	delay    *time.Timer
}

func (s *scheduler) scheduleDeadline(d time.Duration, fn func()) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.deadline != nil {
		s.deadline.Stop()
	}
	s.deadline = time.AfterFunc(d, fn)
}

func (s *scheduler) scheduleDelay(d time.Duration, fn func()) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.delay != nil {
		s.delay.Stop()
	}
	s.delay = time.AfterFunc(d, fn)
}

func (s *scheduler) cancelDeadline() {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.deadline != nil {
		s.deadline.Stop()
		s.deadline = nil
	}
}

func (s *scheduler) cancel() {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.deadline != nil {
		s.deadline.Stop()
		s.deadline = nil
	}
	if s.delay != nil {
		s.delay.Stop()
		s.delay = nil
	}
}
