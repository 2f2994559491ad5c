// Package aggregate composes Twitch API calls into the lists a view needs and
// publishes (error, loading, results) snapshots while a pass progresses.
//
// Each aggregator runs one pass per call to Run. Snapshots are published to
// subscribers after every step so a caller can render partial results. A
// newer pass supersedes an older one: updates from a superseded pass are
// dropped.
package aggregate

import (
	"sync"
)

// Subscriber receives every published snapshot. It is called synchronously
// while the aggregator holds its lock and must not call back into the
// aggregator.
type Subscriber[S any] func(S)

type state[S any] struct {
	mu   sync.Mutex
	gen  uint64
	snap S
	subs []Subscriber[S]
}

func (s *state[S]) snapshot() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

func (s *state[S]) subscribe(fn Subscriber[S]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// begin starts a new pass, applies fn and publishes. It returns the pass
// generation used by later updates.
func (s *state[S]) begin(fn func(*S)) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	fn(&s.snap)
	s.publish()
	return s.gen
}

// update applies fn and publishes if gen is still the current pass.
func (s *state[S]) update(gen uint64, fn func(*S)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	fn(&s.snap)
	s.publish()
	return true
}

func (s *state[S]) publish() {
	for _, fn := range s.subs {
		fn(s.snap)
	}
}
