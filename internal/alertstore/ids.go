package alertstore

import "github.com/jonboulle/clockwork"

// IDSource hands out alert ids: wall-clock milliseconds, bumped past the
// previous id whenever the clock has not moved on (two creations in the same
// millisecond, or a clock that stepped backwards). Ids are therefore unique
// and strictly increasing for the lifetime of the source.
type IDSource struct {
	clock clockwork.Clock
	last  int64
}

// NewIDSource creates an IDSource reading time from clock.
func NewIDSource(clock clockwork.Clock) *IDSource {
	return &IDSource{clock: clock}
}

// Next returns a fresh id greater than every id issued or observed so far.
func (s *IDSource) Next() int64 {
	id := s.clock.Now().UnixMilli()
	if id <= s.last {
		id = s.last + 1
	}
	s.last = id
	return id
}

// Observe records an id that already exists so later ids sort after it.
func (s *IDSource) Observe(id int64) {
	if id > s.last {
		s.last = id
	}
}
