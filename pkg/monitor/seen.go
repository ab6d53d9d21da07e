package monitor

import "sync"

// seenSet remembers the most recent message IDs. Once full, the oldest ID
// is forgotten for each new one.
type seenSet struct {
	mu    sync.Mutex
	ids   map[string]struct{}
	ring  []string
	next  int
	count int
}

func newSeenSet(capacity int) *seenSet {
	if capacity <= 0 {
		capacity = 1
	}
	return &seenSet{
		ids:  make(map[string]struct{}, capacity),
		ring: make([]string, capacity),
	}
}

// add records id and reports whether it was new.
func (s *seenSet) add(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[id]; ok {
		return false
	}
	if s.count == len(s.ring) {
		delete(s.ids, s.ring[s.next])
	} else {
		s.count++
	}
	s.ring[s.next] = id
	s.next = (s.next + 1) % len(s.ring)
	s.ids[id] = struct{}{}
	return true
}

func (s *seenSet) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}
