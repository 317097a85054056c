package alloc

import "github.com/joshuapare/metatilekit/metatile"

// Stack is a LIFO of metatile IDs backed by a slice.
type Stack struct {
	ids []metatile.ID
}

// Push appends id to the tail.
func (s *Stack) Push(id metatile.ID) {
	s.ids = append(s.ids, id)
}

// Pop removes and returns the tail, or false when empty.
func (s *Stack) Pop() (metatile.ID, bool) {
	n := len(s.ids)
	if n == 0 {
		return 0, false
	}
	id := s.ids[n-1]
	s.ids = s.ids[:n-1]
	return id, true
}

// Peek returns the tail without removing it.
func (s *Stack) Peek() (metatile.ID, bool) {
	if len(s.ids) == 0 {
		return 0, false
	}
	return s.ids[len(s.ids)-1], true
}

// Len returns the number of IDs on the stack.
func (s *Stack) Len() int {
	return len(s.ids)
}

// Reset empties the stack, keeping its capacity.
func (s *Stack) Reset() {
	s.ids = s.ids[:0]
}

// Snapshot returns a copy of the stack, bottom first. The last element is the
// next one Pop returns.
func (s *Stack) Snapshot() []metatile.ID {
	out := make([]metatile.ID, len(s.ids))
	copy(out, s.ids)
	return out
}
