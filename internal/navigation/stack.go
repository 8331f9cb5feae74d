// Package navigation maintains the in-app navigation state: a bounded route
// stack and a coordinator that turns resolved deep links into stack
// mutations, with a middleware chain between resolution and presentation.
package navigation

import (
	"sync"

	"github.com/vyrodovalexey/navlink/internal/observability"
	"github.com/vyrodovalexey/navlink/internal/registry"
	"github.com/vyrodovalexey/navlink/internal/util"
)

// DefaultMaxDepth bounds the stack when no explicit limit is configured.
const DefaultMaxDepth = 50

// Entry is one element of the navigation stack.
type Entry struct {
	Route registry.Route

	// Modal marks entries pushed via Present; Dismiss unwinds to the entry
	// below the topmost modal.
	Modal bool
}

// Stack is a thread-safe bounded navigation stack.
type Stack struct {
	mu       sync.Mutex
	entries  []Entry
	maxDepth int
}

// NewStack creates a stack bounded to maxDepth entries. Non-positive values
// fall back to DefaultMaxDepth.
func NewStack(maxDepth int) *Stack {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Stack{maxDepth: maxDepth}
}

// Push appends a route to the stack.
func (s *Stack) Push(route registry.Route) error {
	return s.push(Entry{Route: route})
}

// Present appends a route as a modal entry.
func (s *Stack) Present(route registry.Route) error {
	return s.push(Entry{Route: route, Modal: true})
}

func (s *Stack) push(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) >= s.maxDepth {
		return util.ErrStackLimit
	}

	s.entries = append(s.entries, entry)
	s.reportDepth()
	return nil
}

// Pop removes and returns the top route. The second return is false when
// the stack is empty.
func (s *Stack) Pop() (registry.Route, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) == 0 {
		return nil, false
	}

	top := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]
	s.reportDepth()
	return top.Route, true
}

// PopToRoot removes everything above the first entry.
func (s *Stack) PopToRoot() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) > 1 {
		s.entries = s.entries[:1]
	}
	s.reportDepth()
}

// Replace swaps the top route in place. An empty stack behaves like Push.
func (s *Stack) Replace(route registry.Route) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) == 0 {
		s.entries = append(s.entries, Entry{Route: route})
		s.reportDepth()
		return nil
	}

	s.entries[len(s.entries)-1] = Entry{Route: route, Modal: s.entries[len(s.entries)-1].Modal}
	return nil
}

// Dismiss unwinds the stack through the topmost modal entry. It returns the
// dismissed modal route, or false when no modal is on the stack.
func (s *Stack) Dismiss() (registry.Route, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].Modal {
			route := s.entries[i].Route
			s.entries = s.entries[:i]
			s.reportDepth()
			return route, true
		}
	}
	return nil, false
}

// Current returns the top route without removing it.
func (s *Stack) Current() (registry.Route, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) == 0 {
		return nil, false
	}
	return s.entries[len(s.entries)-1].Route, true
}

// Depth returns the number of entries on the stack.
func (s *Stack) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Snapshot returns a copy of the stack from bottom to top.
func (s *Stack) Snapshot() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// reportDepth publishes the current depth. Must be called with the lock held.
func (s *Stack) reportDepth() {
	observability.GetMetrics().NavigationDepth.Set(float64(len(s.entries)))
}
