package mcp

import "github.com/scriptling/scriptling-mcp/internal/syncmap"

// ComponentType identifies which registry a change event belongs to.
type ComponentType string

const (
	ComponentTool   ComponentType = "tool"
	ComponentPrompt ComponentType = "prompt"
)

// ChangeType classifies a registry mutation.
type ChangeType string

const (
	ChangeAdded   ChangeType = "added"
	ChangeUpdated ChangeType = "updated"
	ChangeRemoved ChangeType = "removed"
)

// ChangeEvent describes a single registry mutation. Events are delivered
// synchronously on the mutating goroutine.
type ChangeEvent struct {
	Component ComponentType `json:"component"`
	Change    ChangeType    `json:"change"`
	Name      string        `json:"name"`
}

// ObserverFunc receives registry change events.
type ObserverFunc func(ChangeEvent)

// Subscribe registers an observer for registry change events. Observers
// cannot be removed.
func (s *Service) Subscribe(fn ObserverFunc) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	s.observers = append(s.observers, fn)
}

func (s *Service) notifyObservers(event ChangeEvent) {
	s.obsMu.RLock()
	observers := s.observers
	s.obsMu.RUnlock()
	for _, fn := range observers {
		fn(event)
	}
}

func changeOf(event syncmap.Event) ChangeType {
	switch event {
	case syncmap.Changed:
		return ChangeUpdated
	case syncmap.Removed:
		return ChangeRemoved
	}
	return ChangeAdded
}
