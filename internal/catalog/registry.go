package catalog

import (
	"reflect"
	"sync"
	"time"

	"github.com/conneroisu/projectcard/internal/card"
)

// EventType represents the type of registry event
type EventType int

const (
	EventTypeAdded EventType = iota
	EventTypeUpdated
	EventTypeRemoved
)

// String returns the string representation of the EventType
func (e EventType) String() string {
	switch e {
	case EventTypeAdded:
		return "added"
	case EventTypeUpdated:
		return "updated"
	case EventTypeRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Event describes a change to a project in the registry.
type Event struct {
	Type      EventType
	Project   card.ProjectCard
	Timestamp time.Time
}

// Registry holds the current set of projects in catalog order.
type Registry struct {
	projects map[string]card.ProjectCard
	order    []string
	mutex    sync.RWMutex
	watchers []chan Event
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		projects: make(map[string]card.ProjectCard),
		watchers: make([]chan Event, 0),
	}
}

// upsert stores p and reports whether an event was emitted. The mutex
// must be held.
func (r *Registry) upsert(p card.ProjectCard) bool {
	old, exists := r.projects[p.Name]
	switch {
	case !exists:
		r.notify(EventTypeAdded, p)
	case !reflect.DeepEqual(old, p):
		r.notify(EventTypeUpdated, p)
	default:
		return false
	}
	r.projects[p.Name] = p
	return true
}

// Replace swaps the registry content for the projects in file. Projects
// missing from file are removed; the order follows file. Later duplicates
// of a name are ignored. It returns the number of events emitted.
func (r *Registry) Replace(file *File) int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	events := 0
	next := make(map[string]bool, len(file.Projects))
	order := make([]string, 0, len(file.Projects))
	for _, p := range file.Projects {
		if next[p.Name] {
			continue
		}
		next[p.Name] = true
		order = append(order, p.Name)

		if r.upsert(p) {
			events++
		}
	}

	for _, name := range r.order {
		if !next[name] {
			r.notify(EventTypeRemoved, r.projects[name])
			delete(r.projects, name)
			events++
		}
	}
	r.order = order

	return events
}

// Get retrieves a project by name
func (r *Registry) Get(name string) (card.ProjectCard, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	p, exists := r.projects[name]
	return p, exists
}

// All returns every project in catalog order.
func (r *Registry) All() []card.ProjectCard {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]card.ProjectCard, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.projects[name])
	}
	return result
}

// Count returns the number of registered projects
func (r *Registry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.projects)
}

// Watch returns a channel that receives registry events
func (r *Registry) Watch() <-chan Event {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	ch := make(chan Event, 100)
	r.watchers = append(r.watchers, ch)
	return ch
}

// UnWatch removes a watcher channel and closes it
func (r *Registry) UnWatch(ch <-chan Event) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i, watcher := range r.watchers {
		if watcher == ch {
			close(watcher)
			r.watchers = append(r.watchers[:i], r.watchers[i+1:]...)
			break
		}
	}
}

// notify must be called with the mutex held.
func (r *Registry) notify(eventType EventType, p card.ProjectCard) {
	event := Event{
		Type:      eventType,
		Project:   p,
		Timestamp: time.Now(),
	}

	for _, watcher := range r.watchers {
		select {
		case watcher <- event:
		default:
			// Skip if channel is full
		}
	}
}
