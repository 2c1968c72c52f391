package rules

import (
	"sort"
	"sync"
)

// WatcherScope defines how long a watcher's tracking lasts.
type WatcherScope int

const (
	// WatcherScopeMatch tracks events for the whole match.
	WatcherScopeMatch WatcherScope = iota
	// WatcherScopeTurn is reset whenever a turn ends.
	WatcherScopeTurn
)

// String returns the string representation of the watcher scope.
func (ws WatcherScope) String() string {
	switch ws {
	case WatcherScopeMatch:
		return "MATCH"
	case WatcherScopeTurn:
		return "TURN"
	default:
		return "UNKNOWN"
	}
}

// Watcher observes match events and keeps derived tallies.
type Watcher interface {
	// Watch is called for every published event.
	Watch(event Event)
	// Reset clears the watcher's state.
	Reset()
	// ConditionMet reports whether the tracked condition happened.
	ConditionMet() bool
	Scope() WatcherScope
	Key() string
}

// BaseWatcher carries the bookkeeping shared by watchers.
type BaseWatcher struct {
	scope     WatcherScope
	key       string
	condition bool
}

// NewBaseWatcher creates a base watcher.
func NewBaseWatcher(key string, scope WatcherScope) *BaseWatcher {
	return &BaseWatcher{key: key, scope: scope}
}

// Scope returns the watcher's scope.
func (bw *BaseWatcher) Scope() WatcherScope {
	return bw.scope
}

// Key returns the registry key.
func (bw *BaseWatcher) Key() string {
	return bw.key
}

// ConditionMet returns whether the condition has been met.
func (bw *BaseWatcher) ConditionMet() bool {
	return bw.condition
}

// SetCondition sets the condition flag.
func (bw *BaseWatcher) SetCondition(condition bool) {
	bw.condition = condition
}

// Reset clears the condition.
func (bw *BaseWatcher) Reset() {
	bw.condition = false
}

// WatcherRegistry manages the watchers of a match.
type WatcherRegistry struct {
	mu       sync.RWMutex
	watchers map[string]Watcher
}

// NewWatcherRegistry creates a new watcher registry.
func NewWatcherRegistry() *WatcherRegistry {
	return &WatcherRegistry{watchers: make(map[string]Watcher)}
}

// AddWatcher registers a watcher under its key, replacing any previous one.
func (wr *WatcherRegistry) AddWatcher(watcher Watcher) {
	if watcher == nil {
		return
	}
	wr.mu.Lock()
	defer wr.mu.Unlock()
	wr.watchers[watcher.Key()] = watcher
}

// RemoveWatcher removes a watcher from the registry.
func (wr *WatcherRegistry) RemoveWatcher(key string) {
	wr.mu.Lock()
	defer wr.mu.Unlock()
	delete(wr.watchers, key)
}

// GetWatcher retrieves a watcher by key.
func (wr *WatcherRegistry) GetWatcher(key string) (Watcher, bool) {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	w, ok := wr.watchers[key]
	return w, ok
}

// GetAllWatchers returns all watchers sorted by key.
func (wr *WatcherRegistry) GetAllWatchers() []Watcher {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	result := make([]Watcher, 0, len(wr.watchers))
	for _, w := range wr.watchers {
		result = append(result, w)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key() < result[j].Key() })
	return result
}

// ResetWatchersByScope resets all watchers of a scope.
func (wr *WatcherRegistry) ResetWatchersByScope(scope WatcherScope) {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	for _, w := range wr.watchers {
		if w.Scope() == scope {
			w.Reset()
		}
	}
}

// NotifyWatchers delivers an event to every watcher. Turn-scoped watchers
// are reset after a turn ends.
func (wr *WatcherRegistry) NotifyWatchers(event Event) {
	for _, w := range wr.GetAllWatchers() {
		w.Watch(event)
	}
	if event.Type == EventTurnEnded {
		wr.ResetWatchersByScope(WatcherScopeTurn)
	}
}
