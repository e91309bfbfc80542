// Package registry implements the generic keyed collection shared by the
// tool, prompt, resource, and resource-template registries: transactional
// add/update/upsert/remove/override semantics plus a change-notification
// hook that fans out to the MCP server's subscribers.
//
// This generalizes the teacher's pkg/tools.Registry (one concrete type,
// RegisterTool/DeregisterTool only) into a type parameterized over any
// item type, with an injected id extractor so the same implementation
// backs tools, prompts, resources, and resource templates.
package registry

import (
	"fmt"
	"sync"
)

// DuplicateOrMissingError is returned by Add (duplicate/collision), Update
// (missing key), and Override (duplicate within the batch) when a mutation
// batch is rejected before any
// state changes. The mutation is all-or-nothing: on this error the
// registry is left exactly as it was.
type DuplicateOrMissingError struct {
	Op   string
	Keys []string
}

func (e *DuplicateOrMissingError) Error() string {
	return fmt.Sprintf("registry: %s failed for keys %v", e.Op, e.Keys)
}

// IDFunc extracts the identity key of an item.
type IDFunc[T any] func(T) string

// ChangeCallback is invoked synchronously, on the caller's goroutine,
// exactly once per mutating call that changed state (never once per
// item). Per the concurrency model, callbacks must be non-blocking and
// must not re-enter the registry; the MCP server's callbacks schedule a
// fan-out rather than performing I/O inline.
type ChangeCallback func()

// LifecycleManager is a generic keyed collection with transactional
// mutations and a change-notification hook.
type LifecycleManager[T any] struct {
	mu       sync.RWMutex
	items    map[string]T
	order    []string
	idFunc   IDFunc[T]
	onChange ChangeCallback
}

// New creates a LifecycleManager. idFunc extracts an item's key; onChange
// (may be nil) is invoked after any mutation that changed state and whose
// caller requested notification.
func New[T any](idFunc IDFunc[T], onChange ChangeCallback) *LifecycleManager[T] {
	if idFunc == nil {
		panic("registry: idFunc cannot be nil")
	}
	return &LifecycleManager[T]{
		items:    make(map[string]T),
		idFunc:   idFunc,
		onChange: onChange,
	}
}

// List returns all items ordered by insertion, stable across
// non-mutating reads.
func (m *LifecycleManager[T]) List() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]T, 0, len(m.order))
	for _, key := range m.order {
		out = append(out, m.items[key])
	}
	return out
}

// Get returns the item for id, or false if absent.
func (m *LifecycleManager[T]) Get(id string) (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.items[id]
	return item, ok
}

// Add writes items only if every key is unique within the batch and
// disjoint from existing keys; otherwise it returns *DuplicateOrMissingError
// and leaves state unchanged. On success it invokes the change callback
// iff notify is true and at least one item was added.
func (m *LifecycleManager[T]) Add(items []T, notify bool) error {
	if len(items) == 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]struct{}, len(items))
	var bad []string
	for _, item := range items {
		key := m.idFunc(item)
		if _, dup := seen[key]; dup {
			bad = append(bad, key)
			continue
		}
		seen[key] = struct{}{}
		if _, exists := m.items[key]; exists {
			bad = append(bad, key)
		}
	}
	if len(bad) > 0 {
		return &DuplicateOrMissingError{Op: "add", Keys: bad}
	}

	for _, item := range items {
		key := m.idFunc(item)
		m.items[key] = item
		m.order = append(m.order, key)
	}

	m.fireLocked(notify)
	return nil
}

// Update writes items only if every key already exists; otherwise it
// returns *DuplicateOrMissingError and leaves state unchanged.
func (m *LifecycleManager[T]) Update(items []T, notify bool) error {
	if len(items) == 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var missing []string
	for _, item := range items {
		key := m.idFunc(item)
		if _, exists := m.items[key]; !exists {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return &DuplicateOrMissingError{Op: "update", Keys: missing}
	}

	for _, item := range items {
		m.items[m.idFunc(item)] = item
	}

	m.fireLocked(notify)
	return nil
}

// Upsert writes items unconditionally, inserting new keys and overwriting
// existing ones. It invokes the change callback iff notify is true and
// items is non-empty.
func (m *LifecycleManager[T]) Upsert(items []T, notify bool) {
	if len(items) == 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, item := range items {
		key := m.idFunc(item)
		if _, exists := m.items[key]; !exists {
			m.order = append(m.order, key)
		}
		m.items[key] = item
	}

	m.fireLocked(notify)
}

// Remove deletes known ids, silently skipping missing ones. It invokes the
// change callback iff notify is true and at least one id was actually
// removed.
func (m *LifecycleManager[T]) Remove(ids []string, notify bool) {
	if len(ids) == 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := false
	for _, id := range ids {
		if _, exists := m.items[id]; exists {
			delete(m.items, id)
			removed = true
		}
	}
	if !removed {
		return
	}

	filtered := m.order[:0:0]
	for _, key := range m.order {
		if _, exists := m.items[key]; exists {
			filtered = append(filtered, key)
		}
	}
	m.order = filtered

	m.fireLocked(notify)
}

// Override atomically replaces the entire contents with items, or returns
// *DuplicateOrMissingError and leaves state unchanged if items contains a
// repeated id — matching the transactional contract of Add/Update rather
// than silently letting the last write win. It invokes the change callback
// iff notify is true, even when items is empty (Override(nil, true) clears
// the registry and still fires once).
func (m *LifecycleManager[T]) Override(items []T, notify bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	newItems := make(map[string]T, len(items))
	newOrder := make([]string, 0, len(items))
	var dup []string
	for _, item := range items {
		key := m.idFunc(item)
		if _, exists := newItems[key]; exists {
			dup = append(dup, key)
			continue
		}
		newItems[key] = item
		newOrder = append(newOrder, key)
	}
	if len(dup) > 0 {
		return &DuplicateOrMissingError{Op: "override", Keys: dup}
	}

	m.items = newItems
	m.order = newOrder

	m.fireLocked(notify)
	return nil
}

// Len returns the number of items currently registered.
func (m *LifecycleManager[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// fireLocked invokes the change callback. Callers must hold m.mu.
func (m *LifecycleManager[T]) fireLocked(notify bool) {
	if !notify || m.onChange == nil {
		return
	}
	m.onChange()
}
