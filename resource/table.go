package resource

import (
	"sync"
)

// Table maps handles to values of type T. Freed handles are reused.
// It is safe for concurrent use.
type Table[T any] struct {
	entries   []entry[T]
	freeList  []Handle
	observers []Observer
	mu        sync.RWMutex
	live      int
	closed    bool
}

type entry[T any] struct {
	value T
	valid bool
}

// NewTable creates an empty table.
func NewTable[T any]() *Table[T] {
	return &Table[T]{
		entries:  make([]entry[T], 0, 16),
		freeList: make([]Handle, 0, 4),
	}
}

// Insert stores value and returns its handle. It returns 0 once the table
// is closed.
func (t *Table[T]) Insert(value T) Handle {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return 0
	}

	var handle Handle
	e := entry[T]{value: value, valid: true}
	if n := len(t.freeList); n > 0 {
		handle = t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		t.entries[handle-1] = e
	} else {
		t.entries = append(t.entries, e)
		handle = Handle(len(t.entries))
	}
	t.live++
	t.mu.Unlock()

	t.notify(Event{Handle: handle, Type: EventCreated})
	return handle
}

// Get retrieves the value for handle.
func (t *Table[T]) Get(handle Handle) (T, bool) {
	var zero T
	if handle == 0 {
		return zero, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	idx := int(handle) - 1
	if idx >= len(t.entries) || !t.entries[idx].valid {
		return zero, false
	}
	return t.entries[idx].value, true
}

// Remove deletes handle and returns its value. The value's Drop method is
// called if it implements Dropper.
func (t *Table[T]) Remove(handle Handle) (T, bool) {
	var zero T
	if handle == 0 {
		return zero, false
	}

	t.mu.Lock()
	idx := int(handle) - 1
	if idx >= len(t.entries) || !t.entries[idx].valid {
		t.mu.Unlock()
		return zero, false
	}
	value := t.entries[idx].value
	t.entries[idx] = entry[T]{}
	t.freeList = append(t.freeList, handle)
	t.live--
	t.mu.Unlock()

	drop(value)
	t.notify(Event{Handle: handle, Type: EventDropped})
	return value, true
}

// Len returns the number of live handles.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.live
}

// Each calls fn for every live handle in handle order until fn returns false.
// fn must not modify the table.
func (t *Table[T]) Each(fn func(Handle, T) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for i, e := range t.entries {
		if e.valid && !fn(Handle(i+1), e.value) {
			return
		}
	}
}

// Subscribe adds an observer for lifecycle events.
func (t *Table[T]) Subscribe(o Observer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, o)
}

// Close drops every value and stops accepting inserts.
func (t *Table[T]) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	entries := t.entries
	t.entries = nil
	t.freeList = nil
	t.live = 0
	t.mu.Unlock()

	for i, e := range entries {
		if e.valid {
			drop(e.value)
			t.notify(Event{Handle: Handle(i + 1), Type: EventDropped})
		}
	}
	return nil
}

func (t *Table[T]) notify(e Event) {
	t.mu.RLock()
	observers := t.observers
	t.mu.RUnlock()
	for _, o := range observers {
		o.OnResourceEvent(e)
	}
}

func drop(v any) {
	if d, ok := v.(Dropper); ok {
		d.Drop()
	}
}
