// Package history implements a linear undo/redo stack of snapshots.
package history

// History is a list of snapshots with a cursor pointing at the current one.
// Committing after an undo discards the entries that could have been redone.
type History[T any] struct {
	entries []T
	cursor  int
	limit   int
	clone   func(T) T
}

// New creates a History whose first entry is initial. clone copies snapshots
// on the way in and out so callers never share memory with the stack; nil
// stores values as given. A positive limit caps the number of entries, dropping
// the oldest.
func New[T any](initial T, clone func(T) T, limit int) *History[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	h := &History[T]{clone: clone, limit: limit}
	h.Reset(initial)
	return h
}

// Reset discards all entries and starts again from initial.
func (h *History[T]) Reset(initial T) {
	h.entries = []T{h.clone(initial)}
	h.cursor = 0
}

// Commit records s as the entry after the cursor.
func (h *History[T]) Commit(s T) {
	h.entries = append(h.entries[:h.cursor+1], h.clone(s))
	h.cursor++
	if h.limit > 0 && len(h.entries) > h.limit {
		drop := len(h.entries) - h.limit
		h.entries = append(h.entries[:0], h.entries[drop:]...)
		h.cursor -= drop
	}
}

// Undo steps back one entry and returns it. It is a no-op at the first entry.
func (h *History[T]) Undo() (T, bool) {
	if h.cursor == 0 {
		var zero T
		return zero, false
	}
	h.cursor--
	return h.clone(h.entries[h.cursor]), true
}

// Redo steps forward one entry and returns it. It is a no-op at the last entry.
func (h *History[T]) Redo() (T, bool) {
	if h.cursor >= len(h.entries)-1 {
		var zero T
		return zero, false
	}
	h.cursor++
	return h.clone(h.entries[h.cursor]), true
}

// Current returns the entry under the cursor.
func (h *History[T]) Current() T { return h.clone(h.entries[h.cursor]) }

func (h *History[T]) CanUndo() bool { return h.cursor > 0 }
func (h *History[T]) CanRedo() bool { return h.cursor < len(h.entries)-1 }

// Len returns the number of stored entries.
func (h *History[T]) Len() int { return len(h.entries) }

// Cursor returns the index of the current entry.
func (h *History[T]) Cursor() int { return h.cursor }
