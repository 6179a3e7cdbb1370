package sim

// HookPosBufPush marks when an element is pushed into the buffer.
var HookPosBufPush = &HookPos{Name: "Buffer Push"}

// HookPosBufPop marks when an element is popped from the buffer.
var HookPosBufPop = &HookPos{Name: "Buffer Pop"}

// A Buffer is a bounded fifo queue.
type Buffer[T any] struct {
	HookableBase

	name     string
	capacity int
	elements []T
}

// NewBuffer creates a buffer that holds at most capacity elements.
func NewBuffer[T any](name string, capacity int) *Buffer[T] {
	if capacity < 1 {
		panic("buffer capacity must be at least 1")
	}

	return &Buffer[T]{
		name:     name,
		capacity: capacity,
	}
}

// Name returns the name of the buffer.
func (b *Buffer[T]) Name() string {
	return b.name
}

// CanPush tells if the buffer has a free slot.
func (b *Buffer[T]) CanPush() bool {
	return len(b.elements) < b.capacity
}

// Push appends e to the tail of the buffer. It returns false, leaving the
// buffer unchanged, when the buffer is full.
func (b *Buffer[T]) Push(e T) bool {
	if !b.CanPush() {
		return false
	}

	b.elements = append(b.elements, e)

	if b.NumHooks() > 0 {
		b.InvokeHook(HookCtx{
			Domain: b,
			Pos:    HookPosBufPush,
			Item:   e,
		})
	}

	return true
}

// Pop removes the head of the buffer. The second return value is false when
// the buffer is empty.
func (b *Buffer[T]) Pop() (T, bool) {
	var zero T

	if len(b.elements) == 0 {
		return zero, false
	}

	e := b.elements[0]
	b.elements[0] = zero
	b.elements = b.elements[1:]

	if b.NumHooks() > 0 {
		b.InvokeHook(HookCtx{
			Domain: b,
			Pos:    HookPosBufPop,
			Item:   e,
		})
	}

	return e, true
}

// Peek returns the head of the buffer without removing it.
func (b *Buffer[T]) Peek() (T, bool) {
	var zero T

	if len(b.elements) == 0 {
		return zero, false
	}

	return b.elements[0], true
}

// Elements returns a copy of the buffered elements, head first.
func (b *Buffer[T]) Elements() []T {
	out := make([]T, len(b.elements))
	copy(out, b.elements)

	return out
}

// Capacity returns the maximum number of elements.
func (b *Buffer[T]) Capacity() int {
	return b.capacity
}

// Size returns the current number of elements.
func (b *Buffer[T]) Size() int {
	return len(b.elements)
}

// Clear removes all elements in the buffer.
func (b *Buffer[T]) Clear() {
	b.elements = nil
}
