package memory

import (
	"math"
	"unsafe"
)

// Void is the element type of an untyped allocator handle: an
// ArenaAllocator[Void] carries no usable storage operations of its own and is
// rebound to a concrete element type before use.
type Void struct{}

// ArenaAllocator is a value-semantic, element-typed view over an Arena. It
// supplies raw storage for elements of T; constructing objects in that storage
// is the caller's responsibility. The view does not own the arena and must not
// outlive it.
type ArenaAllocator[T any] struct {
	arena *Arena
}

// NewArenaAllocator returns an allocator view for T over a.
func NewArenaAllocator[T any](a *Arena) ArenaAllocator[T] {
	return ArenaAllocator[T]{arena: a}
}

// Allocate returns storage for n elements of T, sized n*sizeof(T) and aligned
// to alignof(T). Returns (nil, nil) when n <= 0 or T is zero-sized.
func (a ArenaAllocator[T]) Allocate(n int) (*T, error) {
	size, err := elemBytes[T](n)
	if err != nil || size == 0 {
		return nil, err
	}
	var zero T
	p, err := a.arena.Allocate(size, unsafe.Alignof(zero))
	if err != nil {
		return nil, err
	}
	return (*T)(p), nil
}

// Deallocate is a deliberate no-op: the arena reclaims memory only in bulk.
// It exists so the view satisfies the TypedAllocator contract that containers
// program against.
func (a ArenaAllocator[T]) Deallocate(p *T, n int) {}

// Arena returns the backing arena.
func (a ArenaAllocator[T]) Arena() *Arena {
	return a.arena
}

// Base returns the backing arena as an untyped Allocator, for rebinding.
func (a ArenaAllocator[T]) Base() Allocator {
	return a.arena
}

// Equal reports whether both views draw from the same arena. Equal views are
// interchangeable.
func (a ArenaAllocator[T]) Equal(b ArenaAllocator[T]) bool {
	return a.arena == b.arena
}

// RebindArena converts an allocator view for T into one for U over the same
// arena.
func RebindArena[U, T any](a ArenaAllocator[T]) ArenaAllocator[U] {
	return ArenaAllocator[U]{arena: a.arena}
}

// elemBytes returns the byte size of n elements of T, guarding against
// overflow.
func elemBytes[T any](n int) (uintptr, error) {
	if n <= 0 {
		return 0, nil
	}
	var zero T
	elemSize := unsafe.Sizeof(zero)
	if elemSize == 0 {
		return 0, nil
	}
	if uintptr(n) > math.MaxInt/elemSize {
		return 0, ErrAllocTooLarge
	}
	return uintptr(n) * elemSize, nil
}
