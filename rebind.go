package memory

import "unsafe"

// backedAllocator is satisfied by every typed allocator view that can expose
// its type-erased backing store. It is what Rebind accepts, so a view built
// for one element type can be rebound to any other.
type backedAllocator interface {
	Base() Allocator
}

// RebindAllocator adapts an arbitrary backing allocator to the element-typed
// allocation contract for T. Go has no type-level rebind, so the element type
// of the original view is erased and only the backing store is carried over.
// The wrapper adds no state or policy of its own.
type RebindAllocator[T any] struct {
	base Allocator
}

// NewRebindAllocator returns an allocator view for T over base.
func NewRebindAllocator[T any](base Allocator) RebindAllocator[T] {
	return RebindAllocator[T]{base: base}
}

// Rebind derives an allocator view for U from any typed allocator view,
// regardless of the element type the source was built for. Both views share
// the same backing store.
func Rebind[U any](src backedAllocator) RebindAllocator[U] {
	return RebindAllocator[U]{base: src.Base()}
}

// Allocate returns storage for n elements of T drawn from the backing
// allocator. Returns (nil, nil) when n <= 0 or T is zero-sized.
func (a RebindAllocator[T]) Allocate(n int) (*T, error) {
	size, err := elemBytes[T](n)
	if err != nil || size == 0 {
		return nil, err
	}
	var zero T
	p, err := a.base.Allocate(size, unsafe.Alignof(zero))
	if err != nil {
		return nil, err
	}
	return (*T)(p), nil
}

// Deallocate hands the storage back to the backing allocator, which decides
// whether anything is reclaimed (an arena ignores it, a pool reuses it).
func (a RebindAllocator[T]) Deallocate(p *T, n int) {
	if p == nil {
		return
	}
	size, err := elemBytes[T](n)
	if err != nil || size == 0 {
		return
	}
	a.base.Deallocate(unsafe.Pointer(p), size)
}

// Base returns the backing allocator.
func (a RebindAllocator[T]) Base() Allocator {
	return a.base
}

// Equal delegates to the backing allocator's own equality: two views compare
// equal iff their backing allocator values do.
func (a RebindAllocator[T]) Equal(b RebindAllocator[T]) bool {
	return a.base == b.base
}
