package memory

import (
	"errors"
	"math"
	"unsafe"
)

var (
	// ErrAllocTooLarge reports a request that no block can satisfy: arithmetic
	// overflow while sizing it, or an alignment that is not a power of two.
	ErrAllocTooLarge = errors.New("memory: allocation too large")

	// ErrOutOfMemory reports that the backing store refused to reserve more
	// memory, e.g. an arena size limit was reached.
	ErrOutOfMemory = errors.New("memory: out of memory")
)

// Allocator is the untyped backing-store contract shared by the arena and the
// standalone allocators. Allocate returns size bytes aligned to align (a power
// of two). Deallocate returns a previous allocation of the given size; whether
// it actually reclaims anything is up to the implementation (the arena's is a
// no-op). Implementations are not goroutine-safe unless stated otherwise.
type Allocator interface {
	Allocate(size, align uintptr) (unsafe.Pointer, error)
	Deallocate(p unsafe.Pointer, size uintptr)
}

var (
	_ Allocator = (*Arena)(nil)
	_ Allocator = (*HeapAllocator)(nil)
	_ Allocator = (*PoolAllocator)(nil)
)

// TypedAllocator is the element-typed allocation contract consumed by generic
// containers: raw storage for n elements of T, construction is the caller's
// responsibility. ArenaAllocator and RebindAllocator both satisfy it.
type TypedAllocator[T any] interface {
	Allocate(n int) (*T, error)
	Deallocate(p *T, n int)
}

// HeapAllocator serves allocations from the Go heap and keeps them reachable
// until Deallocate drops the reference. It is the plain, non-pooling base for
// RebindAllocator when no arena is involved.
type HeapAllocator struct {
	live map[unsafe.Pointer][]byte
}

// NewHeapAllocator creates an empty HeapAllocator.
func NewHeapAllocator() *HeapAllocator {
	return &HeapAllocator{live: make(map[unsafe.Pointer][]byte)}
}

// Allocate returns size bytes aligned to align. The memory is pinned until
// Deallocate is called with the returned pointer.
func (h *HeapAllocator) Allocate(size, align uintptr) (unsafe.Pointer, error) {
	buf, p, err := alignedBuf(size, align)
	if err != nil || p == nil {
		return nil, err
	}
	h.live[p] = buf
	return p, nil
}

// Deallocate unpins the allocation at p, returning it to the garbage
// collector. Unknown pointers are ignored.
func (h *HeapAllocator) Deallocate(p unsafe.Pointer, size uintptr) {
	delete(h.live, p)
}

// Live returns the number of outstanding allocations.
func (h *HeapAllocator) Live() int {
	return len(h.live)
}

// alignedBuf makes a buffer with enough slack to align its start and returns
// the buffer plus the aligned interior pointer.
func alignedBuf(size, align uintptr) ([]byte, unsafe.Pointer, error) {
	if size == 0 {
		return nil, nil, nil
	}
	if align == 0 || align&(align-1) != 0 {
		return nil, nil, ErrAllocTooLarge
	}
	if size > math.MaxInt-align {
		return nil, nil, ErrAllocTooLarge
	}
	buf := make([]byte, size+align-1)
	base := uintptr(unsafe.Pointer(&buf[0]))
	off := alignOffset(base, 0, align)
	return buf, unsafe.Pointer(&buf[off]), nil
}
