package memory

import (
	"math"
	"runtime"
	"unsafe"
)

// Alloc returns a pointer to a zeroed T stored inside the arena.
// The returned pointer is valid until the arena is reset or released.
func Alloc[T any](a *Arena) (*T, error) {
	p, err := AllocUninitialized[T](a)
	if err != nil {
		return nil, err
	}
	var zero T
	*p = zero
	return p, nil
}

// AllocUninitialized returns a *T located in the arena without zeroing memory.
// This is faster than Alloc but after a Reset the contents are whatever the
// previous use left behind. Ensure proper initialization before use.
func AllocUninitialized[T any](a *Arena) (*T, error) {
	var zero T
	size := unsafe.Sizeof(zero)
	if size == 0 {
		// Zero-size types take no arena space.
		return new(T), nil
	}
	p, err := a.Allocate(size, unsafe.Alignof(zero))
	if err != nil {
		return nil, err
	}
	return (*T)(p), nil
}

// AllocSlice allocates a slice of n elements of type T inside the arena.
// The elements are not initialized. Returns (nil, nil) if n <= 0.
func AllocSlice[T any](a *Arena, n int) ([]T, error) {
	if n <= 0 {
		return nil, nil
	}
	var zero T
	elemSize := unsafe.Sizeof(zero)
	if elemSize == 0 {
		return make([]T, n), nil
	}
	if uintptr(n) > math.MaxInt/elemSize {
		return nil, ErrAllocTooLarge
	}
	p, err := a.Allocate(uintptr(n)*elemSize, unsafe.Alignof(zero))
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*T)(p), n), nil
}

// AllocSliceZeroed allocates a slice of n elements of type T with zeroed
// memory. This is slower than AllocSlice but ensures clean initialization.
func AllocSliceZeroed[T any](a *Arena, n int) ([]T, error) {
	s, err := AllocSlice[T](a, n)
	if err != nil {
		return nil, err
	}
	clear(s)
	return s, nil
}

// PtrAndKeepAlive returns t and calls runtime.KeepAlive on the arena.
// This is useful to prevent the arena from being garbage collected
// while the pointer is still in use in unsafe code.
func PtrAndKeepAlive[T any](a *Arena, t *T) *T {
	runtime.KeepAlive(a)
	return t
}
