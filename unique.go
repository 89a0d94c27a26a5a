package memory

// Unique is an exclusive-ownership handle: at most one Unique owns a given
// resource at a time, and Reset disposes of it through the handle's deleter.
// Handles are moved by pointer; copying a non-empty Unique by value and
// resetting both copies double-disposes the resource.
type Unique[T any, D Deleter[T]] struct {
	// The deleter precedes the pointer so a zero-size deleter adds no
	// footprint to the handle.
	del D
	ptr *T
}

// NewUnique returns a handle owning p, disposed of by d.
func NewUnique[T any, D Deleter[T]](p *T, d D) Unique[T, D] {
	return Unique[T, D]{del: d, ptr: p}
}

// Get returns the owned pointer without transferring ownership, or nil if the
// handle is empty.
func (u *Unique[T, D]) Get() *T {
	return u.ptr
}

// Release relinquishes ownership and returns the pointer; the deleter is not
// invoked and the handle is left empty.
func (u *Unique[T, D]) Release() *T {
	p := u.ptr
	u.ptr = nil
	return p
}

// Reset disposes of the owned resource, if any, and empties the handle. The
// handle is emptied before the deleter runs, so a reentrant Reset from inside
// the deleter is a no-op. Resetting an empty handle is always safe.
func (u *Unique[T, D]) Reset() {
	p := u.ptr
	u.ptr = nil
	u.del.Delete(p)
}

// AllocateUnique constructs a value in storage drawn from alloc and returns a
// handle whose deleter zeroes the value and returns the storage to alloc.
func AllocateUnique[T any](alloc TypedAllocator[T], v T) (Unique[T, DeleteFunc[T]], error) {
	p, err := alloc.Allocate(1)
	if err != nil {
		return Unique[T, DeleteFunc[T]]{}, err
	}
	if p == nil {
		// Zero-sized T: nothing to store, stay on the Go heap.
		p = new(T)
	}
	*p = v
	return NewUnique(p, deallocDeleter(alloc)), nil
}

// deallocDeleter builds the deleter used by AllocateUnique and AllocateShared:
// clear the value, then hand its storage back to the allocator.
func deallocDeleter[T any](alloc TypedAllocator[T]) DeleteFunc[T] {
	return func(p *T) {
		var zero T
		*p = zero
		alloc.Deallocate(p, 1)
	}
}
