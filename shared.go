package memory

// control is the bookkeeping block shared by all copies of a Shared handle.
// The deleter is stored type-erased so handles with different deleter types
// converge on one Shared[T].
type control[T any] struct {
	ptr  *T
	refs int
	del  func(*T)
}

// Shared is a reference-counted ownership handle. Go cannot hook value copies,
// so references are counted explicitly: Retain adds one, Release drops one,
// and the deleter runs exactly once when the last reference is released.
// The count is not atomic; like the allocators, Shared is single-threaded.
type Shared[T any] struct {
	ctl *control[T]
}

// ToShared converts an exclusive handle into a shared one, transferring the
// pointer and the deleter into the new handle's control block and leaving u
// empty. The eventual disposal is indistinguishable from resetting u directly.
// Converting an empty handle yields an empty Shared and the deleter is never
// invoked.
func ToShared[T any, D Deleter[T]](u *Unique[T, D]) Shared[T] {
	p := u.Release()
	if p == nil {
		return Shared[T]{}
	}
	d := u.del
	var zero D
	u.del = zero
	return Shared[T]{ctl: &control[T]{ptr: p, refs: 1, del: d.Delete}}
}

// AllocateShared constructs a value in storage drawn from alloc and returns a
// shared handle whose deleter zeroes the value and returns the storage to
// alloc when the last reference is released.
func AllocateShared[T any](alloc TypedAllocator[T], v T) (Shared[T], error) {
	u, err := AllocateUnique(alloc, v)
	if err != nil {
		return Shared[T]{}, err
	}
	return ToShared(&u), nil
}

// Get returns the managed pointer, or nil if the handle is empty.
func (s Shared[T]) Get() *T {
	if s.ctl == nil {
		return nil
	}
	return s.ctl.ptr
}

// Retain adds a reference and returns a handle sharing the same control
// block. Every retained handle must be paired with exactly one Release.
func (s Shared[T]) Retain() Shared[T] {
	if s.ctl != nil {
		s.ctl.refs++
	}
	return s
}

// Release drops this handle's reference and empties it. When the last
// reference is dropped the deleter runs exactly once on the managed pointer.
// Releasing an empty handle is a no-op.
func (s *Shared[T]) Release() {
	ctl := s.ctl
	s.ctl = nil
	if ctl == nil {
		return
	}
	ctl.refs--
	if ctl.refs > 0 {
		return
	}
	p := ctl.ptr
	ctl.ptr = nil
	if p != nil && ctl.del != nil {
		ctl.del(p)
	}
}

// Refs returns the current reference count, 0 for an empty handle.
func (s Shared[T]) Refs() int {
	if s.ctl == nil {
		return 0
	}
	return s.ctl.refs
}
