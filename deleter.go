package memory

// Deleter releases the resource owned by a handle. Implementations must treat
// a nil pointer as a no-op so that empty handles are always safe to reset.
type Deleter[T any] interface {
	Delete(p *T)
}

// Disposer is the shape of a disposal hook: a type whose Dispose method
// releases a *T. It exists to be the type parameter of StaticDeleter.
type Disposer[T any] interface {
	Dispose(p *T)
}

// StaticDeleter binds disposal to D's Dispose method at compile time. D is
// meant to be a stateless struct type: a fresh zero value of D is used for
// every call, and the deleter itself occupies no storage, so a Unique handle
// parameterized with it is no larger than the raw pointer. This is the
// zero-overhead counterpart of DeleteFunc.
//
// Calling Delete with a nil pointer is a no-op; otherwise Dispose is invoked
// exactly once and the pointer must not be used afterwards.
type StaticDeleter[T any, D Disposer[T]] struct{}

// Delete invokes D's Dispose on p unless p is nil.
func (StaticDeleter[T, D]) Delete(p *T) {
	if p == nil {
		return
	}
	var d D
	d.Dispose(p)
}

// DeleteFunc adapts a plain function to a Deleter. Unlike StaticDeleter the
// function value is stored in the handle, costing one word per handle.
type DeleteFunc[T any] func(*T)

// Delete calls the wrapped function on p unless p is nil.
func (f DeleteFunc[T]) Delete(p *T) {
	if p == nil {
		return
	}
	f(p)
}
