// Package memory implements a chunked bump allocator (memory arena), typed
// allocator views over arbitrary backing stores, and exclusive/shared
// ownership handles with pluggable deleters.
//
// # Overview
//
// An arena allocator acquires memory in large blocks and hands out portions
// of those blocks on demand. Individual allocations are never reclaimed; the
// whole arena is reset or released at once. This is particularly useful for:
//
//   - Request-scoped allocations in servers
//   - Temporary object graphs with batch cleanup
//   - Reducing garbage collection pressure
//
// # Basic Usage
//
//	a := memory.NewArena()
//	defer a.Release()
//
//	buf, err := a.AllocBytes(1024)
//	p, err := memory.Alloc[MyStruct](a)
//	s, err := memory.AllocSlice[int](a, 100)
//
//	a.Reset() // O(1) cleanup, arena stays usable
//
// Block sizing is configurable: the first block defaults to 4 KiB and each
// subsequent block grows geometrically (factor 2.0 by default, capped at
// 1 MiB). See WithMinBlockSize, WithGrowthFactor, WithMaxBlockSize and
// WithSizeLimit.
//
// # Allocator Views
//
// ArenaAllocator[T] is a cheap, equality-comparable view that lets generic
// code draw element-typed storage from an arena; its Deallocate is a
// documented no-op. RebindAllocator[T] adapts any Allocator (arena, heap,
// pool) to a different element type, and Rebind derives a view for a new
// element type from an existing one:
//
//	valloc := memory.NewArenaAllocator[memory.Void](a)
//	ialloc := memory.Rebind[int](valloc)
//	p, err := ialloc.Allocate(1)
//
// # Ownership Handles
//
// Unique[T, D] holds exactly one owner; Shared[T] counts references
// explicitly via Retain/Release. ToShared transfers a Unique's pointer and
// deleter into a Shared in one step, leaving the source empty. StaticDeleter
// binds a disposal hook at compile time with zero per-handle storage.
//
// # Caveats
//
//   - Nothing in this package is goroutine-safe; callers serialize access.
//   - Arena and view lifetimes are a documented contract: a view or pointer
//     must not outlive the arena it draws from.
//   - Arena blocks are plain byte buffers, so the garbage collector does not
//     trace Go pointers stored in arena-allocated values. Keep such referents
//     reachable from ordinary Go memory.
package memory
