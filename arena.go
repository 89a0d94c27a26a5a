// Package memory implements a chunked bump allocator (memory arena) together
// with the allocator views and ownership handles built on top of it.
// Typical usage: create one arena per request or parse, allocate many
// temporary objects from it, then Reset() at the end for O(1) cleanup.
package memory

import (
	"math"
	"unsafe"
)

const (
	// DefaultMinBlockSize is the size of the first block an arena allocates (4 KiB).
	DefaultMinBlockSize = 4096

	// DefaultMaxBlockSize caps the block-growth policy (1 MiB). A single
	// request larger than the cap still gets a dedicated block of its own.
	DefaultMaxBlockSize = 1 << 20

	// DefaultGrowthFactor is the default block capacity multiplier.
	DefaultGrowthFactor = 2.0
)

// block represents a single memory block within an arena.
type block struct {
	buf []byte  // backing memory
	off uintptr // allocation offset within buf
}

// Arena is a chunked bump allocator. Allocations stay valid until Reset or
// Release; there is no per-object reclamation, Deallocate is a no-op.
// Not goroutine-safe: callers must serialize access themselves.
type Arena struct {
	blocks  []block
	current *block

	minBlockSize int
	maxBlockSize int
	growthFactor float64
	sizeLimit    int // total capacity budget, 0 = unlimited

	nextBlockSize int
	capacity      int // bytes reserved across all blocks
	released      bool
}

// ArenaOption configures an Arena.
type ArenaOption func(*Arena)

// WithMinBlockSize sets the capacity of the first block. Values <= 0 keep
// DefaultMinBlockSize.
func WithMinBlockSize(n int) ArenaOption {
	return func(a *Arena) { a.minBlockSize = n }
}

// WithMaxBlockSize caps the capacity the growth policy will request for a new
// block. Oversized single allocations are still served by a dedicated block.
func WithMaxBlockSize(n int) ArenaOption {
	return func(a *Arena) { a.maxBlockSize = n }
}

// WithGrowthFactor sets the multiplier applied to the previous block's
// capacity when sizing the next one. Values below 1.0 are clamped to 1.0.
func WithGrowthFactor(f float64) ArenaOption {
	return func(a *Arena) { a.growthFactor = f }
}

// WithSizeLimit bounds the total capacity the arena may reserve. Allocations
// that would exceed the limit fail with ErrOutOfMemory. 0 means unlimited.
func WithSizeLimit(n int) ArenaOption {
	return func(a *Arena) { a.sizeLimit = n }
}

// NewArena creates a new Arena. No memory is reserved until the first
// allocation; blocks are created lazily on demand.
func NewArena(opts ...ArenaOption) *Arena {
	a := &Arena{
		minBlockSize: DefaultMinBlockSize,
		maxBlockSize: DefaultMaxBlockSize,
		growthFactor: DefaultGrowthFactor,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.minBlockSize <= 0 {
		a.minBlockSize = DefaultMinBlockSize
	}
	if a.maxBlockSize < a.minBlockSize {
		a.maxBlockSize = a.minBlockSize
	}
	if a.growthFactor < 1 {
		a.growthFactor = 1
	}
	a.nextBlockSize = a.minBlockSize
	return a
}

// Allocate returns a pointer to size bytes aligned to align. align must be a
// power of two. The memory stays valid until Reset or Release; the caller must
// ensure the arena remains reachable while the pointer is in use.
// Allocate(0, align) returns (nil, nil).
func (a *Arena) Allocate(size, align uintptr) (unsafe.Pointer, error) {
	a.panicIfReleased()
	if size == 0 {
		return nil, nil
	}
	if align == 0 || align&(align-1) != 0 {
		return nil, ErrAllocTooLarge
	}
	if size > math.MaxInt-align {
		return nil, ErrAllocTooLarge
	}

	// Fast path: bump within the cached current block.
	if c := a.current; c != nil {
		base := uintptr(unsafe.Pointer(&c.buf[0]))
		off := alignOffset(base, c.off, align)
		if off+size <= uintptr(len(c.buf)) {
			c.off = off + size
			return unsafe.Pointer(&c.buf[off]), nil
		}
	}
	return a.allocateSlow(size, align)
}

// allocateSlow handles allocation when the fast path fails.
func (a *Arena) allocateSlow(size, align uintptr) (unsafe.Pointer, error) {
	// Worst-case padding: a fresh block's base address may not satisfy align.
	need := size + align - 1
	if err := a.grow(int(need)); err != nil {
		return nil, err
	}

	c := a.current
	base := uintptr(unsafe.Pointer(&c.buf[0]))
	off := alignOffset(base, c.off, align)
	c.off = off + size
	return unsafe.Pointer(&c.buf[off]), nil
}

// Deallocate is a no-op: arena memory is reclaimed only in bulk, by Reset or
// Release. The method exists to satisfy the Allocator contract.
func (a *Arena) Deallocate(p unsafe.Pointer, size uintptr) {}

// AllocBytes returns a []byte slice pointing into the arena's backing block,
// aligned for any Go scalar type. Returns (nil, nil) if n <= 0.
func (a *Arena) AllocBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	p, err := a.Allocate(uintptr(n), unsafe.Sizeof(uintptr(0)))
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(p), n), nil
}

// EnsureCapacity ensures the current block has at least n free bytes,
// growing the arena with a new block if necessary.
func (a *Arena) EnsureCapacity(n int) error {
	a.panicIfReleased()
	if n <= 0 {
		return nil
	}
	c := a.current
	if c == nil {
		return a.grow(n)
	}
	base := uintptr(unsafe.Pointer(&c.buf[0]))
	off := alignOffset(base, c.off, unsafe.Sizeof(uintptr(0)))
	if off+uintptr(n) > uintptr(len(c.buf)) {
		return a.grow(n)
	}
	return nil
}

// Reset resets allocation offsets to zero but keeps allocated blocks for
// reuse. This provides O(1) cleanup for arena reuse. Pointers handed out
// before the call become invalid.
func (a *Arena) Reset() {
	a.panicIfReleased()
	for i := range a.blocks {
		a.blocks[i].off = 0
	}
	if len(a.blocks) > 0 {
		a.current = &a.blocks[0]
	}
}

// Release drops all blocks and makes the arena unusable.
// Any subsequent operation will panic.
func (a *Arena) Release() {
	a.blocks = nil
	a.current = nil
	a.capacity = 0
	a.released = true
}

// grow appends a new block of at least need bytes and makes it current.
func (a *Arena) grow(need int) error {
	size := a.nextBlockSize
	if size > a.maxBlockSize {
		size = a.maxBlockSize
	}
	if need > size {
		size = need
	}
	if a.sizeLimit > 0 {
		if a.capacity+need > a.sizeLimit {
			return ErrOutOfMemory
		}
		if a.capacity+size > a.sizeLimit {
			size = a.sizeLimit - a.capacity
		}
	}

	buf := make([]byte, size)
	a.blocks = append(a.blocks, block{buf: buf})
	a.current = &a.blocks[len(a.blocks)-1]
	a.capacity += size

	// Each new block is at least as large as the previous, up to the cap.
	next := int(float64(size) * a.growthFactor)
	if next > a.maxBlockSize {
		next = a.maxBlockSize
	}
	if next < a.nextBlockSize {
		next = a.nextBlockSize
	}
	a.nextBlockSize = next
	return nil
}

// panicIfReleased panics if the arena has been released.
func (a *Arena) panicIfReleased() {
	if a.released {
		panic("memory: arena used after Release()")
	}
}

// alignOffset returns the smallest offset >= off such that base+offset is
// aligned to align. align must be a power of two.
func alignOffset(base, off, align uintptr) uintptr {
	mask := align - 1
	return ((base + off + mask) &^ mask) - base
}
