package memory

import (
	"math"
	"unsafe"

	"github.com/valyala/bytebufferpool"
)

// PoolAllocator serves allocations from a bytebufferpool and returns buffers
// to the pool on Deallocate, so hot allocation sizes stop hitting the Go heap
// after warm-up. Like the other allocators it is not goroutine-safe.
type PoolAllocator struct {
	pool bytebufferpool.Pool
	live map[unsafe.Pointer]*bytebufferpool.ByteBuffer
}

// NewPoolAllocator creates a PoolAllocator with its own buffer pool.
func NewPoolAllocator() *PoolAllocator {
	return &PoolAllocator{live: make(map[unsafe.Pointer]*bytebufferpool.ByteBuffer)}
}

// Allocate returns size bytes aligned to align, backed by a pooled buffer.
// The buffer stays checked out until Deallocate is called with the pointer.
func (pa *PoolAllocator) Allocate(size, align uintptr) (unsafe.Pointer, error) {
	if size == 0 {
		return nil, nil
	}
	if align == 0 || align&(align-1) != 0 {
		return nil, ErrAllocTooLarge
	}
	if size > math.MaxInt-align {
		return nil, ErrAllocTooLarge
	}
	need := int(size + align - 1)

	bb := pa.pool.Get()
	if cap(bb.B) < need {
		bb.B = make([]byte, need)
	} else {
		bb.B = bb.B[:need]
		clear(bb.B)
	}

	base := uintptr(unsafe.Pointer(&bb.B[0]))
	off := alignOffset(base, 0, align)
	p := unsafe.Pointer(&bb.B[off])
	pa.live[p] = bb
	return p, nil
}

// Deallocate returns the buffer backing p to the pool. Unknown pointers are
// ignored.
func (pa *PoolAllocator) Deallocate(p unsafe.Pointer, size uintptr) {
	bb, ok := pa.live[p]
	if !ok {
		return
	}
	delete(pa.live, p)
	pa.pool.Put(bb)
}

// Live returns the number of outstanding allocations.
func (pa *PoolAllocator) Live() int {
	return len(pa.live)
}
