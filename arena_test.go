package memory

import (
	"fmt"
	"testing"

	"github.com/dnsoa/go/assert"
)

func TestNewArena(t *testing.T) {
	tests := []struct {
		name string
		opts []ArenaOption
		min  int
		max  int
	}{
		{"defaults", nil, DefaultMinBlockSize, DefaultMaxBlockSize},
		{"negative min block size", []ArenaOption{WithMinBlockSize(-1)}, DefaultMinBlockSize, DefaultMaxBlockSize},
		{"custom min block size", []ArenaOption{WithMinBlockSize(8192)}, 8192, DefaultMaxBlockSize},
		{"max below min is raised", []ArenaOption{WithMinBlockSize(8192), WithMaxBlockSize(16)}, 8192, 8192},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewArena(tt.opts...)
			if a.minBlockSize != tt.min {
				t.Errorf("minBlockSize = %d, want %d", a.minBlockSize, tt.min)
			}
			if a.maxBlockSize != tt.max {
				t.Errorf("maxBlockSize = %d, want %d", a.maxBlockSize, tt.max)
			}
			// Blocks are created lazily, not at construction.
			if a.NumBlocks() != 0 {
				t.Errorf("NumBlocks = %d, want 0 before first allocation", a.NumBlocks())
			}
		})
	}
}

func TestArenaAllocBytes(t *testing.T) {
	a := NewArena(WithMinBlockSize(1024))

	b1, err := a.AllocBytes(100)
	if err != nil {
		t.Fatalf("AllocBytes(100) error: %v", err)
	}
	if len(b1) != 100 {
		t.Errorf("AllocBytes(100) length = %d, want 100", len(b1))
	}
	if a.NumBlocks() != 1 {
		t.Errorf("NumBlocks after first allocation = %d, want 1", a.NumBlocks())
	}

	b2, err := a.AllocBytes(0)
	if err != nil || b2 != nil {
		t.Errorf("AllocBytes(0) = %v, %v, want nil, nil", b2, err)
	}

	b3, err := a.AllocBytes(-1)
	if err != nil || b3 != nil {
		t.Errorf("AllocBytes(-1) = %v, %v, want nil, nil", b3, err)
	}

	// Larger than the current block: forces growth.
	b4, err := a.AllocBytes(2000)
	if err != nil {
		t.Fatalf("AllocBytes(2000) error: %v", err)
	}
	if len(b4) != 2000 {
		t.Errorf("AllocBytes(2000) length = %d, want 2000", len(b4))
	}
	if a.NumBlocks() != 2 {
		t.Errorf("NumBlocks after large allocation = %d, want 2", a.NumBlocks())
	}
}

func TestArenaAllocateAlignment(t *testing.T) {
	r := assert.New(t)
	a := NewArena(WithMinBlockSize(256))

	type allocation struct {
		addr uintptr
		size uintptr
	}
	var seen []allocation

	// Mixed sizes and alignments, enough to span several blocks. Every
	// returned address must honor its alignment and no two live allocations
	// may overlap.
	sizes := []uintptr{1, 3, 8, 24, 100, 500, 7}
	aligns := []uintptr{1, 2, 4, 8, 16, 64, 128}
	for round := 0; round < 20; round++ {
		for i, size := range sizes {
			p, err := a.Allocate(size, aligns[i%len(aligns)])
			r.NoError(err)
			r.NotNil(p)
			addr := uintptr(p)
			r.Equal(uintptr(0), addr%aligns[i%len(aligns)])
			for _, prev := range seen {
				if addr < prev.addr+prev.size && prev.addr < addr+size {
					t.Fatalf("allocation [%#x,%#x) overlaps [%#x,%#x)",
						addr, addr+size, prev.addr, prev.addr+prev.size)
				}
			}
			seen = append(seen, allocation{addr: addr, size: size})
		}
	}
	r.True(a.NumBlocks() > 1)
}

func TestArenaAllocateErrors(t *testing.T) {
	r := assert.New(t)
	a := NewArena()

	_, err := a.Allocate(8, 3)
	r.ErrorIs(err, ErrAllocTooLarge)

	_, err = a.Allocate(8, 0)
	r.ErrorIs(err, ErrAllocTooLarge)

	_, err = a.Allocate(^uintptr(0)-4, 8)
	r.ErrorIs(err, ErrAllocTooLarge)

	p, err := a.Allocate(0, 8)
	r.NoError(err)
	r.Nil(p)
}

func TestArenaSizeLimit(t *testing.T) {
	r := assert.New(t)
	a := NewArena(WithMinBlockSize(64), WithSizeLimit(128))

	_, err := a.AllocBytes(64)
	r.NoError(err)
	_, err = a.AllocBytes(48)
	r.NoError(err)

	_, err = a.AllocBytes(256)
	r.ErrorIs(err, ErrOutOfMemory)
	r.True(a.Capacity() <= 128)

	// The arena stays usable after a refused allocation.
	_, err = a.AllocBytes(8)
	r.NoError(err)
}

func TestArenaGrowthPolicy(t *testing.T) {
	a := NewArena(WithMinBlockSize(64), WithGrowthFactor(2.0), WithMaxBlockSize(256))

	// Fill block after block; each new block must be at least as large as
	// the previous one, up to the cap.
	prev := 0
	for i := 0; i < 8; i++ {
		if _, err := a.AllocBytes(64); err != nil {
			t.Fatalf("AllocBytes: %v", err)
		}
		n := a.NumBlocks()
		if n > 0 {
			cur := len(a.blocks[n-1].buf)
			if cur < prev && cur != 256 {
				t.Errorf("block %d capacity %d shrank below previous %d", n-1, cur, prev)
			}
			if cur > 256 {
				t.Errorf("block %d capacity %d exceeds cap 256", n-1, cur)
			}
			prev = cur
		}
	}
	if a.NumBlocks() < 2 {
		t.Errorf("expected growth, got %d blocks", a.NumBlocks())
	}
}

func TestArenaEnsureCapacity(t *testing.T) {
	a := NewArena(WithMinBlockSize(1024))
	if err := a.EnsureCapacity(100); err != nil {
		t.Fatalf("EnsureCapacity: %v", err)
	}
	initial := a.NumBlocks()

	if err := a.EnsureCapacity(100); err != nil {
		t.Fatalf("EnsureCapacity: %v", err)
	}
	if a.NumBlocks() != initial {
		t.Errorf("EnsureCapacity(100) changed block count")
	}

	if err := a.EnsureCapacity(2000); err != nil {
		t.Fatalf("EnsureCapacity: %v", err)
	}
	if a.NumBlocks() != initial+1 {
		t.Errorf("EnsureCapacity(2000) blocks = %d, want %d", a.NumBlocks(), initial+1)
	}
}

func TestArenaReset(t *testing.T) {
	a := NewArena(WithMinBlockSize(1024))

	a.AllocBytes(100)
	a.AllocBytes(200)

	if a.SizeInUse() == 0 {
		t.Error("expected non-zero size in use after allocations")
	}

	a.Reset()
	if a.SizeInUse() != 0 {
		t.Errorf("SizeInUse after Reset() = %d, want 0", a.SizeInUse())
	}
	if a.NumBlocks() == 0 {
		t.Error("expected blocks to remain after Reset()")
	}
}

func TestArenaRelease(t *testing.T) {
	a := NewArena()
	a.AllocBytes(100)

	a.Release()
	if a.NumBlocks() != 0 || a.Capacity() != 0 {
		t.Error("expected no blocks after Release()")
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on use after Release()")
		}
	}()
	a.AllocBytes(100)
}

func TestAlignOffset(t *testing.T) {
	tests := []struct {
		base, off, align uintptr
		expected         uintptr
	}{
		{0, 0, 8, 0},
		{0, 1, 8, 8},
		{0, 8, 8, 8},
		{4, 0, 8, 4},
		{4, 5, 8, 12},
		{16, 3, 16, 16},
	}

	for _, tt := range tests {
		result := alignOffset(tt.base, tt.off, tt.align)
		if result != tt.expected {
			t.Errorf("alignOffset(%d, %d, %d) = %d, want %d",
				tt.base, tt.off, tt.align, result, tt.expected)
		}
		if (tt.base+result)%tt.align != 0 {
			t.Errorf("alignOffset(%d, %d, %d): base+offset not aligned",
				tt.base, tt.off, tt.align)
		}
	}
}

func BenchmarkArenaAllocBytes(b *testing.B) {
	a := NewArena(WithMinBlockSize(1024 * 1024))
	sizes := []int{8, 64, 256, 1024}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("size-%d", size), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				a.AllocBytes(size)
				if i%1000 == 999 { // keep the arena from growing unboundedly
					a.Reset()
				}
			}
		})
	}
}

func BenchmarkArenaVsBuiltin(b *testing.B) {
	b.Run("arena", func(b *testing.B) {
		a := NewArena(WithMinBlockSize(1024 * 1024))
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			a.AllocBytes(64)
			if i%1000 == 999 {
				a.Reset()
			}
		}
	})

	b.Run("builtin", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_ = make([]byte, 64)
		}
	})
}
