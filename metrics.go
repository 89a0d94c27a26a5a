package memory

// SizeInUse returns the total number of bytes currently allocated in the
// arena. This includes internal fragmentation due to alignment.
func (a *Arena) SizeInUse() int {
	sum := 0
	for i := range a.blocks {
		sum += int(a.blocks[i].off)
	}
	return sum
}

// NumBlocks returns the number of blocks currently held by the arena.
func (a *Arena) NumBlocks() int {
	return len(a.blocks)
}

// Capacity returns the total capacity (in bytes) of all blocks in the arena.
func (a *Arena) Capacity() int {
	return a.capacity
}

// Utilization returns the ratio of bytes in use to total capacity (0.0 to 1.0).
// Returns 0.0 if the arena has no capacity.
func (a *Arena) Utilization() float64 {
	if a.capacity == 0 {
		return 0
	}
	return float64(a.SizeInUse()) / float64(a.capacity)
}

// MinBlockSize returns the configured capacity of the arena's first block.
func (a *Arena) MinBlockSize() int {
	return a.minBlockSize
}

// Metrics returns a snapshot of arena statistics.
func (a *Arena) Metrics() ArenaMetrics {
	return ArenaMetrics{
		SizeInUse:    a.SizeInUse(),
		Capacity:     a.Capacity(),
		NumBlocks:    a.NumBlocks(),
		MinBlockSize: a.MinBlockSize(),
		Utilization:  a.Utilization(),
	}
}

// ArenaMetrics contains statistical information about an arena.
type ArenaMetrics struct {
	SizeInUse    int     // Bytes currently allocated
	Capacity     int     // Total capacity in bytes
	NumBlocks    int     // Number of blocks
	MinBlockSize int     // Configured first-block capacity
	Utilization  float64 // Ratio of used to total capacity (0.0-1.0)
}
