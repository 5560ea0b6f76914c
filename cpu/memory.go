package cpu

import (
	"slices"
)

const (
	MEMORY_LIMIT = 1 << 30 // Maximum number of memory cells.
)

// MemoryCapacity returns the number of cells to reserve for an image of
// the given length: the length times scale, capped at MEMORY_LIMIT. The
// result is never smaller than length.
func MemoryCapacity(length int, scale int) (capacity int) {
	if scale < 1 {
		scale = 1
	}

	// Guard the multiply against overflow.
	if length > 0 && scale > (MEMORY_LIMIT/length) {
		capacity = MEMORY_LIMIT
	} else {
		capacity = min(length*scale, MEMORY_LIMIT)
	}

	capacity = max(capacity, length)

	return
}

// Memory is a flat store of signed integers with a fixed capacity.
type Memory struct {
	Data []int64 // All cells, len(Data) is the capacity.

	used int // One past the highest cell of the image or written since.
}

// NewMemory creates a memory holding a copy of image, with room for
// capacity cells.
func NewMemory(image []int64, capacity int) (mem *Memory) {
	capacity = max(capacity, len(image))

	mem = &Memory{
		Data: make([]int64, capacity),
		used: len(image),
	}
	copy(mem.Data, image)

	return
}

// Capacity returns the number of addressable cells.
func (mem *Memory) Capacity() int {
	return len(mem.Data)
}

// Read the cell at addr.
func (mem *Memory) Read(addr int64) (value int64, err error) {
	if addr < 0 || addr >= int64(len(mem.Data)) {
		err = ErrAddress{Addr: addr, Capacity: len(mem.Data)}
		return
	}

	value = mem.Data[addr]
	return
}

// Write the cell at addr.
func (mem *Memory) Write(addr int64, value int64) (err error) {
	if addr < 0 || addr >= int64(len(mem.Data)) {
		err = ErrAddress{Addr: addr, Capacity: len(mem.Data)}
		return
	}

	mem.Data[addr] = value
	mem.used = max(mem.used, int(addr)+1)
	return
}

// Image returns a copy of memory, from cell 0 up to the last cell that was
// part of the initial image or has been written since.
func (mem *Memory) Image() []int64 {
	return slices.Clone(mem.Data[:mem.used])
}
