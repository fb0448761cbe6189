package shm

import (
	"errors"
	"fmt"
	"sync"

	"github.com/srediag/memvector/pkg/memvector"
)

// arenaAlign keeps every sub-region on a word boundary so headers and records overlay cleanly.
const arenaAlign = 8

var ErrArenaFull = errors.New("shm: no space left in arena")

// Arena carves consecutive sub-regions out of one memory block. Allocation is a bump
// of an offset, so two processes performing the same sequence of Alloc calls over the
// same segment agree on every offset.
type Arena struct {
	mu     sync.Mutex
	mem    []byte
	offset int
}

// NewArena creates an Arena over mem.
func NewArena(mem []byte) *Arena {
	return &Arena{mem: mem}
}

// Alloc returns the next size bytes, starting on a word boundary.
func (a *Arena) Alloc(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size %d", ErrArenaFull, size)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	start := (a.offset + arenaAlign - 1) &^ (arenaAlign - 1)
	if start+size > len(a.mem) {
		return nil, fmt.Errorf("%w: want %d bytes at offset %d, arena holds %d", ErrArenaFull, size, start, len(a.mem))
	}
	a.offset = start + size
	return a.mem[start : start+size : start+size], nil
}

// Offset returns the end of the last allocation.
func (a *Arena) Offset() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.offset
}

// Remain returns the bytes not yet allocated.
func (a *Arena) Remain() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.mem) - a.offset
}

// AllocVector allocates room for count records of T and creates a vector there, or,
// with create unset, attaches to the vector another process created at the same offset.
func AllocVector[T any](a *Arena, count int, create bool) (*memvector.Vector[T], error) {
	region, err := a.Alloc(memvector.RequiredSize[T](count))
	if err != nil {
		return nil, err
	}
	if create {
		return memvector.Create[T](region)
	}
	return memvector.Attach[T](region)
}
