package shm

import (
	"context"
	"sync"

	cmap "github.com/orcaman/concurrent-map/v2"

	internalshm "github.com/srediag/memvector/internal/shm"
)

// Registry shares mapped segments within a process: acquiring a name that is already
// mapped returns the same Segment and bumps its reference count.
type Registry struct {
	entries cmap.ConcurrentMap[string, *registryEntry]
}

type registryEntry struct {
	mu   sync.Mutex
	seg  *Segment
	refs int
}

func (e *registryEntry) retain() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.refs == 0 {
		return false
	}
	e.refs++
	return true
}

func (e *registryEntry) release() (last bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.refs--
	return e.refs == 0
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: cmap.New[*registryEntry]()}
}

// Acquire returns the segment mapped for opts, opening it on first use.
func (r *Registry) Acquire(ctx context.Context, opts OpenOptions) (*Segment, error) {
	key, err := internalshm.RegionPath(internalshm.MapOptions{Name: opts.Name, Dir: opts.Dir})
	if err != nil {
		return nil, err
	}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e, ok := r.entries.Get(key); ok {
			if e.retain() {
				return e.seg, nil
			}
			// released concurrently; drop the stale entry and map again
			r.entries.RemoveCb(key, func(_ string, v *registryEntry, exists bool) bool {
				return exists && v == e
			})
			continue
		}
		seg, err := Open(ctx, opts)
		if err != nil {
			return nil, err
		}
		if r.entries.SetIfAbsent(key, &registryEntry{seg: seg, refs: 1}) {
			return seg, nil
		}
		internalLogger.Debugf("registry lost race for %s, reusing existing mapping", key)
		if err := seg.Close(); err != nil {
			internalLogger.Warnf("registry close duplicate mapping %s: %v", key, err)
		}
	}
}

// Release drops one reference to seg and closes it when none remain.
func (r *Registry) Release(seg *Segment) error {
	key := seg.Path()
	e, ok := r.entries.Get(key)
	if !ok || e.seg != seg {
		return ErrClosed
	}
	if !e.release() {
		return nil
	}
	r.entries.RemoveCb(key, func(_ string, v *registryEntry, exists bool) bool {
		return exists && v == e
	})
	return seg.Close()
}

// Len returns the number of mapped segments.
func (r *Registry) Len() int {
	return r.entries.Count()
}
