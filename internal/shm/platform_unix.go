//go:build unix

package shm

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// MapRegion maps or creates a shared memory region backed by a file.
func MapRegion(ctx context.Context, opts MapOptions) (*MappedRegion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := RegionPath(opts)
	if err != nil {
		return nil, err
	}
	if opts.Create {
		return createRegion(path, opts.Size)
	}
	return attachRegion(path, opts.Size)
}

func createRegion(path string, size int) (*MappedRegion, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if PathExists(path) {
		return nil, fmt.Errorf("%w: %s", ErrRegionExists, path)
	}
	if !CanCreateOnDevShm(uint64(size), path) {
		return nil, fmt.Errorf("%w: path %s, size %d", ErrNoSpace, path, size)
	}
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CREAT|unix.O_EXCL, 0600)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer closeFd(fd)
	cleanup := func() {
		if err := os.Remove(path); err != nil {
			internalLogger.Warnf("remove %s after failed create: %v", path, err)
		}
	}
	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		cleanup()
		return nil, fmt.Errorf("ftruncate: %w", err)
	}
	addr, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("mmap: %w", err)
	}
	internalLogger.Infof("created region %s, size %d", path, size)
	return &MappedRegion{Addr: addr, Path: path, Created: true}, nil
}

func attachRegion(path string, size int) (*MappedRegion, error) {
	fd, err := unix.Open(path, unix.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer closeFd(fd)
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return nil, fmt.Errorf("fstat: %w", err)
	}
	if size <= 0 {
		size = int(st.Size)
	}
	if size <= 0 || int64(size) > st.Size {
		return nil, fmt.Errorf("%w: want %d bytes, %s has %d", ErrInvalidSize, size, path, st.Size)
	}
	addr, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap: %w", err)
	}
	internalLogger.Infof("attached region %s, size %d", path, size)
	return &MappedRegion{Addr: addr, Path: path}, nil
}

// UnmapRegion unmaps the shared memory region. The backing file is kept.
func UnmapRegion(ctx context.Context, region *MappedRegion) error {
	if region == nil || region.Addr == nil {
		return nil
	}
	if err := unix.Munmap(region.Addr); err != nil {
		return fmt.Errorf("munmap: %w", err)
	}
	region.Addr = nil
	return nil
}

func closeFd(fd int) {
	if err := unix.Close(fd); err != nil {
		internalLogger.Warnf("close fd %d: %v", fd, err)
	}
}
