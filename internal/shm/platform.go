// Package shm contains platform-specific helpers for mapping named shared memory regions.
package shm

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

// MappedRegion represents a memory-mapped shared region.
type MappedRegion struct {
	Addr    []byte
	Path    string
	Created bool
}

// MapOptions defines options for mapping shared memory.
type MapOptions struct {
	Name string
	// Dir holds the backing file; empty means DefaultDir().
	Dir string
	// Size is required when Create is set. When attaching, zero maps the whole file.
	Size   int
	Create bool
}

// DirEnv overrides the directory backing named regions.
const DirEnv = "MEMVECTOR_SHM_DIR"

var (
	ErrRegionExists = errors.New("shm: region already exists")
	ErrNoSpace      = errors.New("shm: not enough space left for region")
	ErrInvalidName  = errors.New("shm: invalid region name")
	ErrInvalidSize  = errors.New("shm: invalid region size")
)

// DefaultDir is /dev/shm on Linux and the temp dir elsewhere, unless MEMVECTOR_SHM_DIR is set.
func DefaultDir() string {
	if dir := os.Getenv(DirEnv); dir != "" {
		return dir
	}
	if runtime.GOOS == "linux" {
		return "/dev/shm"
	}
	return os.TempDir()
}

// RegionPath returns the backing file path of name.
func RegionPath(opts MapOptions) (string, error) {
	if opts.Name == "" || opts.Name != filepath.Base(opts.Name) || opts.Name == "." || opts.Name == ".." {
		return "", ErrInvalidName
	}
	dir := opts.Dir
	if dir == "" {
		dir = DefaultDir()
	}
	return filepath.Join(dir, opts.Name), nil
}

// Function implementations are provided in platform-specific files (platform_unix.go, platform_other.go).
