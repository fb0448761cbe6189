package shm

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/shirou/gopsutil/v3/disk"

	"github.com/srediag/memvector/internal/debug"
)

var internalLogger = debug.New("shm", nil)

// PathExists reports whether path can be stat'ed.
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// CanCreateOnDevShm reports whether /dev/shm has size bytes free. Paths outside
// /dev/shm, and other platforms, always report true.
func CanCreateOnDevShm(size uint64, path string) bool {
	if runtime.GOOS != "linux" {
		return true
	}
	abs, err := filepath.Abs(path)
	if err != nil || !strings.HasPrefix(abs, "/dev/shm/") {
		return true
	}
	stat, err := disk.Usage("/dev/shm")
	if err != nil {
		internalLogger.Warnf("could not read /dev/shm usage: %v", err)
		return true
	}
	return stat.Free >= size
}

// WaitForRegion polls until path exists and holds at least minSize bytes, so an
// attacher does not map a file its creator has not sized yet. A zero timeout means
// a single check.
func WaitForRegion(ctx context.Context, path string, minSize int64, timeout time.Duration) error {
	op := func() error {
		fi, err := os.Stat(path)
		if err != nil {
			return err
		}
		if fi.Size() < minSize {
			return fmt.Errorf("%w: %s has %d bytes, want at least %d", ErrInvalidSize, path, fi.Size(), minSize)
		}
		return nil
	}
	if timeout <= 0 {
		return op()
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 2 * time.Millisecond
	b.MaxInterval = 100 * time.Millisecond
	b.MaxElapsedTime = timeout
	return backoff.Retry(op, backoff.WithContext(b, ctx))
}
