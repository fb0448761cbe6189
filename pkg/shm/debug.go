package shm

import (
	"fmt"
	"os"

	"github.com/srediag/memvector/internal/debug"
	"github.com/srediag/memvector/pkg/memvector"
)

var internalLogger = debug.New("shm", nil)

// DebugRegionDetail describes the memvector header stored at the start of the file at path.
func DebugRegionDetail(path string) (string, error) {
	mem, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	h, err := memvector.ParseHeader(mem)
	if err != nil {
		return "", fmt.Errorf("path %s: %w", path, err)
	}
	return fmt.Sprintf("path:%s file_size:%d total_size:%d element_count:%d element_size:%d",
		path, len(mem), h.TotalSize, h.ElementCount, h.ElementSize), nil
}
