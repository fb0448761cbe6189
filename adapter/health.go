// Package adapter exposes memvector regions to external monitoring systems.
package adapter

import (
	"fmt"

	"github.com/heptiolabs/healthcheck"

	"github.com/srediag/memvector/pkg/memvector"
)

// HeaderSource is anything that can report a region header; every *memvector.Vector is one.
type HeaderSource interface {
	Header() memvector.Header
}

// RegionCheck fails when the header of src no longer describes a valid region of
// regionLen bytes, e.g. after another process scribbled over it. A negative regionLen
// skips the length bound.
func RegionCheck(src HeaderSource, regionLen int) healthcheck.Check {
	return func() error {
		return src.Header().Validate(regionLen)
	}
}

// NewHealthHandler returns a healthcheck handler with one readiness check per region.
func NewHealthHandler(regions map[string]HeaderSource) healthcheck.Handler {
	h := healthcheck.NewHandler()
	for name, src := range regions {
		h.AddReadinessCheck(fmt.Sprintf("memvector-%s", name), RegionCheck(src, -1))
	}
	return h
}
