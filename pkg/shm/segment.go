package shm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	internalshm "github.com/srediag/memvector/internal/shm"
	"github.com/srediag/memvector/pkg/memvector"
)

const instrumentationName = "github.com/srediag/memvector/pkg/shm"

var ErrClosed = errors.New("shm: segment closed")

// Segment is a mapped shared memory segment.
type Segment struct {
	region  *internalshm.MappedRegion
	name    string
	tracer  trace.Tracer
	closes  metric.Int64Counter
	closed  atomic.Bool
	created bool
}

// OpenOptions defines options for creating or opening a shared memory segment.
type OpenOptions struct {
	// Name is the identifier for the shared memory segment.
	Name string
	// Dir overrides the directory of the backing file.
	Dir string
	// Size is the total segment size in bytes. Required with Create; when attaching,
	// zero maps the whole segment.
	Size int
	// Create indicates whether to create a new segment or open an existing one.
	Create bool
	// AttachTimeout bounds how long Open waits for another process to create the segment.
	AttachTimeout time.Duration
	Meter         metric.Meter
	Tracer        trace.Tracer
}

// Open creates or opens a shared memory segment with the given options.
func Open(ctx context.Context, opts OpenOptions) (seg *Segment, err error) {
	meter, tracer := opts.Meter, opts.Tracer
	if meter == nil {
		meter = metricnoop.NewMeterProvider().Meter(instrumentationName)
	}
	if tracer == nil {
		tracer = tracenoop.NewTracerProvider().Tracer(instrumentationName)
	}
	ctx, span := tracer.Start(ctx, "shm.Open")
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()

	opens, err := meter.Int64Counter("shm.segment.opens", metric.WithDescription("Shared memory segments opened."))
	if err != nil {
		return nil, err
	}
	closes, err := meter.Int64Counter("shm.segment.closes", metric.WithDescription("Shared memory segments closed."))
	if err != nil {
		return nil, err
	}

	mapOpts := internalshm.MapOptions{
		Name:   opts.Name,
		Dir:    opts.Dir,
		Size:   opts.Size,
		Create: opts.Create,
	}
	if !opts.Create {
		path, err := internalshm.RegionPath(mapOpts)
		if err != nil {
			return nil, err
		}
		if err := internalshm.WaitForRegion(ctx, path, int64(memvector.HeaderSize), opts.AttachTimeout); err != nil {
			return nil, fmt.Errorf("wait for segment %s: %w", opts.Name, err)
		}
	}
	region, err := internalshm.MapRegion(ctx, mapOpts)
	if err != nil {
		return nil, err
	}
	opens.Add(ctx, 1)
	return &Segment{
		region:  region,
		name:    opts.Name,
		tracer:  tracer,
		closes:  closes,
		created: region.Created,
	}, nil
}

// Bytes returns the mapped memory. It must not be used after Close.
func (s *Segment) Bytes() []byte {
	return s.region.Addr
}

func (s *Segment) Name() string {
	return s.name
}

// Path returns the backing file.
func (s *Segment) Path() string {
	return s.region.Path
}

func (s *Segment) Size() int {
	return len(s.region.Addr)
}

// Created reports whether this Segment created the backing file.
func (s *Segment) Created() bool {
	return s.created
}

// Close unmaps the segment. Every view over Bytes becomes invalid.
func (s *Segment) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	ctx, span := s.tracer.Start(context.Background(), "shm.Close")
	defer span.End()
	if err := internalshm.UnmapRegion(ctx, s.region); err != nil {
		span.RecordError(err)
		return err
	}
	s.closes.Add(ctx, 1)
	return nil
}

// Unlink removes the backing file. Mappings stay valid until closed.
func (s *Segment) Unlink() error {
	if err := os.Remove(s.region.Path); err != nil {
		return err
	}
	internalLogger.Infof("segment %s removed file %s", s.name, s.region.Path)
	return nil
}

// CreateVector creates a segment sized for count records of T and initializes it.
// opts.Create and opts.Size are set by CreateVector.
func CreateVector[T any](ctx context.Context, opts OpenOptions, count int) (*Segment, *memvector.Vector[T], error) {
	opts.Create = true
	opts.Size = memvector.RequiredSize[T](count)
	seg, err := Open(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	v, err := memvector.Create[T](seg.Bytes())
	if err != nil {
		_ = seg.Close()
		_ = seg.Unlink()
		return nil, nil, err
	}
	return seg, v, nil
}

// AttachVector opens an existing segment and attaches to the memvector region at its
// start. With an AttachTimeout it keeps retrying while the creator has sized the
// segment but not yet written the header.
func AttachVector[T any](ctx context.Context, opts OpenOptions) (*Segment, *memvector.Vector[T], error) {
	opts.Create = false
	var (
		seg *Segment
		v   *memvector.Vector[T]
	)
	op := func() error {
		var err error
		seg, err = Open(ctx, opts)
		if err != nil {
			return backoff.Permanent(err)
		}
		v, err = memvector.Attach[T](seg.Bytes())
		if err == nil {
			return nil
		}
		_ = seg.Close()
		seg = nil
		if errors.Is(err, memvector.ErrCorruptHeader) {
			return err
		}
		return backoff.Permanent(err)
	}
	var err error
	if opts.AttachTimeout <= 0 {
		err = op()
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			err = perm.Err
		}
	} else {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = 2 * time.Millisecond
		b.MaxInterval = 100 * time.Millisecond
		b.MaxElapsedTime = opts.AttachTimeout
		err = backoff.Retry(op, backoff.WithContext(b, ctx))
	}
	if err != nil {
		return nil, nil, err
	}
	return seg, v, nil
}
