/*
 * Copyright 2025 SREDiag Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package memvector

import (
	"fmt"
	"unsafe"

	"github.com/valyala/bytebufferpool"

	"github.com/srediag/memvector/internal/debug"
)

var internalLogger = debug.New("memvector", nil)

// Vector is a non-owning view of a region laid out as a Header followed by
// ElementCount records of T. The region must stay valid, and mapped, for as long as
// any Vector over it is used.
//
// T must be plain data: booleans, numbers, and arrays or structs of those.
type Vector[T any] struct {
	hdr  *Header
	data unsafe.Pointer
}

// Create zero-fills region, writes a fresh header and returns a view over it. The
// element count is (len(region)-HeaderSize)/sizeof(T). On error region is untouched.
func Create[T any](region []byte) (*Vector[T], error) {
	if err := validateRecord[T](); err != nil {
		return nil, err
	}
	size := recordSize[T]()
	if len(region) <= HeaderSize || uintptr(len(region)-HeaderSize)/size == 0 {
		return nil, fmt.Errorf("%w: region of %d bytes, need at least %d",
			ErrInsufficientMemory, len(region), RequiredSize[T](1))
	}
	base := unsafe.Pointer(unsafe.SliceData(region))
	if err := checkAlignment[T](base); err != nil {
		return nil, err
	}

	v := overlay[T](base)
	// The blanket zero-fill covers the header too, so it must come first.
	clear(region)
	v.hdr.TotalSize = uintptr(len(region))
	v.hdr.ElementCount = uintptr(len(region)-HeaderSize) / size
	v.hdr.ElementSize = size
	internalLogger.Debugf("create %s", v.Describe())
	return v, nil
}

// CreateAt is Create for a region given as a base pointer and a byte size.
func CreateAt[T any](ptr unsafe.Pointer, size int) (*Vector[T], error) {
	if ptr == nil {
		return nil, ErrNilRegion
	}
	if size < 0 {
		size = 0
	}
	return Create[T](unsafe.Slice((*byte)(ptr), size))
}

// Attach returns a view over a region previously initialized by Create with the same
// record type. It never writes to region.
func Attach[T any](region []byte) (*Vector[T], error) {
	if err := validateRecord[T](); err != nil {
		return nil, err
	}
	if len(region) < HeaderSize {
		return nil, fmt.Errorf("%w: region of %d bytes is shorter than the header", ErrCorruptHeader, len(region))
	}
	base := unsafe.Pointer(unsafe.SliceData(region))
	if err := checkAlignment[T](base); err != nil {
		return nil, err
	}
	v := overlay[T](base)
	if err := v.hdr.Validate(len(region)); err != nil {
		return nil, err
	}
	if v.hdr.ElementSize != recordSize[T]() {
		var zero T
		return nil, fmt.Errorf("%w: region holds %d-byte elements, %T is %d bytes",
			ErrElementSizeMismatch, v.hdr.ElementSize, zero, recordSize[T]())
	}
	internalLogger.Debugf("attach %s", v.Describe())
	return v, nil
}

// AttachAt is Attach for a region known only by its base pointer; the region length is
// taken from the header.
func AttachAt[T any](ptr unsafe.Pointer) (*Vector[T], error) {
	if ptr == nil {
		return nil, ErrNilRegion
	}
	if uintptr(ptr)%headerAlign != 0 {
		return nil, fmt.Errorf("%w: base %p", ErrMisaligned, ptr)
	}
	total := overlayHeader(ptr).TotalSize
	if total < uintptr(HeaderSize) || total > uintptr(maxInt) {
		return nil, fmt.Errorf("%w: total size %d", ErrCorruptHeader, total)
	}
	return Attach[T](unsafe.Slice((*byte)(ptr), int(total)))
}

// MustAttach is like Attach but panics on error. Use it where a mismatch can only come
// from two components disagreeing on the record type.
func MustAttach[T any](region []byte) *Vector[T] {
	v, err := Attach[T](region)
	if err != nil {
		panic(err)
	}
	return v
}

const maxInt = int(^uint(0) >> 1)

func overlay[T any](base unsafe.Pointer) *Vector[T] {
	return &Vector[T]{
		hdr:  overlayHeader(base),
		data: unsafe.Add(base, HeaderSize),
	}
}

func checkAlignment[T any](base unsafe.Pointer) error {
	if uintptr(base)%headerAlign != 0 {
		return fmt.Errorf("%w: base %p not aligned to %d", ErrMisaligned, base, headerAlign)
	}
	if a := recordAlign[T](); (uintptr(base)+uintptr(HeaderSize))%a != 0 {
		return fmt.Errorf("%w: records at %#x not aligned to %d", ErrMisaligned, uintptr(base)+uintptr(HeaderSize), a)
	}
	return nil
}

// At returns a pointer to record i. Writes through it are visible to every view of
// the region, in this process or another, without any synchronization.
func (v *Vector[T]) At(i int) (*T, error) {
	n := int(v.hdr.ElementCount)
	if i < 0 || i >= n {
		return nil, &IndexError{Index: i, Count: n}
	}
	return (*T)(unsafe.Add(v.data, uintptr(i)*v.hdr.ElementSize)), nil
}

// Get returns a copy of record i.
func (v *Vector[T]) Get(i int) (T, error) {
	p, err := v.At(i)
	if err != nil {
		var zero T
		return zero, err
	}
	return *p, nil
}

// Set overwrites record i.
func (v *Vector[T]) Set(i int, rec T) error {
	p, err := v.At(i)
	if err != nil {
		return err
	}
	*p = rec
	return nil
}

// RecordBytes returns the raw bytes of record i, aliasing the region.
func (v *Vector[T]) RecordBytes(i int) ([]byte, error) {
	p, err := v.At(i)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(p)), v.hdr.ElementSize), nil
}

// Clear zeroes every record. The header is left as is.
func (v *Vector[T]) Clear() {
	clear(v.dataBytes())
}

// Len returns the element count.
func (v *Vector[T]) Len() int {
	return int(v.hdr.ElementCount)
}

// RegionSize returns the total region size recorded at creation, header included.
func (v *Vector[T]) RegionSize() int {
	return int(v.hdr.TotalSize)
}

// Header returns a copy of the region header.
func (v *Vector[T]) Header() Header {
	return *v.hdr
}

// Addr returns the base address of the region.
func (v *Vector[T]) Addr() unsafe.Pointer {
	return unsafe.Pointer(v.hdr)
}

// Equal reports whether v and o view the same region.
func (v *Vector[T]) Equal(o *Vector[T]) bool {
	if v == nil || o == nil {
		return v == o
	}
	return v.hdr == o.hdr && v.data == o.data
}

// Describe returns a one-line description of the header for logs.
func (v *Vector[T]) Describe() string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	_, _ = fmt.Fprintf(buf, "[memvector] [total_size=%d] [element_count=%d] [element_size=%d]",
		v.hdr.TotalSize, v.hdr.ElementCount, v.hdr.ElementSize)
	return buf.String()
}

func (v *Vector[T]) String() string {
	return v.Describe()
}

func (v *Vector[T]) dataBytes() []byte {
	return unsafe.Slice((*byte)(v.data), v.hdr.DataSize())
}
