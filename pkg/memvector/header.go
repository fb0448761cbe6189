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
)

// Header is the control record at offset 0 of every region. It is three native words
// with no padding, so processes on the same platform agree on its layout.
type Header struct {
	TotalSize    uintptr
	ElementCount uintptr
	ElementSize  uintptr
}

const (
	wordSize = int(unsafe.Sizeof(uintptr(0)))

	// HeaderSize is the byte size of Header, 24 on 64-bit platforms.
	HeaderSize = int(unsafe.Sizeof(Header{}))

	headerAlign = uintptr(unsafe.Alignof(Header{}))
)

// RequiredSize returns the region size needed for count records of T.
func RequiredSize[T any](count int) int {
	if count < 0 {
		count = 0
	}
	return HeaderSize + count*int(recordSize[T]())
}

// DataSize is the byte span of the records.
func (h Header) DataSize() int {
	return int(h.ElementCount * h.ElementSize)
}

// Validate checks that h is a header Create could have written for a region of
// regionLen bytes. A negative regionLen skips the bound check.
func (h Header) Validate(regionLen int) error {
	switch {
	case h.ElementSize == 0:
		return fmt.Errorf("%w: element size is zero", ErrCorruptHeader)
	case h.TotalSize <= uintptr(HeaderSize):
		return fmt.Errorf("%w: total size %d not above header size %d", ErrCorruptHeader, h.TotalSize, HeaderSize)
	}
	capacity := (h.TotalSize - uintptr(HeaderSize)) / h.ElementSize
	if h.ElementCount == 0 || h.ElementCount != capacity {
		return fmt.Errorf("%w: element count %d, expected %d for total size %d and element size %d",
			ErrCorruptHeader, h.ElementCount, capacity, h.TotalSize, h.ElementSize)
	}
	if regionLen >= 0 && h.TotalSize > uintptr(regionLen) {
		return fmt.Errorf("%w: total size %d exceeds region length %d", ErrCorruptHeader, h.TotalSize, regionLen)
	}
	return nil
}

// ParseHeader copies the header out of region without assuming a record type or an
// aligned base, and validates it.
func ParseHeader(region []byte) (Header, error) {
	var h Header
	if len(region) < HeaderSize {
		return h, fmt.Errorf("%w: region of %d bytes is shorter than the header", ErrCorruptHeader, len(region))
	}
	copy(unsafe.Slice((*byte)(unsafe.Pointer(&h)), HeaderSize), region)
	return h, h.Validate(len(region))
}

func overlayHeader(base unsafe.Pointer) *Header {
	return (*Header)(base)
}
