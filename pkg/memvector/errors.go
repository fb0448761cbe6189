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
	"errors"
	"fmt"
)

var (
	// ErrInsufficientMemory is returned by Create when the region cannot hold the
	// header plus one record.
	ErrInsufficientMemory = errors.New("memvector: memory size not enough")
	// ErrIndexOutOfRange is matched by every *IndexError.
	ErrIndexOutOfRange = errors.New("memvector: index out of range")
	// ErrElementSizeMismatch means the region was created for another record type.
	ErrElementSizeMismatch = errors.New("memvector: element size mismatch")
	// ErrCorruptHeader means the header does not describe a region Create could have written.
	ErrCorruptHeader = errors.New("memvector: corrupt header")
	// ErrMisaligned means the region base cannot hold the header or records at their natural alignment.
	ErrMisaligned = errors.New("memvector: misaligned region")
	// ErrNilRegion is returned for a nil base pointer.
	ErrNilRegion = errors.New("memvector: nil region")
	// ErrUnsupportedRecord means the record type is not plain, fixed-size data.
	ErrUnsupportedRecord = errors.New("memvector: unsupported record type")
	// ErrSnapshotSize means a snapshot was taken from a region of another shape.
	ErrSnapshotSize = errors.New("memvector: snapshot size mismatch")
)

// IndexError reports an access outside [0, Count).
type IndexError struct {
	Index int
	Count int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("memvector: index beyond: index = %d, element count = %d", e.Index, e.Count)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}
