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
	"bytes"
	"fmt"

	"github.com/Workiva/go-datastructures/bitarray"
)

// Snapshot copies the record bytes of v. The header is not part of a snapshot.
func (v *Vector[T]) Snapshot() []byte {
	return bytes.Clone(v.dataBytes())
}

// Restore copies a snapshot back over the records.
func (v *Vector[T]) Restore(snapshot []byte) error {
	data := v.dataBytes()
	if len(snapshot) != len(data) {
		return fmt.Errorf("%w: snapshot of %d bytes, region holds %d", ErrSnapshotSize, len(snapshot), len(data))
	}
	copy(data, snapshot)
	return nil
}

// Changed returns the indices whose bytes differ from snapshot, for example the
// records another process has written since the snapshot was taken.
func (v *Vector[T]) Changed(snapshot []byte) (bitarray.BitArray, error) {
	data := v.dataBytes()
	if len(snapshot) != len(data) {
		return nil, fmt.Errorf("%w: snapshot of %d bytes, region holds %d", ErrSnapshotSize, len(snapshot), len(data))
	}
	n, size := v.Len(), int(v.hdr.ElementSize)
	changed := bitarray.NewBitArray(uint64(n))
	for i := 0; i < n; i++ {
		off := i * size
		if bytes.Equal(data[off:off+size], snapshot[off:off+size]) {
			continue
		}
		if err := changed.SetBit(uint64(i)); err != nil {
			return nil, err
		}
	}
	return changed, nil
}
