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

// Package memvector overlays a fixed-size array of plain records on a byte region that
// somebody else owns, typically a shared memory segment mapped by several processes.
//
// The region starts with a Header of three native words (total size, element count,
// element size) followed by the records, tightly packed:
//
//	offset 0:  total_size
//	offset W:  element_count
//	offset 2W: element_size
//	offset 3W: element[0] .. element[element_count-1]
//
// One party calls Create to zero the region and write the header; every other party
// calls Attach on the same bytes. The element count never changes afterwards.
//
// Vectors do no locking and use no atomic operations. Accesses to different indices are
// independent; anything else needs a lock supplied by the caller.
//
// Example usage:
//
//	type slot struct {
//		ID    uint64
//		Score float64
//	}
//
//	region := make([]byte, memvector.RequiredSize[slot](128))
//	v, err := memvector.Create[slot](region)
//	// ...
//	s, err := v.At(3)
//	s.Score = 1.5
package memvector
