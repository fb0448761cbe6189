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

import "iter"

// Cursor is a random-access position in a Vector. Moving a cursor never fails;
// Value reports an *IndexError when the position is outside the vector.
type Cursor[T any] struct {
	v     *Vector[T]
	index int
}

// Begin returns a cursor at index 0.
func (v *Vector[T]) Begin() Cursor[T] {
	return Cursor[T]{v: v}
}

// End returns a cursor one past the last record.
func (v *Vector[T]) End() Cursor[T] {
	return Cursor[T]{v: v, index: v.Len()}
}

// Advance moves c forward and returns it.
func (c *Cursor[T]) Advance() *Cursor[T] {
	c.index++
	return c
}

// PostAdvance moves c forward and returns its previous position.
func (c *Cursor[T]) PostAdvance() Cursor[T] {
	prev := *c
	c.index++
	return prev
}

// Retreat moves c back and returns it.
func (c *Cursor[T]) Retreat() *Cursor[T] {
	c.index--
	return c
}

// Offset returns a cursor n records away from c.
func (c Cursor[T]) Offset(n int) Cursor[T] {
	c.index += n
	return c
}

// Distance returns the number of steps from c to o.
func (c Cursor[T]) Distance(o Cursor[T]) int {
	return o.index - c.index
}

// Equal reports whether both cursors view the same region at the same index.
func (c Cursor[T]) Equal(o Cursor[T]) bool {
	return c.index == o.index && c.v.Equal(o.v)
}

func (c Cursor[T]) Index() int {
	return c.index
}

// Value is At(c.Index()).
func (c Cursor[T]) Value() (*T, error) {
	return c.v.At(c.index)
}

// All yields every record from Begin to End in index order.
func (v *Vector[T]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for c, end := v.Begin(), v.End(); !c.Equal(end); c.Advance() {
			rec, err := c.Value()
			if err != nil || !yield(c.Index(), rec) {
				return
			}
		}
	}
}
