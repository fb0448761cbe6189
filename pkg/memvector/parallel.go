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
	"context"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// ForEachParallel calls fn for every record, splitting the index range into chunks of
// chunkSize records that run on pool. Each index is visited by exactly one goroutine,
// so fn may write its own record without further locking. A nil pool means a temporary
// pool of GOMAXPROCS workers. The first error, from fn or from ctx, is returned.
func ForEachParallel[T any](ctx context.Context, v *Vector[T], pool *ants.Pool, chunkSize int, fn func(i int, rec *T) error) error {
	if pool == nil {
		p, err := ants.NewPool(runtime.GOMAXPROCS(0))
		if err != nil {
			return err
		}
		defer p.Release()
		pool = p
	}
	n := v.Len()
	if chunkSize <= 0 {
		chunkSize = (n + runtime.GOMAXPROCS(0) - 1) / runtime.GOMAXPROCS(0)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}
	failed := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return firstErr != nil
	}

	for lo := 0; lo < n; lo += chunkSize {
		hi := min(lo+chunkSize, n)
		wg.Add(1)
		task := func() {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					fail(err)
					return
				}
				if failed() {
					return
				}
				rec, err := v.At(i)
				if err == nil {
					err = fn(i, rec)
				}
				if err != nil {
					fail(err)
					return
				}
			}
		}
		if err := pool.Submit(task); err != nil {
			wg.Done()
			fail(err)
			break
		}
	}
	wg.Wait()
	return firstErr
}
