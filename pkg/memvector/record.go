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
	"reflect"
	"sync"
	"unsafe"
)

// checked caches the verdict of checkRecord per record type.
var checked sync.Map // reflect.Type -> error

func recordSize[T any]() uintptr {
	var zero T
	return unsafe.Sizeof(zero)
}

func recordAlign[T any]() uintptr {
	var zero T
	return unsafe.Alignof(zero)
}

// validateRecord reports whether T may live in a region: fixed size, non-zero size and
// nothing that refers to memory outside the record.
func validateRecord[T any]() error {
	t := reflect.TypeFor[T]()
	if v, ok := checked.Load(t); ok {
		if v == nil {
			return nil
		}
		return v.(error)
	}
	err := checkRecord(t)
	if err == nil && t.Size() == 0 {
		err = fmt.Errorf("%w: %s has zero size", ErrUnsupportedRecord, t)
	}
	checked.Store(t, err)
	return err
}

func checkRecord(t reflect.Type) error {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return nil
	case reflect.Array:
		if err := checkRecord(t.Elem()); err != nil {
			return fmt.Errorf("%s: %w", t, err)
		}
		return nil
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if err := checkRecord(f.Type); err != nil {
				return fmt.Errorf("%s.%s: %w", t, f.Name, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: %s is a %s", ErrUnsupportedRecord, t, t.Kind())
	}
}
