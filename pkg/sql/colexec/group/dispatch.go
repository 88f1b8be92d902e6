// Copyright 2022 Vex Data
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package group

import (
	"github.com/vexdb/vex/pkg/common/vexerr"
	"github.com/vexdb/vex/pkg/container/hashtable"
	"github.com/vexdb/vex/pkg/container/types"
	"github.com/vexdb/vex/pkg/container/vector"
	"github.com/vexdb/vex/pkg/sql/colexec/agg"
)

// keyOps is the per-key-type plan: window-relative access to key words, the
// reserved empty-slot sentinel, and a typed writer into the output column.
type keyOps struct {
	sentinel uint64
	at       func(i int) uint64
	store    func(out *vector.Vector) func(row int64, bits uint64)
}

func makeKeyOps[K types.OrderedT](view *vector.View, sentinel uint64) *keyOps {
	vals := vector.ViewFixedCol[K](view)
	return &keyOps{
		sentinel: sentinel,
		at: func(i int) uint64 {
			return hashtable.BitsOf(vals[i])
		},
		store: func(out *vector.Vector) func(row int64, bits uint64) {
			dst := vector.MustFixedCol[K](out)
			return func(row int64, bits uint64) {
				dst[row] = hashtable.FromBits[K](bits)
			}
		},
	}
}

func keyOpsOf(view *vector.View) (*keyOps, error) {
	oid := view.Typ().Oid
	sentinel, err := hashtable.EmptyKeyBits(oid)
	if err != nil {
		return nil, err
	}
	switch oid {
	case types.T_int8:
		return makeKeyOps[int8](view, sentinel), nil
	case types.T_int16:
		return makeKeyOps[int16](view, sentinel), nil
	case types.T_int32:
		return makeKeyOps[int32](view, sentinel), nil
	case types.T_int64:
		return makeKeyOps[int64](view, sentinel), nil
	case types.T_uint8:
		return makeKeyOps[uint8](view, sentinel), nil
	case types.T_uint16:
		return makeKeyOps[uint16](view, sentinel), nil
	case types.T_uint32:
		return makeKeyOps[uint32](view, sentinel), nil
	case types.T_uint64:
		return makeKeyOps[uint64](view, sentinel), nil
	case types.T_float32:
		return makeKeyOps[float32](view, sentinel), nil
	case types.T_float64:
		return makeKeyOps[float64](view, sentinel), nil
	}
	return nil, vexerr.NewNotSupported("group key type %s", oid)
}

func rawDelta[K types.OrderedT](view *vector.View) func(i int) uint64 {
	vals := vector.ViewFixedCol[K](view)
	return func(i int) uint64 {
		return hashtable.BitsOf(vals[i])
	}
}

// widenDelta lifts an integral source value into the int64 accumulator
// domain before packing it into a slot word.
func widenDelta[K int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64](view *vector.View) func(i int) uint64 {
	vals := vector.ViewFixedCol[K](view)
	return func(i int) uint64 {
		return hashtable.BitsOf(int64(vals[i]))
	}
}

// deltaOf resolves the per-row delta accessor for the value column.
func deltaOf(view *vector.View, spec *agg.Spec) (func(i int) uint64, error) {
	oid := view.Typ().Oid
	if spec.Kind == agg.Count {
		one := hashtable.BitsOf(int64(1))
		return func(int) uint64 { return one }, nil
	}
	if spec.Kind == agg.Sum && oid.IsInteger() {
		switch oid {
		case types.T_int8:
			return widenDelta[int8](view), nil
		case types.T_int16:
			return widenDelta[int16](view), nil
		case types.T_int32:
			return widenDelta[int32](view), nil
		case types.T_int64:
			return widenDelta[int64](view), nil
		case types.T_uint8:
			return widenDelta[uint8](view), nil
		case types.T_uint16:
			return widenDelta[uint16](view), nil
		case types.T_uint32:
			return widenDelta[uint32](view), nil
		case types.T_uint64:
			return widenDelta[uint64](view), nil
		}
	}
	// MIN, MAX and floating-point SUM accumulate in the source type.
	switch oid {
	case types.T_int8:
		return rawDelta[int8](view), nil
	case types.T_int16:
		return rawDelta[int16](view), nil
	case types.T_int32:
		return rawDelta[int32](view), nil
	case types.T_int64:
		return rawDelta[int64](view), nil
	case types.T_uint8:
		return rawDelta[uint8](view), nil
	case types.T_uint16:
		return rawDelta[uint16](view), nil
	case types.T_uint32:
		return rawDelta[uint32](view), nil
	case types.T_uint64:
		return rawDelta[uint64](view), nil
	case types.T_float32:
		return rawDelta[float32](view), nil
	case types.T_float64:
		return rawDelta[float64](view), nil
	}
	return nil, vexerr.NewNotSupported("aggregation value type %s", oid)
}

func makeStore[K types.OrderedT](out *vector.Vector) func(row int64, bits uint64) {
	dst := vector.MustFixedCol[K](out)
	return func(row int64, bits uint64) {
		dst[row] = hashtable.FromBits[K](bits)
	}
}

// storeOf resolves the typed writer for the aggregate output column.
func storeOf(target types.T, out *vector.Vector) (func(row int64, bits uint64), error) {
	switch target {
	case types.T_int8:
		return makeStore[int8](out), nil
	case types.T_int16:
		return makeStore[int16](out), nil
	case types.T_int32:
		return makeStore[int32](out), nil
	case types.T_int64:
		return makeStore[int64](out), nil
	case types.T_uint8:
		return makeStore[uint8](out), nil
	case types.T_uint16:
		return makeStore[uint16](out), nil
	case types.T_uint32:
		return makeStore[uint32](out), nil
	case types.T_uint64:
		return makeStore[uint64](out), nil
	case types.T_float32:
		return makeStore[float32](out), nil
	case types.T_float64:
		return makeStore[float64](out), nil
	}
	return nil, vexerr.NewNotSupported("aggregate output type %s", target)
}
