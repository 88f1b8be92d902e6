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

// Package agg defines the supported aggregation operators and resolves, for
// a (source type, operator) pair, everything the grouping engine needs: the
// accumulator type, its identity value and the atomic combine primitive.
// Resolution happens once per invocation; unsupported pairs fail here, at
// dispatch time, never by silently downgrading precision.
package agg

import (
	"math"
	"sync/atomic"

	"github.com/vexdb/vex/pkg/common/vexerr"
	"github.com/vexdb/vex/pkg/container/hashtable"
	"github.com/vexdb/vex/pkg/container/types"
)

type Kind uint8

const (
	Min Kind = iota
	Max
	Sum
	Count
)

var Names = [...]string{
	Min:   "min",
	Max:   "max",
	Sum:   "sum",
	Count: "count",
}

func (k Kind) String() string {
	if int(k) < len(Names) {
		return Names[k]
	}
	return "invalid"
}

// Spec is the resolved plan for one aggregation invocation.  Target decides
// the output column's element type; Identity pre-fills the table slots so
// claiming and combining are one code path.
type Spec struct {
	Kind     Kind
	Src      types.T
	Target   types.T
	Identity uint64
	Combine  hashtable.CombineFn
}

// TargetType resolves the accumulator type: MIN and MAX keep the source
// type, COUNT is always a 64-bit signed integer, SUM widens integral
// sources to 64-bit signed and keeps floating-point sources as-is.
func TargetType(src types.T, k Kind) (types.T, error) {
	if !src.IsNumeric() {
		return 0, vexerr.NewNotSupported("%s over %s", k, src)
	}
	switch k {
	case Min, Max:
		return src, nil
	case Count:
		return types.T_int64, nil
	case Sum:
		if src.IsInteger() {
			return types.T_int64, nil
		}
		return src, nil
	}
	return 0, vexerr.NewNotSupported("aggregation kind %d", k)
}

func NewSpec(src types.T, k Kind) (*Spec, error) {
	target, err := TargetType(src, k)
	if err != nil {
		return nil, err
	}
	spec := &Spec{Kind: k, Src: src, Target: target}
	switch k {
	case Count:
		spec.Identity = 0
		spec.Combine = addWord
	case Sum:
		spec.Identity = 0
		switch target {
		case types.T_int64:
			spec.Combine = addWord
		case types.T_float32:
			spec.Combine = casAdd[float32]()
		case types.T_float64:
			spec.Combine = casAdd[float64]()
		default:
			return nil, vexerr.NewNotSupported("sum accumulator %s", target)
		}
	case Min:
		spec.Identity, err = maxValueBits(target)
		if err != nil {
			return nil, err
		}
		spec.Combine, err = pickCombine(target, true)
		if err != nil {
			return nil, err
		}
	case Max:
		spec.Identity, err = minValueBits(target)
		if err != nil {
			return nil, err
		}
		spec.Combine, err = pickCombine(target, false)
		if err != nil {
			return nil, err
		}
	}
	return spec, nil
}

// addWord accumulates 64-bit integer deltas on the raw slot word;
// two's-complement addition is correct regardless of sign.
func addWord(slot *uint64, delta uint64) {
	atomic.AddUint64(slot, delta)
}

// casAdd folds floating-point deltas with a compare-and-swap retry loop.
func casAdd[T float32 | float64]() hashtable.CombineFn {
	return func(slot *uint64, delta uint64) {
		d := hashtable.FromBits[T](delta)
		for {
			old := atomic.LoadUint64(slot)
			nv := hashtable.FromBits[T](old) + d
			if atomic.CompareAndSwapUint64(slot, old, hashtable.BitsOf(nv)) {
				return
			}
		}
	}
}

// casPick keeps the smaller (or larger) of slot and delta with a
// compare-and-swap retry loop.
func casPick[T types.OrderedT](min bool) hashtable.CombineFn {
	return func(slot *uint64, delta uint64) {
		d := hashtable.FromBits[T](delta)
		for {
			old := atomic.LoadUint64(slot)
			cur := hashtable.FromBits[T](old)
			if min {
				if cur <= d {
					return
				}
			} else {
				if cur >= d {
					return
				}
			}
			if atomic.CompareAndSwapUint64(slot, old, delta) {
				return
			}
		}
	}
}

func pickCombine(t types.T, min bool) (hashtable.CombineFn, error) {
	switch t {
	case types.T_int8:
		return casPick[int8](min), nil
	case types.T_int16:
		return casPick[int16](min), nil
	case types.T_int32:
		return casPick[int32](min), nil
	case types.T_int64:
		return casPick[int64](min), nil
	case types.T_uint8:
		return casPick[uint8](min), nil
	case types.T_uint16:
		return casPick[uint16](min), nil
	case types.T_uint32:
		return casPick[uint32](min), nil
	case types.T_uint64:
		return casPick[uint64](min), nil
	case types.T_float32:
		return casPick[float32](min), nil
	case types.T_float64:
		return casPick[float64](min), nil
	}
	return nil, vexerr.NewNotSupported("combine over %s", t)
}

// maxValueBits is the identity of MIN: the largest representable value.
func maxValueBits(t types.T) (uint64, error) {
	return hashtable.EmptyKeyBits(t)
}

// minValueBits is the identity of MAX: the smallest representable value.
func minValueBits(t types.T) (uint64, error) {
	switch t {
	case types.T_int8:
		return hashtable.BitsOf(int8(math.MinInt8)), nil
	case types.T_int16:
		return hashtable.BitsOf(int16(math.MinInt16)), nil
	case types.T_int32:
		return hashtable.BitsOf(int32(math.MinInt32)), nil
	case types.T_int64:
		return hashtable.BitsOf(int64(math.MinInt64)), nil
	case types.T_uint8, types.T_uint16, types.T_uint32, types.T_uint64:
		return 0, nil
	case types.T_float32:
		return hashtable.BitsOf(float32(math.Inf(-1))), nil
	case types.T_float64:
		return hashtable.BitsOf(math.Inf(-1)), nil
	}
	return 0, vexerr.NewNotSupported("identity over %s", t)
}
