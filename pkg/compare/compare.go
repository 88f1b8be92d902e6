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

// Package compare builds row comparators over single columns.  A comparator
// ranks nulls below or above every non-null value; a descending direction
// inverts the whole comparison, null rank included.
package compare

import (
	"bytes"

	"github.com/vexdb/vex/pkg/common/vexerr"
	"github.com/vexdb/vex/pkg/container/types"
	"github.com/vexdb/vex/pkg/container/vector"
)

// Compare ranks two rows of one column: negative, zero or positive as row a
// sorts before, with or after row b.
type Compare interface {
	Compare(a, b int64) int
}

// New builds a comparator for one column view.
func New(v *vector.View, desc bool, nullsSmallest bool) (Compare, error) {
	oid := v.Typ().Oid
	if oid.IsCompound() {
		return &bytesCompare{v: v, desc: desc, nullsSmallest: nullsSmallest}, nil
	}
	switch oid {
	case types.T_int8:
		return newFixed[int8](v, desc, nullsSmallest), nil
	case types.T_int16:
		return newFixed[int16](v, desc, nullsSmallest), nil
	case types.T_int32:
		return newFixed[int32](v, desc, nullsSmallest), nil
	case types.T_int64:
		return newFixed[int64](v, desc, nullsSmallest), nil
	case types.T_uint8:
		return newFixed[uint8](v, desc, nullsSmallest), nil
	case types.T_uint16:
		return newFixed[uint16](v, desc, nullsSmallest), nil
	case types.T_uint32:
		return newFixed[uint32](v, desc, nullsSmallest), nil
	case types.T_uint64:
		return newFixed[uint64](v, desc, nullsSmallest), nil
	case types.T_float32:
		return newFixed[float32](v, desc, nullsSmallest), nil
	case types.T_float64:
		return newFixed[float64](v, desc, nullsSmallest), nil
	}
	return nil, vexerr.NewNotSupported("sort key type %s", oid)
}

type fixedCompare[T types.OrderedT] struct {
	v             *vector.View
	vals          []T
	desc          bool
	nullsSmallest bool
}

func newFixed[T types.OrderedT](v *vector.View, desc, nullsSmallest bool) *fixedCompare[T] {
	return &fixedCompare[T]{
		v:             v,
		vals:          vector.ViewFixedCol[T](v),
		desc:          desc,
		nullsSmallest: nullsSmallest,
	}
}

func rankNulls(aNull, bNull, nullsSmallest bool) int {
	if aNull && bNull {
		return 0
	}
	if aNull {
		if nullsSmallest {
			return -1
		}
		return 1
	}
	if nullsSmallest {
		return 1
	}
	return -1
}

func (c *fixedCompare[T]) Compare(a, b int64) int {
	r := c.raw(a, b)
	if c.desc {
		return -r
	}
	return r
}

func (c *fixedCompare[T]) raw(a, b int64) int {
	aNull, bNull := c.v.IsNull(int(a)), c.v.IsNull(int(b))
	if aNull || bNull {
		return rankNulls(aNull, bNull, c.nullsSmallest)
	}
	x, y := c.vals[a], c.vals[b]
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

type bytesCompare struct {
	v             *vector.View
	desc          bool
	nullsSmallest bool
}

func (c *bytesCompare) Compare(a, b int64) int {
	r := c.raw(a, b)
	if c.desc {
		return -r
	}
	return r
}

func (c *bytesCompare) raw(a, b int64) int {
	aNull, bNull := c.v.IsNull(int(a)), c.v.IsNull(int(b))
	if aNull || bNull {
		return rankNulls(aNull, bNull, c.nullsSmallest)
	}
	return bytes.Compare(c.v.GetBytes(int(a)), c.v.GetBytes(int(b)))
}
