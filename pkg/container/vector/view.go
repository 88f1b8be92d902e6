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

package vector

import (
	"sync/atomic"

	"github.com/vexdb/vex/pkg/common/vexerr"
	"github.com/vexdb/vex/pkg/container/nulls"
	"github.com/vexdb/vex/pkg/container/types"
)

// UnknownNullCount marks a view whose null count has not been materialized;
// the first NullCount call computes and caches it.
const UnknownNullCount = -1

// View is a non-owning column descriptor: type tag, row window over a value
// buffer, shared null set and child views.  Views never free memory; their
// validity is bounded by the owning Vector's lifetime.
type View struct {
	typ       types.Type
	data      []byte
	nsp       *nulls.Nulls
	offset    int
	length    int
	nullCount atomic.Int64
	children  []*View
}

// NewView validates and builds a view over caller-supplied buffers.  This is
// the construction boundary for data not materialized by a Vector factory.
func NewView(typ types.Type, length int, data []byte, nsp *nulls.Nulls, nullCount int, offset int, children []*View) (*View, error) {
	if length < 0 {
		return nil, vexerr.NewInvalidInput("column size cannot be negative, got %d", length)
	}
	if offset < 0 {
		return nil, vexerr.NewInvalidInput("column offset cannot be negative, got %d", offset)
	}
	switch {
	case typ.Oid == types.T_empty:
		if data != nil {
			return nil, vexerr.NewInvalidInput("empty column cannot carry a value buffer")
		}
		if nsp != nil && nsp.Np != nil {
			return nil, vexerr.NewInvalidInput("empty column cannot carry a null mask")
		}
		if len(children) != 0 {
			return nil, vexerr.NewInvalidInput("empty column cannot have children")
		}
		nullCount = length
	case typ.Oid.IsCompound():
		if data != nil {
			return nil, vexerr.NewInvalidInput("compound column cannot carry a value buffer, values live in children")
		}
	default:
		if length > 0 && data == nil {
			return nil, vexerr.NewInvalidInput("missing value buffer for %d rows of %s", length, typ)
		}
	}
	if nullCount > 0 && typ.Oid != types.T_empty && (nsp == nil || nsp.Np == nil) {
		return nil, vexerr.NewInvalidInput("null count %d without a null mask", nullCount)
	}
	if nullCount < UnknownNullCount || nullCount > length {
		return nil, vexerr.NewInvalidInput("null count %d out of [0, %d]", nullCount, length)
	}
	v := &View{
		typ:      typ,
		data:     data,
		nsp:      nsp,
		offset:   offset,
		length:   length,
		children: children,
	}
	v.nullCount.Store(int64(nullCount))
	return v, nil
}

func (v *View) Typ() types.Type {
	return v.typ
}

func (v *View) Length() int {
	return v.length
}

func (v *View) Offset() int {
	return v.offset
}

func (v *View) Children() []*View {
	return v.children
}

// Nullable reports whether the view carries a null mask at all.
func (v *View) Nullable() bool {
	return v.nsp != nil && v.nsp.Np != nil
}

// IsNull reports whether row i of the window is null.
func (v *View) IsNull(i int) bool {
	if v.typ.Oid == types.T_empty {
		return true
	}
	return nulls.Contains(v.nsp, uint64(v.offset+i))
}

// NullCount returns the cached null count, computing it from the mask on
// first use.  Racing callers recompute the same value; the cache write is a
// compare-and-swap so the result is stable.
func (v *View) NullCount() int {
	if c := v.nullCount.Load(); c != UnknownNullCount {
		return int(c)
	}
	cnt := nulls.CountRange(v.nsp, uint64(v.offset), uint64(v.offset+v.length))
	v.nullCount.CompareAndSwap(UnknownNullCount, int64(cnt))
	return cnt
}

// SetNullCount installs a externally known null count.  A positive count on
// a view without a mask is a contract violation.
func (v *View) SetNullCount(n int) error {
	if n < 0 || n > v.length {
		return vexerr.NewOutOfRange("null count %d out of [0, %d]", n, v.length)
	}
	if n > 0 && v.typ.Oid != types.T_empty && !v.Nullable() {
		return vexerr.NewInvalidState("cannot set %d nulls on a non-nullable column", n)
	}
	v.nullCount.Store(int64(n))
	return nil
}

// Slice returns a zero-copy window of length rows starting at offset,
// relative to this view.  The underlying buffers are shared; the null mask
// is dropped when the result is empty.
func (v *View) Slice(offset, length int) (*View, error) {
	if offset < 0 {
		return nil, vexerr.NewOutOfRange("slice offset cannot be negative, got %d", offset)
	}
	if length < 0 {
		return nil, vexerr.NewOutOfRange("slice size cannot be negative, got %d", length)
	}
	if offset+length > v.length {
		return nil, vexerr.NewOutOfRange("slice [%d, %d) exceeds column size %d", offset, offset+length, v.length)
	}
	nv := &View{
		typ:      v.typ,
		data:     v.data,
		nsp:      v.nsp,
		offset:   v.offset + offset,
		length:   length,
		children: v.children,
	}
	switch {
	case length == 0:
		nv.nsp = nil
		nv.nullCount.Store(0)
	case v.typ.Oid == types.T_empty:
		nv.nullCount.Store(int64(length))
	case !v.Nullable() || v.nullCount.Load() == 0:
		nv.nullCount.Store(0)
	default:
		nv.nullCount.Store(UnknownNullCount)
	}
	return nv, nil
}

// ViewFixedCol exposes the window as a typed slice.
func ViewFixedCol[T types.FixedSizeT](v *View) []T {
	if v.length == 0 {
		return nil
	}
	return types.DecodeSlice[T](v.data)[v.offset : v.offset+v.length]
}

// UnsafeGetRawData returns the raw bytes of the window without copying.
func (v *View) UnsafeGetRawData() []byte {
	sz := v.typ.TypeSize()
	return v.data[v.offset*sz : (v.offset+v.length)*sz]
}

// GetBytes returns row i of a compound byte-string view.  Children are kept
// whole; the parent window alone decides which rows are addressable.
func (v *View) GetBytes(i int) []byte {
	offs := types.DecodeSlice[int32](v.children[0].data)
	data := v.children[1].data
	row := v.offset + i
	return data[offs[row]:offs[row+1]]
}
