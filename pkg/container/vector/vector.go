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

// Package vector implements the column model: an owning Vector holding the
// value buffer, the null set and any child columns, and a non-owning View
// giving zero-copy, sliceable access to it.
package vector

import (
	"bytes"

	"github.com/vexdb/vex/pkg/common/mpool"
	"github.com/vexdb/vex/pkg/common/vexerr"
	"github.com/vexdb/vex/pkg/compress"
	"github.com/vexdb/vex/pkg/container/nulls"
	"github.com/vexdb/vex/pkg/container/types"
)

// Vector is the owning column.  It is the only entity that allocates and
// frees value memory; everything downstream works on Views.
type Vector struct {
	typ      types.Type
	data     []byte
	nsp      *nulls.Nulls
	children []*Vector
	length   int
}

func NewVec(typ types.Type) *Vector {
	return &Vector{typ: typ, nsp: &nulls.Nulls{}}
}

// AllocVec materializes an uninitialized fixed-width column of n rows.
// For the empty type it carries no buffers and every row is null.
func AllocVec(typ types.Type, n int, mp *mpool.MPool) (*Vector, error) {
	if n < 0 {
		return nil, vexerr.NewInvalidInput("vector size cannot be negative, got %d", n)
	}
	if typ.Oid == types.T_empty {
		return &Vector{typ: typ, length: n}, nil
	}
	if typ.Oid.IsCompound() {
		return nil, vexerr.NewInvalidInput("compound type %s carries no value buffer, build it from children", typ)
	}
	v := NewVec(typ)
	if n > 0 {
		data, err := mp.Alloc(n * typ.TypeSize())
		if err != nil {
			return nil, err
		}
		v.data = data
	}
	v.length = n
	return v, nil
}

// NewVecFromFixed materializes a fixed-width column from a typed slice.
func NewVecFromFixed[T types.FixedSizeT](typ types.Type, vals []T, mp *mpool.MPool) (*Vector, error) {
	if !typ.Oid.IsFixedLen() {
		return nil, vexerr.NewInvalidInput("type %s is not fixed width", typ)
	}
	v, err := AllocVec(typ, len(vals), mp)
	if err != nil {
		return nil, err
	}
	copy(v.data, types.EncodeSlice(vals))
	return v, nil
}

// NewBytesVec materializes a compound byte-string column.  The parent holds
// no value buffer; values live in an offsets child and a data child.
func NewBytesVec(typ types.Type, vals [][]byte, nsp *nulls.Nulls, mp *mpool.MPool) (*Vector, error) {
	if !typ.Oid.IsCompound() {
		return nil, vexerr.NewInvalidInput("type %s is not compound", typ)
	}
	n := len(vals)
	offs := make([]int32, n+1)
	var total int32
	for i, b := range vals {
		offs[i] = total
		total += int32(len(b))
	}
	offs[n] = total
	offVec, err := NewVecFromFixed(types.T_int32.ToType(), offs, mp)
	if err != nil {
		return nil, err
	}
	datVec, err := AllocVec(types.T_uint8.ToType(), int(total), mp)
	if err != nil {
		offVec.Free(mp)
		return nil, err
	}
	var pos int
	for _, b := range vals {
		pos += copy(datVec.data[pos:], b)
	}
	v := NewVec(typ)
	v.length = n
	v.children = []*Vector{offVec, datVec}
	if nsp != nil {
		v.nsp = nsp
	}
	return v, nil
}

func (v *Vector) Length() int {
	return v.length
}

// SetLength truncates or extends the logical row count; the allocation is
// untouched.
func (v *Vector) SetLength(n int) {
	v.length = n
}

func (v *Vector) GetType() types.Type {
	return v.typ
}

func (v *Vector) GetNulls() *nulls.Nulls {
	return v.nsp
}

func (v *Vector) SetNulls(nsp *nulls.Nulls) {
	v.nsp = nsp
}

func (v *Vector) Children() []*Vector {
	return v.children
}

// NullCount returns the number of null rows.
func (v *Vector) NullCount() int {
	if v.typ.Oid == types.T_empty {
		return v.length
	}
	return nulls.Length(v.nsp)
}

// MustFixedCol exposes the value buffer as a typed slice of the logical
// length.  It panics on a non fixed-width vector, as the name warns.
func MustFixedCol[T types.FixedSizeT](v *Vector) []T {
	if v.length == 0 {
		return nil
	}
	return types.DecodeSlice[T](v.data)[:v.length]
}

// GetBytes returns row i of a compound byte-string column.
func (v *Vector) GetBytes(i int) []byte {
	offs := MustFixedCol[int32](v.children[0])
	data := v.children[1].data
	return data[offs[i]:offs[i+1]]
}

// Free releases the value buffer and recursively the children.  Buffers are
// released exactly once; calling Free again is a no-op.
func (v *Vector) Free(mp *mpool.MPool) {
	if v == nil {
		return
	}
	for _, child := range v.children {
		child.Free(mp)
	}
	v.children = nil
	mp.Free(v.data)
	v.data = nil
	v.nsp = nil
	v.length = 0
}

// View returns a non-owning descriptor over the whole vector.  The view is
// valid only while the vector is alive.
func (v *Vector) View() *View {
	nv := &View{
		typ:    v.typ,
		data:   v.data,
		nsp:    v.nsp,
		length: v.length,
	}
	if v.typ.Oid == types.T_empty {
		nv.nullCount.Store(int64(v.length))
	} else {
		nv.nullCount.Store(int64(nulls.Length(v.nsp)))
	}
	for _, child := range v.children {
		nv.children = append(nv.children, child.View())
	}
	return nv
}

func (v *Vector) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	length := int64(v.length)
	buf.Write(types.EncodeInt64(&length))
	buf.Write(types.EncodeType(&v.typ))
	nspData := v.nsp.Show()
	nspLen := uint32(len(nspData))
	buf.Write(types.EncodeUint32(&nspLen))
	buf.Write(nspData)
	dataLen := uint32(len(v.data))
	buf.Write(types.EncodeUint32(&dataLen))
	buf.Write(v.data)
	nchild := uint32(len(v.children))
	buf.Write(types.EncodeUint32(&nchild))
	for _, child := range v.children {
		cd, err := child.MarshalBinary()
		if err != nil {
			return nil, err
		}
		cl := uint32(len(cd))
		buf.Write(types.EncodeUint32(&cl))
		buf.Write(cd)
	}
	return buf.Bytes(), nil
}

func (v *Vector) UnmarshalBinary(data []byte, mp *mpool.MPool) error {
	v.length = int(types.DecodeInt64(data[:8]))
	data = data[8:]
	v.typ = types.DecodeType(data[:types.TSize])
	data = data[types.TSize:]
	nspLen := types.DecodeUint32(data[:4])
	data = data[4:]
	v.nsp = &nulls.Nulls{}
	if nspLen > 0 {
		v.nsp.Read(data[:nspLen])
		data = data[nspLen:]
	}
	dataLen := types.DecodeUint32(data[:4])
	data = data[4:]
	if dataLen > 0 {
		buf, err := mp.Alloc(int(dataLen))
		if err != nil {
			return err
		}
		copy(buf, data[:dataLen])
		v.data = buf
		data = data[dataLen:]
	}
	nchild := types.DecodeUint32(data[:4])
	data = data[4:]
	for i := uint32(0); i < nchild; i++ {
		cl := types.DecodeUint32(data[:4])
		data = data[4:]
		child := &Vector{}
		if err := child.UnmarshalBinary(data[:cl], mp); err != nil {
			return err
		}
		v.children = append(v.children, child)
		data = data[cl:]
	}
	return nil
}

// MarshalCompressed is the interchange form: an lz4 block prefixed with the
// uncompressed length.  Incompressible vectors fall back to a raw block.
func (v *Vector) MarshalCompressed() ([]byte, error) {
	raw, err := v.MarshalBinary()
	if err != nil {
		return nil, err
	}
	rawLen := uint32(len(raw))
	alg := uint32(compress.Lz4)
	dst := make([]byte, compress.Bound(len(raw), compress.Lz4))
	blk, err := compress.Compress(raw, dst, compress.Lz4)
	if err != nil || len(blk) >= len(raw) {
		alg = uint32(compress.None)
		blk = raw
	}
	var buf bytes.Buffer
	buf.Write(types.EncodeUint32(&rawLen))
	buf.Write(types.EncodeUint32(&alg))
	buf.Write(blk)
	return buf.Bytes(), nil
}

func (v *Vector) UnmarshalCompressed(data []byte, mp *mpool.MPool) error {
	if len(data) < 8 {
		return vexerr.NewInvalidInput("compressed vector block too short: %d bytes", len(data))
	}
	rawLen := types.DecodeUint32(data[:4])
	alg := types.DecodeUint32(data[4:8])
	raw, err := compress.Decompress(data[8:], make([]byte, rawLen), int(alg))
	if err != nil {
		return err
	}
	return v.UnmarshalBinary(raw, mp)
}
