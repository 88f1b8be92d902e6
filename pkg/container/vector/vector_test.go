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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vexdb/vex/pkg/common/mpool"
	"github.com/vexdb/vex/pkg/common/vexerr"
	"github.com/vexdb/vex/pkg/container/nulls"
	"github.com/vexdb/vex/pkg/container/types"
)

func TestAllocVec(t *testing.T) {
	mp := mpool.MustNewZero()
	v, err := AllocVec(types.T_int64.ToType(), 100, mp)
	require.NoError(t, err)
	require.Equal(t, 100, v.Length())
	require.Equal(t, int64(800), mp.CurrNB())

	v.Free(mp)
	require.Equal(t, int64(0), mp.CurrNB())

	// freeing twice is a no-op
	v.Free(mp)
	require.Equal(t, int64(0), mp.CurrNB())
}

func TestAllocVecErrors(t *testing.T) {
	mp := mpool.MustNewZero()
	_, err := AllocVec(types.T_int32.ToType(), -1, mp)
	require.True(t, vexerr.IsErrCode(err, vexerr.ErrInvalidInput))

	_, err = AllocVec(types.T_varchar.ToType(), 4, mp)
	require.True(t, vexerr.IsErrCode(err, vexerr.ErrInvalidInput))
}

func TestEmptyTypeVec(t *testing.T) {
	mp := mpool.MustNewZero()
	v, err := AllocVec(types.T_empty.ToType(), 5, mp)
	require.NoError(t, err)
	require.Equal(t, 5, v.Length())
	require.Equal(t, 5, v.NullCount())
	require.Equal(t, int64(0), mp.CurrNB())

	view := v.View()
	require.Equal(t, 5, view.NullCount())
	require.True(t, view.IsNull(0))
	require.True(t, view.IsNull(4))
	v.Free(mp)
}

func TestNewVecFromFixed(t *testing.T) {
	mp := mpool.MustNewZero()
	v, err := NewVecFromFixed(types.T_int32.ToType(), []int32{7, -1, 42}, mp)
	require.NoError(t, err)
	require.Equal(t, []int32{7, -1, 42}, MustFixedCol[int32](v))
	require.Equal(t, 0, v.NullCount())
	v.Free(mp)

	_, err = NewVecFromFixed(types.T_varchar.ToType(), []int32{1}, mp)
	require.True(t, vexerr.IsErrCode(err, vexerr.ErrInvalidInput))
	require.Equal(t, int64(0), mp.CurrNB())
}

func TestBytesVec(t *testing.T) {
	mp := mpool.MustNewZero()
	vals := [][]byte{[]byte("hello"), []byte(""), []byte("vex")}
	v, err := NewBytesVec(types.T_varchar.ToType(), vals, nulls.Build(3, 1), mp)
	require.NoError(t, err)
	require.Equal(t, 3, v.Length())
	require.Equal(t, 1, v.NullCount())
	require.Equal(t, "hello", string(v.GetBytes(0)))
	require.Equal(t, "", string(v.GetBytes(1)))
	require.Equal(t, "vex", string(v.GetBytes(2)))

	// parent holds no value buffer, values live in the two children
	require.Len(t, v.Children(), 2)

	view := v.View()
	require.Equal(t, "vex", string(view.GetBytes(2)))
	require.Equal(t, 1, view.NullCount())

	v.Free(mp)
	require.Equal(t, int64(0), mp.CurrNB())
}

func TestNullCountWithMask(t *testing.T) {
	mp := mpool.MustNewZero()
	v, err := NewVecFromFixed(types.T_int64.ToType(), []int64{1, 2, 3, 4}, mp)
	require.NoError(t, err)
	v.SetNulls(nulls.Build(4, 0, 3))
	require.Equal(t, 2, v.NullCount())

	view := v.View()
	require.Equal(t, 2, view.NullCount())
	require.True(t, view.IsNull(0))
	require.False(t, view.IsNull(1))
	require.True(t, view.IsNull(3))
	v.Free(mp)
}

func TestMarshalRoundtrip(t *testing.T) {
	mp := mpool.MustNewZero()
	v, err := NewVecFromFixed(types.T_float64.ToType(), []float64{1.5, -2.25, 0}, mp)
	require.NoError(t, err)
	v.SetNulls(nulls.Build(3, 2))

	data, err := v.MarshalBinary()
	require.NoError(t, err)

	var w Vector
	require.NoError(t, w.UnmarshalBinary(data, mp))
	require.Equal(t, v.GetType(), w.GetType())
	require.Equal(t, v.Length(), w.Length())
	require.Equal(t, MustFixedCol[float64](v), MustFixedCol[float64](&w))
	require.True(t, v.GetNulls().IsSame(w.GetNulls()))

	v.Free(mp)
	w.Free(mp)
	require.Equal(t, int64(0), mp.CurrNB())
}

func TestMarshalRoundtripCompound(t *testing.T) {
	mp := mpool.MustNewZero()
	vals := [][]byte{[]byte("aa"), []byte("bbbb"), []byte("c")}
	v, err := NewBytesVec(types.T_char.ToType(), vals, nil, mp)
	require.NoError(t, err)

	data, err := v.MarshalBinary()
	require.NoError(t, err)

	var w Vector
	require.NoError(t, w.UnmarshalBinary(data, mp))
	require.Equal(t, 3, w.Length())
	require.Equal(t, "aa", string(w.GetBytes(0)))
	require.Equal(t, "bbbb", string(w.GetBytes(1)))
	require.Equal(t, "c", string(w.GetBytes(2)))

	v.Free(mp)
	w.Free(mp)
}

func TestMarshalCompressed(t *testing.T) {
	mp := mpool.MustNewZero()
	vals := make([]int64, 4096)
	for i := range vals {
		vals[i] = int64(i % 8)
	}
	v, err := NewVecFromFixed(types.T_int64.ToType(), vals, mp)
	require.NoError(t, err)

	blk, err := v.MarshalCompressed()
	require.NoError(t, err)
	raw, err := v.MarshalBinary()
	require.NoError(t, err)
	require.Less(t, len(blk), len(raw))

	var w Vector
	require.NoError(t, w.UnmarshalCompressed(blk, mp))
	require.Equal(t, vals, MustFixedCol[int64](&w))

	var bad Vector
	err = bad.UnmarshalCompressed([]byte{1, 2, 3}, mp)
	require.True(t, vexerr.IsErrCode(err, vexerr.ErrInvalidInput))

	v.Free(mp)
	w.Free(mp)
}
