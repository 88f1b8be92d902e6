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

package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypeSizes(t *testing.T) {
	require.Equal(t, 0, T_empty.ToType().TypeSize())
	require.Equal(t, 1, T_bool.ToType().TypeSize())
	require.Equal(t, 1, T_int8.ToType().TypeSize())
	require.Equal(t, 2, T_int16.ToType().TypeSize())
	require.Equal(t, 4, T_int32.ToType().TypeSize())
	require.Equal(t, 8, T_int64.ToType().TypeSize())
	require.Equal(t, 1, T_uint8.ToType().TypeSize())
	require.Equal(t, 2, T_uint16.ToType().TypeSize())
	require.Equal(t, 4, T_uint32.ToType().TypeSize())
	require.Equal(t, 8, T_uint64.ToType().TypeSize())
	require.Equal(t, 4, T_float32.ToType().TypeSize())
	require.Equal(t, 8, T_float64.ToType().TypeSize())
	require.Equal(t, 0, T_char.ToType().TypeSize())
	require.Equal(t, 0, T_varchar.ToType().TypeSize())
}

func TestTypePredicates(t *testing.T) {
	require.True(t, T_char.IsCompound())
	require.True(t, T_varchar.IsCompound())
	require.False(t, T_int32.IsCompound())
	require.False(t, T_empty.IsCompound())

	require.False(t, T_empty.IsFixedLen())
	require.False(t, T_varchar.IsFixedLen())
	require.True(t, T_bool.IsFixedLen())
	require.True(t, T_float64.IsFixedLen())

	require.True(t, T_int8.IsSignedInt())
	require.False(t, T_uint8.IsSignedInt())
	require.True(t, T_uint64.IsUnsignedInt())
	require.True(t, T_int16.IsInteger())
	require.True(t, T_float32.IsFloat())
	require.True(t, T_uint32.IsNumeric())
	require.False(t, T_bool.IsNumeric())
	require.False(t, T_varchar.IsNumeric())
}

func TestStrings(t *testing.T) {
	require.Equal(t, "BIGINT", T_int64.String())
	require.Equal(t, "VARCHAR", T_varchar.ToType().String())
	require.Equal(t, "T(250)", T(250).String())
}

func TestEncodeDecodeSlice(t *testing.T) {
	src := []int32{1, -2, 3, 40000}
	raw := EncodeSlice(src)
	require.Equal(t, 16, len(raw))
	back := DecodeSlice[int32](raw)
	require.Equal(t, src, back)

	require.Nil(t, EncodeSlice[int64](nil))
	require.Nil(t, DecodeSlice[int64](nil))
}

func TestEncodeDecodeFixed(t *testing.T) {
	raw := EncodeFixed(int64(-77))
	require.Equal(t, 8, len(raw))
	require.Equal(t, int64(-77), DecodeFixed[int64](raw))

	f := EncodeFixed(float32(1.5))
	require.Equal(t, 4, len(f))
	require.Equal(t, float32(1.5), DecodeFixed[float32](f))
}
