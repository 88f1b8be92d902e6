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

package nulls

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNilIsNoNulls(t *testing.T) {
	var nsp *Nulls
	require.False(t, Any(nsp))
	require.False(t, Contains(nsp, 0))
	require.Equal(t, 0, Length(nsp))
	require.Equal(t, 0, CountRange(nsp, 0, 100))
	require.Nil(t, nsp.ToArray())
	require.Nil(t, nsp.Clone())
}

func TestBuildAndContains(t *testing.T) {
	nsp := Build(10, 1, 4, 7)
	require.True(t, Any(nsp))
	require.True(t, Contains(nsp, 1))
	require.True(t, Contains(nsp, 4))
	require.True(t, Contains(nsp, 7))
	require.False(t, Contains(nsp, 0))
	require.False(t, Contains(nsp, 9))
	require.Equal(t, 3, Length(nsp))
	require.Equal(t, []uint64{1, 4, 7}, nsp.ToArray())
}

func TestAddDel(t *testing.T) {
	nsp := NewWithSize(4)
	Add(nsp, 2, 9)
	require.True(t, Contains(nsp, 2))
	require.True(t, Contains(nsp, 9))

	Del(nsp, 2)
	require.False(t, Contains(nsp, 2))
	require.True(t, Contains(nsp, 9))
	require.Equal(t, 1, Length(nsp))
}

func TestCountRange(t *testing.T) {
	nsp := Build(16, 0, 3, 5, 10, 15)
	require.Equal(t, 5, CountRange(nsp, 0, 16))
	require.Equal(t, 2, CountRange(nsp, 1, 6))
	require.Equal(t, 0, CountRange(nsp, 6, 10))
	require.Equal(t, 1, CountRange(nsp, 15, 16))
}

func TestAddRange(t *testing.T) {
	nsp := NewWithSize(8)
	AddRange(nsp, 2, 6)
	require.Equal(t, 4, Length(nsp))
	require.True(t, Contains(nsp, 2))
	require.True(t, Contains(nsp, 5))
	require.False(t, Contains(nsp, 6))
}

func TestSetUnion(t *testing.T) {
	a := Build(8, 1, 2)
	b := Build(8, 2, 5)
	Set(a, b)
	require.Equal(t, []uint64{1, 2, 5}, a.ToArray())

	// union with an empty set is a no-op
	Set(a, &Nulls{})
	require.Equal(t, []uint64{1, 2, 5}, a.ToArray())
}

func TestIsSame(t *testing.T) {
	a := Build(8, 1, 2)
	b := Build(8, 1, 2)
	require.True(t, a.IsSame(b))

	Del(b, 2)
	require.False(t, a.IsSame(b))

	var nilSet *Nulls
	require.True(t, nilSet.IsSame(nil))
	require.True(t, nilSet.IsSame(NewWithSize(8)))
}

func TestShowRead(t *testing.T) {
	a := Build(64, 0, 31, 63)
	data := a.Show()
	require.NotEmpty(t, data)

	var b Nulls
	b.Read(data)
	require.True(t, a.IsSame(&b))

	var empty Nulls
	empty.Read(nil)
	require.False(t, Any(&empty))
}
