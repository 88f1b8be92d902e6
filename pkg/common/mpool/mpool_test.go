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

package mpool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vexdb/vex/pkg/common/vexerr"
)

func TestAllocFree(t *testing.T) {
	mp, err := NewMPool("test", NoFixed)
	require.NoError(t, err)

	buf, err := mp.Alloc(1024)
	require.NoError(t, err)
	require.Equal(t, 1024, len(buf))
	require.Equal(t, int64(1024), mp.CurrNB())

	mp.Free(buf)
	require.Equal(t, int64(0), mp.CurrNB())
	require.Equal(t, int64(1024), mp.HighWaterMark())
}

func TestAllocZeroAndNegative(t *testing.T) {
	mp := MustNewZero()
	buf, err := mp.Alloc(0)
	require.NoError(t, err)
	require.Nil(t, buf)

	_, err = mp.Alloc(-1)
	require.True(t, vexerr.IsErrCode(err, vexerr.ErrInvalidInput))
}

func TestCap(t *testing.T) {
	mp, err := NewMPool("capped", 100)
	require.NoError(t, err)

	buf, err := mp.Alloc(64)
	require.NoError(t, err)

	_, err = mp.Alloc(64)
	require.True(t, vexerr.IsErrCode(err, vexerr.ErrOOM))
	// the failed alloc must not leak accounting
	require.Equal(t, int64(64), mp.CurrNB())

	mp.Free(buf)
	require.Equal(t, int64(0), mp.CurrNB())
}

func TestGrow(t *testing.T) {
	mp := MustNewZero()
	buf, err := mp.Alloc(8)
	require.NoError(t, err)
	copy(buf, "abcdefgh")

	buf, err = mp.Grow(buf, 32)
	require.NoError(t, err)
	require.Equal(t, 32, len(buf))
	require.Equal(t, "abcdefgh", string(buf[:8]))
	require.Equal(t, int64(32), mp.CurrNB())
	mp.Free(buf)
}

func TestConcurrentAccounting(t *testing.T) {
	mp := MustNewZero()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				buf, err := mp.Alloc(64)
				if err != nil {
					panic(err)
				}
				mp.Free(buf)
			}
		}()
	}
	wg.Wait()
	require.Equal(t, int64(0), mp.CurrNB())
}
