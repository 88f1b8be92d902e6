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

package process

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vexdb/vex/pkg/common/mpool"
	"github.com/vexdb/vex/pkg/common/vexerr"
	"github.com/vexdb/vex/pkg/config"
)

func newProc(t *testing.T) *Process {
	t.Helper()
	proc, err := New(context.Background(), mpool.MustNewZero(), config.Default())
	require.NoError(t, err)
	t.Cleanup(proc.Close)
	return proc
}

func TestNewValidatesConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Parallelism = -1
	_, err := New(context.Background(), mpool.MustNewZero(), cfg)
	require.True(t, vexerr.IsErrCode(err, vexerr.ErrInvalidInput))

	// nil config falls back to defaults
	proc, err := New(context.Background(), mpool.MustNewZero(), nil)
	require.NoError(t, err)
	require.NotNil(t, proc.Config())
	proc.Close()
}

func TestParallelCoversRange(t *testing.T) {
	proc := newProc(t)

	const n = 100000
	marks := make([]int32, n)
	err := proc.Parallel(n, 1024, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			atomic.AddInt32(&marks[i], 1)
		}
		return nil
	})
	require.NoError(t, err)
	// every row visited exactly once
	for i, m := range marks {
		require.Equal(t, int32(1), m, "row %d", i)
	}
}

func TestParallelZeroRows(t *testing.T) {
	proc := newProc(t)
	called := false
	require.NoError(t, proc.Parallel(0, 16, func(lo, hi int) error {
		called = true
		return nil
	}))
	require.False(t, called)
}

func TestParallelDefaultUnit(t *testing.T) {
	proc := newProc(t)
	var total atomic.Int64
	require.NoError(t, proc.Parallel(DefaultUnit*2+1, 0, func(lo, hi int) error {
		total.Add(int64(hi - lo))
		return nil
	}))
	require.Equal(t, int64(DefaultUnit*2+1), total.Load())
}

func TestParallelFirstError(t *testing.T) {
	proc := newProc(t)
	err := proc.Parallel(100000, 128, func(lo, hi int) error {
		if lo >= 50000 {
			return vexerr.NewInvalidInput("bad lane at %d", lo)
		}
		return nil
	})
	require.Error(t, err)
	require.True(t, vexerr.IsErrCode(err, vexerr.ErrInvalidInput))
}
