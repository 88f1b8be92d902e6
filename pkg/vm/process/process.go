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

// Package process carries the execution context threaded through every
// operator: the memory pool, the configuration and the lane pool that
// data-parallel phases fan out on.
package process

import (
	"context"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/vexdb/vex/pkg/common/mpool"
	"github.com/vexdb/vex/pkg/common/vexerr"
	"github.com/vexdb/vex/pkg/config"
)

// DefaultUnit is the number of rows one submitted task covers.
const DefaultUnit = 8192

type Process struct {
	Ctx  context.Context
	mp   *mpool.MPool
	cfg  *config.Config
	pool *ants.Pool
}

func New(ctx context.Context, mp *mpool.MPool, cfg *config.Config) (*Process, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pool, err := ants.NewPool(cfg.Parallelism)
	if err != nil {
		return nil, vexerr.NewInternal("lane pool: %v", err)
	}
	return &Process{Ctx: ctx, mp: mp, cfg: cfg, pool: pool}, nil
}

func (proc *Process) Mp() *mpool.MPool {
	return proc.mp
}

func (proc *Process) Config() *config.Config {
	return proc.cfg
}

func (proc *Process) Close() {
	proc.pool.Release()
}

// Parallel fans fn out over [0, n) in units of unit rows and waits for every
// task.  The first task error is returned; later errors are dropped.  A task
// that could not be submitted counts as a launch failure.
func (proc *Process) Parallel(n, unit int, fn func(lo, hi int) error) error {
	if n <= 0 {
		return nil
	}
	if unit <= 0 {
		unit = DefaultUnit
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	record := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	for lo := 0; lo < n; lo += unit {
		lo, hi := lo, lo+unit
		if hi > n {
			hi = n
		}
		wg.Add(1)
		err := proc.pool.Submit(func() {
			defer wg.Done()
			if err := fn(lo, hi); err != nil {
				record(err)
			}
		})
		if err != nil {
			wg.Done()
			record(vexerr.NewExecFailed("lane submit: %v", err))
			break
		}
	}
	wg.Wait()
	return firstErr
}
