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

// Package mpool is the engine's explicit memory pool.  Every component that
// materializes column data takes an *MPool; there is no ambient default pool,
// so allocation behavior is deterministic and accountable per engine instance.
package mpool

import (
	"sync/atomic"

	"github.com/vexdb/vex/pkg/common/vexerr"
)

const (
	KB int64 = 1 << 10
	MB int64 = 1 << 20
	GB int64 = 1 << 30
)

// NoFixed means no cap: the pool accounts but never refuses.
const NoFixed int64 = 0

type MPool struct {
	name string
	cap  int64

	currNB  atomic.Int64
	highNB  atomic.Int64
	numGo   atomic.Int64
	numFree atomic.Int64
}

func NewMPool(name string, cap int64) (*MPool, error) {
	if cap < 0 {
		return nil, vexerr.NewInvalidInput("mpool %s: negative cap %d", name, cap)
	}
	return &MPool{name: name, cap: cap}, nil
}

// MustNewZero returns an uncapped pool, mostly for tests.
func MustNewZero() *MPool {
	m, err := NewMPool("zero", NoFixed)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *MPool) Name() string {
	return m.name
}

func (m *MPool) Cap() int64 {
	return m.cap
}

// CurrNB returns the number of bytes currently held out of the pool.
func (m *MPool) CurrNB() int64 {
	return m.currNB.Load()
}

// HighWaterMark returns the largest number of bytes ever held at once.
func (m *MPool) HighWaterMark() int64 {
	return m.highNB.Load()
}

func (m *MPool) Alloc(sz int) ([]byte, error) {
	if sz < 0 {
		return nil, vexerr.NewInvalidInput("mpool %s: negative alloc size %d", m.name, sz)
	}
	if sz == 0 {
		return nil, nil
	}
	curr := m.currNB.Add(int64(sz))
	if m.cap != NoFixed && curr > m.cap {
		m.currNB.Add(-int64(sz))
		return nil, vexerr.NewOOM("mpool %s: alloc %d bytes exceeds cap %d", m.name, sz, m.cap)
	}
	for {
		high := m.highNB.Load()
		if curr <= high || m.highNB.CompareAndSwap(high, curr) {
			break
		}
	}
	m.numGo.Add(1)
	return make([]byte, sz), nil
}

// Free returns a buffer obtained from Alloc.  Freeing nil is a no-op;
// accounting is by capacity, so the caller must hand back the original slice.
func (m *MPool) Free(buf []byte) {
	if buf == nil {
		return
	}
	m.currNB.Add(-int64(cap(buf)))
	m.numFree.Add(1)
}

// Grow reallocates buf to at least sz bytes, keeping its contents.
func (m *MPool) Grow(buf []byte, sz int) ([]byte, error) {
	if sz <= cap(buf) {
		return buf[:sz], nil
	}
	nb, err := m.Alloc(sz)
	if err != nil {
		return nil, err
	}
	copy(nb, buf)
	m.Free(buf)
	return nb, nil
}
