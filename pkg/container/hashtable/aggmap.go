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

// Package hashtable implements the concurrent grouping table: a fixed
// capacity, open-addressing slot array over pool memory.  Keys are claimed
// with compare-and-swap against a sentinel word, values are combined with
// the aggregation operator's atomic primitive.  No locks anywhere.
package hashtable

import (
	"sync/atomic"

	"github.com/vexdb/vex/pkg/common/mpool"
	"github.com/vexdb/vex/pkg/common/vexerr"
	"github.com/vexdb/vex/pkg/container/types"
)

// DefaultOccupancy targets 50% load: capacity is twice the expected
// distinct-key count.
const DefaultOccupancy = 50

const minCapacity = 64

// CombineFn folds a delta word into a slot word atomically.  It must be
// associative and commutative so any interleaving of combines yields the
// same final value.
type CombineFn func(slot *uint64, delta uint64)

// AggMap is the concurrent grouping table.  Capacity is fixed at
// construction; sizing for the actual distinct-key count is the caller's
// responsibility.
type AggMap struct {
	rawKeys []byte
	rawVals []byte
	keys    []uint64
	vals    []uint64

	mask     uint64
	empty    uint64
	identity uint64
	combine  CombineFn
}

// NewAggMap builds a table sized for rows input rows at the given occupancy
// percentage (0 means DefaultOccupancy).  Every slot starts with the empty
// key sentinel and the operator's identity value.
func NewAggMap(rows, occupancy int, empty, identity uint64, combine CombineFn, mp *mpool.MPool) (*AggMap, error) {
	if rows <= 0 {
		return nil, vexerr.NewInvalidInput("hash table sized for %d rows", rows)
	}
	if occupancy == 0 {
		occupancy = DefaultOccupancy
	}
	if occupancy < 0 || occupancy > 100 {
		return nil, vexerr.NewInvalidInput("hash table occupancy %d out of (0, 100]", occupancy)
	}
	want := uint64(rows) * 100 / uint64(occupancy)
	capacity := uint64(minCapacity)
	for capacity < want {
		capacity <<= 1
	}

	ht := &AggMap{
		mask:     capacity - 1,
		empty:    empty,
		identity: identity,
		combine:  combine,
	}
	var err error
	if ht.rawKeys, err = mp.Alloc(int(capacity) * 8); err != nil {
		return nil, err
	}
	if ht.rawVals, err = mp.Alloc(int(capacity) * 8); err != nil {
		mp.Free(ht.rawKeys)
		return nil, err
	}
	ht.keys = types.DecodeSlice[uint64](ht.rawKeys)
	ht.vals = types.DecodeSlice[uint64](ht.rawVals)
	for i := range ht.keys {
		ht.keys[i] = empty
		ht.vals[i] = identity
	}
	return ht, nil
}

func (ht *AggMap) Capacity() int {
	return len(ht.keys)
}

// InsertOrCombine folds delta into the slot owned by key, claiming an empty
// slot on the way if the key is new.  Safe for any number of concurrent
// callers.  Probing is linear; with correct caller sizing an empty or
// matching slot always exists.
func (ht *AggMap) InsertOrCombine(key, delta uint64) {
	idx := HashBits(key) & ht.mask
	for {
		k := atomic.LoadUint64(&ht.keys[idx])
		if k == key {
			ht.combine(&ht.vals[idx], delta)
			return
		}
		if k == ht.empty {
			if atomic.CompareAndSwapUint64(&ht.keys[idx], ht.empty, key) {
				ht.combine(&ht.vals[idx], delta)
				return
			}
			// Lost the claim; if the winner installed our key the
			// slot still matches.
			if atomic.LoadUint64(&ht.keys[idx]) == key {
				ht.combine(&ht.vals[idx], delta)
				return
			}
		}
		idx = (idx + 1) & ht.mask
	}
}

// ExtractRange scans slots [lo, hi) and emits every claimed slot at a
// position drawn from the shared write index.  Callers split the full
// [0, Capacity()) range between lanes; emitted row order is unspecified.
func (ht *AggMap) ExtractRange(lo, hi int, widx *atomic.Int64, emit func(row int64, key, val uint64)) {
	for i := lo; i < hi; i++ {
		key := atomic.LoadUint64(&ht.keys[i])
		if key == ht.empty {
			continue
		}
		row := widx.Add(1) - 1
		emit(row, key, atomic.LoadUint64(&ht.vals[i]))
	}
}

// Free releases the slot arrays.  The map must not be used afterwards.
func (ht *AggMap) Free(mp *mpool.MPool) {
	if ht == nil {
		return
	}
	mp.Free(ht.rawKeys)
	mp.Free(ht.rawVals)
	ht.rawKeys, ht.rawVals = nil, nil
	ht.keys, ht.vals = nil, nil
}
