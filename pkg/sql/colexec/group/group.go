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

// Package group implements hash-based grouping with aggregation: a build
// phase scattering rows into a concurrent table, an error-checked phase
// boundary, and an extract phase compacting the claimed slots.  The output
// row order is unspecified; callers wanting an order sort afterwards.
package group

import (
	"sync/atomic"

	"github.com/axiomhq/hyperloglog"
	"go.uber.org/zap"

	"github.com/vexdb/vex/pkg/common/vexerr"
	"github.com/vexdb/vex/pkg/container/hashtable"
	"github.com/vexdb/vex/pkg/container/vector"
	"github.com/vexdb/vex/pkg/logutil"
	"github.com/vexdb/vex/pkg/sql/colexec/agg"
	"github.com/vexdb/vex/pkg/vm/process"
)

// Groupby aggregates vals per distinct key and returns the distinct-keys
// column and the aggregate column, both of the discovered group count.
// Rows whose key or value is null are skipped.  The two output columns are
// row-aligned with each other and nothing else.
func Groupby(proc *process.Process, keys, vals *vector.View, kind agg.Kind) (*vector.Vector, *vector.Vector, error) {
	if keys == nil || vals == nil {
		return nil, nil, vexerr.NewInvalidInput("groupby: nil input column")
	}
	n := keys.Length()
	if n <= 0 {
		return nil, nil, vexerr.NewInvalidInput("groupby: empty input")
	}
	if vals.Length() != n {
		return nil, nil, vexerr.NewInvalidInput("groupby: key rows %d != value rows %d", n, vals.Length())
	}

	spec, err := agg.NewSpec(vals.Typ().Oid, kind)
	if err != nil {
		return nil, nil, err
	}
	kops, err := keyOpsOf(keys)
	if err != nil {
		return nil, nil, err
	}
	delta, err := deltaOf(vals, spec)
	if err != nil {
		return nil, nil, err
	}

	mp := proc.Mp()
	sized := n
	if proc.Config().EstimateCardinality {
		sized = estimateGroups(keys, kops, n)
	}
	ht, err := hashtable.NewAggMap(sized, proc.Config().HashTableOccupancy,
		kops.sentinel, spec.Identity, spec.Combine, mp)
	if err != nil {
		return nil, nil, err
	}

	// Build phase: one logical unit of work per input row.  Any lane
	// error fails the whole operation; the partially built table is
	// discarded, never extracted.
	build := func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			if keys.IsNull(i) || vals.IsNull(i) {
				continue
			}
			kb := kops.at(i)
			if kb == kops.sentinel {
				return vexerr.NewInvalidInput(
					"groupby: key equals the reserved maximum of %s", keys.Typ())
			}
			ht.InsertOrCombine(kb, delta(i))
		}
		return nil
	}
	if err := proc.Parallel(n, process.DefaultUnit, build); err != nil {
		ht.Free(mp)
		return nil, nil, err
	}

	// The distinct-group count is unknown until the table is populated,
	// so outputs are sized for the worst case and truncated after
	// extraction.
	outKeys, err := vector.AllocVec(keys.Typ(), n, mp)
	if err != nil {
		ht.Free(mp)
		return nil, nil, err
	}
	outAggs, err := vector.AllocVec(spec.Target.ToType(), n, mp)
	if err != nil {
		outKeys.Free(mp)
		ht.Free(mp)
		return nil, nil, err
	}
	storeKey := kops.store(outKeys)
	storeAgg, err := storeOf(spec.Target, outAggs)
	if err != nil {
		outKeys.Free(mp)
		outAggs.Free(mp)
		ht.Free(mp)
		return nil, nil, err
	}

	var widx atomic.Int64
	extract := func(lo, hi int) error {
		ht.ExtractRange(lo, hi, &widx, func(row int64, k, v uint64) {
			storeKey(row, k)
			storeAgg(row, v)
		})
		return nil
	}
	if err := proc.Parallel(ht.Capacity(), process.DefaultUnit, extract); err != nil {
		outKeys.Free(mp)
		outAggs.Free(mp)
		ht.Free(mp)
		return nil, nil, err
	}

	groups := int(widx.Load())
	outKeys.SetLength(groups)
	outAggs.SetLength(groups)
	ht.Free(mp)

	logutil.Debug("groupby done",
		zap.Int("rows", n),
		zap.Int("groups", groups),
		zap.String("agg", spec.Kind.String()))
	return outKeys, outAggs, nil
}

// estimateGroups sizes the table from a distinct-key sketch instead of the
// row count.  The 10% margin on top of the occupancy headroom keeps the
// capacity above the true distinct count despite sketch error.
func estimateGroups(keys *vector.View, kops *keyOps, n int) int {
	sketch := hyperloglog.New16()
	var b [8]byte
	for i := 0; i < n; i++ {
		if keys.IsNull(i) {
			continue
		}
		w := kops.at(i)
		b[0] = byte(w)
		b[1] = byte(w >> 8)
		b[2] = byte(w >> 16)
		b[3] = byte(w >> 24)
		b[4] = byte(w >> 32)
		b[5] = byte(w >> 40)
		b[6] = byte(w >> 48)
		b[7] = byte(w >> 56)
		sketch.Insert(b[:])
	}
	est := int(sketch.Estimate())
	est += est/10 + 16
	if est > n {
		est = n
	}
	if est < 1 {
		est = 1
	}
	return est
}
