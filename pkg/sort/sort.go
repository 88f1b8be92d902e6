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

// Package sort produces permutation indices ordering a table's rows by its
// columns, first column primary, later columns breaking ties.
package sort

import (
	stdsort "sort"

	"github.com/vexdb/vex/pkg/common/vexerr"
	"github.com/vexdb/vex/pkg/compare"
	"github.com/vexdb/vex/pkg/container/types"
	"github.com/vexdb/vex/pkg/container/vector"
)

type Direction uint8

const (
	Ascending Direction = iota
	Descending
)

type NullOrdering uint8

const (
	// NullsSmallest ranks a null below every non-null value of its column.
	NullsSmallest NullOrdering = iota
	// NullsLargest ranks a null above every non-null value of its column.
	NullsLargest
	// NullsLargestMultiSort forces any row holding a null in any sort key
	// to rank as the largest possible row.  Incompatible with an explicit
	// direction list.
	NullsLargestMultiSort
)

// OrderBy fills result with a permutation of [0, rows) ordering the table.
// A nil directions list means all ascending.  result must be an int64
// column of exactly the table's row count.
func OrderBy(cols []*vector.View, directions []Direction, ordering NullOrdering, result *vector.Vector) error {
	if len(cols) == 0 {
		return vexerr.NewInvalidInput("order by: no sort columns")
	}
	rows := cols[0].Length()
	for i, col := range cols {
		if col == nil {
			return vexerr.NewInvalidInput("order by: column %d is nil", i)
		}
		if col.Length() != rows {
			return vexerr.NewInvalidInput("order by: column %d has %d rows, want %d", i, col.Length(), rows)
		}
	}
	if directions != nil && len(directions) != len(cols) {
		return vexerr.NewInvalidInput("order by: %d directions for %d columns", len(directions), len(cols))
	}
	if ordering == NullsLargestMultiSort && directions != nil {
		return vexerr.NewInvalidInput("order by: per-column directions are incompatible with the multi-sort null ordering")
	}
	if result == nil || result.GetType().Oid != types.T_int64 {
		return vexerr.NewInvalidInput("order by: result column must be %s", types.T_int64)
	}
	if result.Length() != rows {
		return vexerr.NewInvalidInput("order by: result has %d rows, want %d", result.Length(), rows)
	}

	cmps := make([]compare.Compare, len(cols))
	for i, col := range cols {
		desc := directions != nil && directions[i] == Descending
		c, err := compare.New(col, desc, ordering == NullsSmallest)
		if err != nil {
			return err
		}
		cmps[i] = c
	}

	// The multi-sort mode ranks whole rows by null presence before any
	// column value is consulted.
	var rowNull []bool
	if ordering == NullsLargestMultiSort {
		rowNull = make([]bool, rows)
		for _, col := range cols {
			if col.NullCount() == 0 {
				continue
			}
			for i := 0; i < rows; i++ {
				if col.IsNull(i) {
					rowNull[i] = true
				}
			}
		}
	}

	perm := vector.MustFixedCol[int64](result)
	for i := range perm {
		perm[i] = int64(i)
	}
	stdsort.Slice(perm, func(i, j int) bool {
		a, b := perm[i], perm[j]
		if rowNull != nil && rowNull[a] != rowNull[b] {
			return rowNull[b]
		}
		for _, c := range cmps {
			if r := c.Compare(a, b); r != 0 {
				return r < 0
			}
		}
		return false
	})
	return nil
}
