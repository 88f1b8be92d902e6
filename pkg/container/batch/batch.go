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

// Package batch bundles same-length columns into a table.
package batch

import (
	"github.com/vexdb/vex/pkg/common/mpool"
	"github.com/vexdb/vex/pkg/common/vexerr"
	"github.com/vexdb/vex/pkg/container/vector"
)

// Batch is an ordered collection of columns sharing one row count.
type Batch struct {
	Attrs []string
	Vecs  []*vector.Vector
}

func New(attrs []string) *Batch {
	return &Batch{
		Attrs: attrs,
		Vecs:  make([]*vector.Vector, len(attrs)),
	}
}

func NewWithSize(n int) *Batch {
	return &Batch{Vecs: make([]*vector.Vector, n)}
}

func (bat *Batch) SetVector(i int, vec *vector.Vector) {
	bat.Vecs[i] = vec
}

func (bat *Batch) GetVector(i int) *vector.Vector {
	return bat.Vecs[i]
}

// RowCount returns the shared row count, 0 for a columnless batch.
func (bat *Batch) RowCount() int {
	if len(bat.Vecs) == 0 {
		return 0
	}
	return bat.Vecs[0].Length()
}

// SanityCheck verifies the one invariant a table has: every column carries
// the same number of rows.
func (bat *Batch) SanityCheck() error {
	for i, vec := range bat.Vecs {
		if vec == nil {
			return vexerr.NewInvalidState("batch column %d is nil", i)
		}
		if vec.Length() != bat.RowCount() {
			return vexerr.NewInvalidState("batch column %d has %d rows, want %d",
				i, vec.Length(), bat.RowCount())
		}
	}
	return nil
}

// Views returns the non-owning table view passed to multi-column operators.
func (bat *Batch) Views() []*vector.View {
	views := make([]*vector.View, len(bat.Vecs))
	for i, vec := range bat.Vecs {
		views[i] = vec.View()
	}
	return views
}

// Clean frees every column exactly once.
func (bat *Batch) Clean(mp *mpool.MPool) {
	for _, vec := range bat.Vecs {
		vec.Free(mp)
	}
	bat.Vecs = nil
	bat.Attrs = nil
}
