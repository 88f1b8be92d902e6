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

// Package nulls wraps the bitmap package into a column null set: a set bit
// means the row is null.  A nil Nulls (or a nil inner bitmap) is a column
// with no nulls at all.
package nulls

import (
	"github.com/vexdb/vex/pkg/common/bitmap"
)

type Nulls struct {
	Np *bitmap.Bitmap
}

func NewWithSize(size int) *Nulls {
	var bm bitmap.Bitmap
	bm.InitWithSize(int64(size))
	return &Nulls{Np: &bm}
}

// Build returns a null set of the given size with the listed rows null.
func Build(size int, rows ...uint64) *Nulls {
	nsp := NewWithSize(size)
	nsp.Np.AddMany(rows)
	return nsp
}

func (nsp *Nulls) Clone() *Nulls {
	if nsp == nil {
		return nil
	}
	return &Nulls{Np: nsp.Np.Clone()}
}

// Any returns true if any row is null.
func Any(nsp *Nulls) bool {
	if nsp == nil || nsp.Np == nil {
		return false
	}
	return !nsp.Np.IsEmpty()
}

// Contains returns true if the row is null.
func Contains(nsp *Nulls, row uint64) bool {
	return nsp != nil && nsp.Np != nil && nsp.Np.Contains(row)
}

func TryExpand(nsp *Nulls, size int) {
	if nsp.Np == nil {
		nsp.Np = &bitmap.Bitmap{}
	}
	nsp.Np.TryExpandWithSize(size)
}

func Add(nsp *Nulls, rows ...uint64) {
	if nsp == nil || len(rows) == 0 {
		return
	}
	TryExpand(nsp, int(rows[len(rows)-1])+1)
	nsp.Np.AddMany(rows)
}

func AddRange(nsp *Nulls, start, end uint64) {
	TryExpand(nsp, int(end))
	nsp.Np.AddRange(start, end)
}

func Del(nsp *Nulls, rows ...uint64) {
	if nsp == nil || nsp.Np == nil {
		return
	}
	for _, row := range rows {
		nsp.Np.Remove(row)
	}
}

// Length returns the total number of null rows.
func Length(nsp *Nulls) int {
	if nsp == nil || nsp.Np == nil {
		return 0
	}
	return nsp.Np.Count()
}

// CountRange returns the number of null rows in [start, end).
func CountRange(nsp *Nulls, start, end uint64) int {
	if nsp == nil || nsp.Np == nil {
		return 0
	}
	return nsp.Np.CountRange(start, end)
}

// Set unions m into nsp.
func Set(nsp, m *Nulls) {
	if m == nil || m.Np == nil {
		return
	}
	if nsp.Np == nil {
		nsp.Np = &bitmap.Bitmap{}
	}
	nsp.Np.Or(m.Np)
}

func (nsp *Nulls) IsSame(m *Nulls) bool {
	switch {
	case nsp == nil && m == nil:
		return true
	case nsp == nil || m == nil:
		return Length(nsp) == 0 && Length(m) == 0
	case nsp.Np == nil || m.Np == nil:
		return Length(nsp) == 0 && Length(m) == 0
	default:
		return nsp.Np.IsSame(m.Np)
	}
}

func (nsp *Nulls) ToArray() []uint64 {
	if nsp == nil || nsp.Np == nil {
		return nil
	}
	return nsp.Np.ToArray()
}

func (nsp *Nulls) Show() []byte {
	if nsp == nil || nsp.Np == nil {
		return nil
	}
	return nsp.Np.Marshal()
}

func (nsp *Nulls) Read(data []byte) {
	if len(data) == 0 {
		return
	}
	nsp.Np = &bitmap.Bitmap{}
	nsp.Np.Unmarshal(data)
}
