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

// Package bitmap implements a word-packed bit vector.  One bit per row,
// addressed by (word array, row offset, row count).  Code below assumes the
// trailing bits of the last word are zero.
package bitmap

import (
	"bytes"
	"fmt"
	"math/bits"

	"github.com/vexdb/vex/pkg/container/types"
)

type Bitmap struct {
	len  int64
	data []uint64
}

type Iterator struct {
	i       uint64
	hasNext bool
	bm      *Bitmap
}

func New() Bitmap {
	return Bitmap{}
}

func (n *Bitmap) InitWithSize(len int64) {
	n.len = len
	n.data = make([]uint64, (len+63)/64)
}

func (n *Bitmap) InitWith(other *Bitmap) {
	n.len = other.len
	n.data = append([]uint64(nil), other.data...)
}

func (n *Bitmap) Clone() *Bitmap {
	if n == nil {
		return nil
	}
	var ret Bitmap
	ret.InitWith(n)
	return &ret
}

func (n *Bitmap) Reset() {
	n.len = 0
	n.data = nil
}

// Len returns the number of bits in the Bitmap.
func (n *Bitmap) Len() int64 {
	return n.len
}

// Size returns the number of bytes in n.data.
func (n *Bitmap) Size() int {
	return len(n.data) * 8
}

func (n *Bitmap) Ptr() *uint64 {
	if n == nil || len(n.data) == 0 {
		return nil
	}
	return &n.data[0]
}

// IsEmpty returns true if no bit in the Bitmap is set.
func (n *Bitmap) IsEmpty() bool {
	for i := 0; i < len(n.data); i++ {
		if n.data[i] != 0 {
			return false
		}
	}
	return true
}

// We always assume the bitmap has been extended to at least row.
func (n *Bitmap) Add(row uint64) {
	n.data[row>>6] |= 1 << (row & 0x3F)
}

func (n *Bitmap) AddMany(rows []uint64) {
	for _, row := range rows {
		n.data[row>>6] |= 1 << (row & 0x3F)
	}
}

func (n *Bitmap) Remove(row uint64) {
	if row >= uint64(n.len) {
		return
	}
	n.data[row>>6] &^= uint64(1) << (row & 0x3F)
}

// Contains returns true if the row is contained in the Bitmap.
func (n *Bitmap) Contains(row uint64) bool {
	if row >= uint64(n.len) {
		return false
	}
	return (n.data[row>>6] & (1 << (row & 0x3F))) != 0
}

func (n *Bitmap) AddRange(start, end uint64) {
	if start >= end {
		return
	}
	i, j := start>>6, (end-1)>>6
	if i == j {
		n.data[i] |= (^uint64(0) << uint(start&0x3F)) & (^uint64(0) >> (uint(-end) & 0x3F))
		return
	}
	n.data[i] |= ^uint64(0) << uint(start&0x3F)
	for k := i + 1; k < j; k++ {
		n.data[k] = ^uint64(0)
	}
	n.data[j] |= ^uint64(0) >> (uint(-end) & 0x3F)
}

func (n *Bitmap) RemoveRange(start, end uint64) {
	if end > uint64(n.len) {
		end = uint64(n.len)
	}
	if start >= end {
		return
	}
	i, j := start>>6, (end-1)>>6
	if i == j {
		n.data[i] &= ^((^uint64(0) << uint(start&0x3F)) & (^uint64(0) >> (uint(-end) & 0x3F)))
		return
	}
	n.data[i] &= ^(^uint64(0) << uint(start&0x3F))
	for k := i + 1; k < j; k++ {
		n.data[k] = 0
	}
	n.data[j] &= ^(^uint64(0) >> (uint(-end) & 0x3F))
}

func (n *Bitmap) IsSame(m *Bitmap) bool {
	if len(m.data) != len(n.data) {
		return false
	}
	for i := 0; i < len(n.data); i++ {
		if n.data[i] != m.data[i] {
			return false
		}
	}
	return true
}

func (n *Bitmap) Or(m *Bitmap) {
	n.TryExpand(m)
	size := (int(m.len) + 63) / 64
	for i := 0; i < size; i++ {
		n.data[i] |= m.data[i]
	}
}

func (n *Bitmap) And(m *Bitmap) {
	n.TryExpand(m)
	size := (int(m.len) + 63) / 64
	for i := 0; i < size; i++ {
		n.data[i] &= m.data[i]
	}
	for i := size; i < len(n.data); i++ {
		n.data[i] = 0
	}
}

func (n *Bitmap) Negate() {
	nBlock, nTail := int(n.len)/64, int(n.len)%64
	for i := 0; i < nBlock; i++ {
		n.data[i] = ^n.data[i]
	}
	if nTail > 0 {
		mask := (uint64(1) << nTail) - 1
		n.data[nBlock] ^= mask
	}
}

func (n *Bitmap) TryExpand(m *Bitmap) {
	n.TryExpandWithSize(int(m.len))
}

func (n *Bitmap) TryExpandWithSize(size int) {
	if int(n.len) >= size {
		return
	}
	newCap := (size + 63) / 64
	n.len = int64(size)
	if newCap > cap(n.data) {
		data := make([]uint64, newCap)
		copy(data, n.data)
		n.data = data
		return
	}
	if len(n.data) < newCap {
		n.data = n.data[:newCap]
	}
}

// Count returns the number of set bits.
func (n *Bitmap) Count() int {
	var cnt int
	for i := int64(0); i < n.len/64; i++ {
		cnt += bits.OnesCount64(n.data[i])
	}
	if offset := n.len % 64; offset > 0 {
		start := (n.len / 64) * 64
		for i, j := start, start+offset; i < j; i++ {
			if n.Contains(uint64(i)) {
				cnt++
			}
		}
	}
	return cnt
}

// CountRange returns the number of set bits in [start, end).  It reads the
// word array only, so concurrent counters over the same range are safe.
func (n *Bitmap) CountRange(start, end uint64) int {
	if end > uint64(n.len) {
		end = uint64(n.len)
	}
	if start >= end {
		return 0
	}
	i, j := start>>6, (end-1)>>6
	if i == j {
		word := n.data[i] & (^uint64(0) << uint(start&0x3F)) & (^uint64(0) >> (uint(-end) & 0x3F))
		return bits.OnesCount64(word)
	}
	cnt := bits.OnesCount64(n.data[i] & (^uint64(0) << uint(start&0x3F)))
	for k := i + 1; k < j; k++ {
		cnt += bits.OnesCount64(n.data[k])
	}
	cnt += bits.OnesCount64(n.data[j] & (^uint64(0) >> (uint(-end) & 0x3F)))
	return cnt
}

func (n *Bitmap) Iterator() *Iterator {
	itr := Iterator{bm: n}
	if pos, ok := itr.next(0); ok {
		itr.i = pos
		itr.hasNext = true
	}
	return &itr
}

func (itr *Iterator) next(i uint64) (uint64, bool) {
	nwords := uint64((itr.bm.len + 63) / 64)
	word := i >> 6
	mask := ^uint64(0) << (i & 0x3F)
	for ; word < nwords; word++ {
		w := itr.bm.data[word] & mask
		if w != 0 {
			return uint64(bits.TrailingZeros64(w)) + word*64, true
		}
		mask = ^uint64(0)
	}
	return 0, false
}

func (itr *Iterator) HasNext() bool {
	return itr.hasNext
}

func (itr *Iterator) Next() uint64 {
	pos := itr.i
	if next, ok := itr.next(itr.i + 1); ok {
		itr.i = next
		itr.hasNext = true
		return pos
	}
	itr.hasNext = false
	return pos
}

func (n *Bitmap) ToArray() []uint64 {
	var rows []uint64
	itr := n.Iterator()
	for itr.HasNext() {
		rows = append(rows, itr.Next())
	}
	return rows
}

func (n *Bitmap) String() string {
	return fmt.Sprintf("%v", n.ToArray())
}

func (n *Bitmap) Marshal() []byte {
	var buf bytes.Buffer
	u1 := uint64(n.len)
	u2 := uint64(len(n.data) * 8)
	buf.Write(types.EncodeUint64(&u1))
	buf.Write(types.EncodeUint64(&u2))
	buf.Write(types.EncodeSlice(n.data))
	return buf.Bytes()
}

func (n *Bitmap) Unmarshal(data []byte) {
	n.len = int64(types.DecodeUint64(data[:8]))
	data = data[8:]
	size := int(types.DecodeUint64(data[:8]))
	data = data[8:]
	if size == 0 {
		n.data = nil
		return
	}
	n.data = append([]uint64(nil), types.DecodeSlice[uint64](data[:size])...)
}
