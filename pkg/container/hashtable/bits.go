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

package hashtable

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/cespare/xxhash/v2"

	"github.com/vexdb/vex/pkg/common/vexerr"
	"github.com/vexdb/vex/pkg/container/types"
)

// BitsOf packs a fixed-width value into one 64-bit slot word, little end
// first, upper bytes zero.  Distinct values always pack to distinct words.
func BitsOf[T types.FixedSizeT](v T) uint64 {
	var w uint64
	*(*T)(unsafe.Pointer(&w)) = v
	return w
}

// FromBits is the inverse of BitsOf.
func FromBits[T types.FixedSizeT](w uint64) T {
	return *(*T)(unsafe.Pointer(&w))
}

// HashBits hashes one slot word.
func HashBits(w uint64) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], w)
	return xxhash.Sum64(b[:])
}

// EmptyKeyBits returns the sentinel marking unclaimed slots for a key type:
// the bit pattern of the domain's maximum representable value.  Inputs
// containing that value must be rejected by the caller.
func EmptyKeyBits(t types.T) (uint64, error) {
	switch t {
	case types.T_int8:
		return BitsOf(int8(math.MaxInt8)), nil
	case types.T_int16:
		return BitsOf(int16(math.MaxInt16)), nil
	case types.T_int32:
		return BitsOf(int32(math.MaxInt32)), nil
	case types.T_int64:
		return BitsOf(int64(math.MaxInt64)), nil
	case types.T_uint8:
		return BitsOf(uint8(math.MaxUint8)), nil
	case types.T_uint16:
		return BitsOf(uint16(math.MaxUint16)), nil
	case types.T_uint32:
		return BitsOf(uint32(math.MaxUint32)), nil
	case types.T_uint64:
		return BitsOf(uint64(math.MaxUint64)), nil
	case types.T_float32:
		return BitsOf(float32(math.Inf(1))), nil
	case types.T_float64:
		return BitsOf(math.Inf(1)), nil
	}
	return 0, vexerr.NewNotSupported("group key type %s", t)
}
