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

// Package types defines the closed set of element types a column may carry
// and the Type descriptor attached to every vector and view.
package types

import "fmt"

type T uint8

const (
	// T_empty is a typeless column: it carries no buffers and every
	// row is null.
	T_empty T = iota

	T_bool
	T_int8
	T_int16
	T_int32
	T_int64
	T_uint8
	T_uint16
	T_uint32
	T_uint64
	T_float32
	T_float64

	// compound types, values live entirely in child columns
	T_char
	T_varchar
)

// Type describes the element type of one column.
type Type struct {
	Oid  T
	Size int32
}

var typeSizes = [...]int32{
	T_empty:   0,
	T_bool:    1,
	T_int8:    1,
	T_int16:   2,
	T_int32:   4,
	T_int64:   8,
	T_uint8:   1,
	T_uint16:  2,
	T_uint32:  4,
	T_uint64:  8,
	T_float32: 4,
	T_float64: 8,
	T_char:    0,
	T_varchar: 0,
}

var typeNames = [...]string{
	T_empty:   "EMPTY",
	T_bool:    "BOOL",
	T_int8:    "TINYINT",
	T_int16:   "SMALLINT",
	T_int32:   "INT",
	T_int64:   "BIGINT",
	T_uint8:   "TINYINT UNSIGNED",
	T_uint16:  "SMALLINT UNSIGNED",
	T_uint32:  "INT UNSIGNED",
	T_uint64:  "BIGINT UNSIGNED",
	T_float32: "FLOAT",
	T_float64: "DOUBLE",
	T_char:    "CHAR",
	T_varchar: "VARCHAR",
}

func (t T) ToType() Type {
	return Type{Oid: t, Size: typeSizes[t]}
}

func New(oid T) Type {
	return oid.ToType()
}

func (t T) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("T(%d)", uint8(t))
}

func (t Type) String() string {
	return t.Oid.String()
}

// TypeSize returns the byte width of one element, 0 for the empty type
// and for compound types whose values live in children.
func (t Type) TypeSize() int {
	return int(t.Size)
}

func (t T) FixedLength() int {
	return int(typeSizes[t])
}

// IsCompound reports whether values of t live entirely in child columns.
func (t T) IsCompound() bool {
	return t == T_char || t == T_varchar
}

func (t T) IsFixedLen() bool {
	return t != T_empty && !t.IsCompound()
}

func (t T) IsSignedInt() bool {
	switch t {
	case T_int8, T_int16, T_int32, T_int64:
		return true
	}
	return false
}

func (t T) IsUnsignedInt() bool {
	switch t {
	case T_uint8, T_uint16, T_uint32, T_uint64:
		return true
	}
	return false
}

func (t T) IsInteger() bool {
	return t.IsSignedInt() || t.IsUnsignedInt()
}

func (t T) IsFloat() bool {
	return t == T_float32 || t == T_float64
}

func (t T) IsNumeric() bool {
	return t.IsInteger() || t.IsFloat()
}

// FixedSizeT is the constraint covering every fixed-width element type.
type FixedSizeT interface {
	bool | int8 | int16 | int32 | int64 |
		uint8 | uint16 | uint32 | uint64 |
		float32 | float64
}

// OrderedT is the subset of FixedSizeT with a total order.
type OrderedT interface {
	int8 | int16 | int32 | int64 |
		uint8 | uint16 | uint32 | uint64 |
		float32 | float64
}
