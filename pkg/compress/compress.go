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

// Package compress provides block compression for column interchange.
package compress

import (
	"github.com/pierrec/lz4"

	"github.com/vexdb/vex/pkg/common/vexerr"
)

const (
	None = iota
	Lz4
)

// Bound returns the size a destination buffer must have to hold the
// compressed form of n source bytes.
func Bound(n int, typ int) int {
	switch typ {
	case Lz4:
		return lz4.CompressBlockBound(n)
	}
	return n
}

// Compress compresses src into dst, returning the written prefix of dst.
func Compress(src, dst []byte, typ int) ([]byte, error) {
	switch typ {
	case Lz4:
		n, err := lz4.CompressBlock(src, dst, nil)
		if err != nil {
			return nil, vexerr.NewInternal("lz4 compress: %v", err)
		}
		if n == 0 {
			// incompressible input
			return nil, vexerr.NewInternal("lz4 compress: incompressible input")
		}
		return dst[:n], nil
	case None:
		n := copy(dst, src)
		return dst[:n], nil
	}
	return nil, vexerr.NewNotSupported("compress type %d", typ)
}

// Decompress decompresses src into dst, which must be sized for the
// original data, returning the written prefix of dst.
func Decompress(src, dst []byte, typ int) ([]byte, error) {
	switch typ {
	case Lz4:
		n, err := lz4.UncompressBlock(src, dst)
		if err != nil {
			return nil, vexerr.NewInternal("lz4 decompress: %v", err)
		}
		return dst[:n], nil
	case None:
		n := copy(dst, src)
		return dst[:n], nil
	}
	return nil, vexerr.NewNotSupported("compress type %d", typ)
}
