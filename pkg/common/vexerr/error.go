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

// Package vexerr carries the engine's error taxonomy.  Every failure an
// operation can surface has a numeric code so that callers can tell
// malformed input apart from unsupported combinations and from execution
// failures without matching on message text.
package vexerr

import (
	"errors"
	"fmt"
)

const (
	Ok uint16 = 0

	// internal errors
	ErrInternal uint16 = 20101
	ErrNYI      uint16 = 20102
	ErrOOM      uint16 = 20103

	// unsupported type or operation combination
	ErrNotSupported uint16 = 20105

	// out of range offsets, sizes and slices
	ErrOutOfRange uint16 = 20201

	// malformed caller input
	ErrInvalidInput uint16 = 20301

	// object in the wrong state for the request
	ErrInvalidState uint16 = 20400

	// a parallel phase failed; partially built state was discarded
	ErrExecFailed uint16 = 20500
)

type Error struct {
	code    uint16
	message string
}

func (e *Error) Error() string {
	return e.message
}

func (e *Error) ErrorCode() uint16 {
	return e.code
}

func newError(code uint16, format string, args ...any) *Error {
	if len(args) == 0 {
		return &Error{code: code, message: format}
	}
	return &Error{code: code, message: fmt.Sprintf(format, args...)}
}

func NewInternal(format string, args ...any) *Error {
	return newError(ErrInternal, format, args...)
}

func NewNYI(format string, args ...any) *Error {
	return newError(ErrNYI, "not yet implemented: "+format, args...)
}

func NewOOM(format string, args ...any) *Error {
	return newError(ErrOOM, format, args...)
}

func NewNotSupported(format string, args ...any) *Error {
	return newError(ErrNotSupported, format, args...)
}

func NewOutOfRange(format string, args ...any) *Error {
	return newError(ErrOutOfRange, format, args...)
}

func NewInvalidInput(format string, args ...any) *Error {
	return newError(ErrInvalidInput, format, args...)
}

func NewInvalidState(format string, args ...any) *Error {
	return newError(ErrInvalidState, format, args...)
}

func NewExecFailed(format string, args ...any) *Error {
	return newError(ErrExecFailed, format, args...)
}

// IsErrCode reports whether err is a vexerr carrying the given code.
func IsErrCode(err error, code uint16) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.code == code
	}
	return false
}
