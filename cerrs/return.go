/*
 * MIT License
 *
 * Copyright (c) 2024 go-sessions contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package cerrs

import "fmt"

// Error is the CodeError-carrying error type returned by every CORE
// package. It wraps an optional cause so errors.Is/errors.Unwrap keep
// working against the underlying error.
type Error struct {
	code  CodeError
	cause error
}

// New builds an Error for code, optionally wrapping cause.
func New(code CodeError, cause error) *Error {
	return &Error{code: code, cause: cause}
}

func (e *Error) Code() CodeError {
	return e.code
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) Error() string {
	msg := lookupMessage(e.code)
	if msg == "" {
		msg = "unknown error"
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

// Is reports whether target is an *Error with the same code, enabling
// errors.Is(err, cerrs.New(SomeCode, nil)) style comparisons.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.code == e.code
}
