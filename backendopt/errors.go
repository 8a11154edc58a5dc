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

// Package backendopt defines the validated configuration shapes for the
// three pluggable storage backends (in-process memory, embedded SQL,
// remote key/value server) shared by the cache and rate-limiter layers.
package backendopt

import (
	"fmt"

	"github.com/nabbar/go-sessions/cerrs"
)

const pkgName = "go-sessions/backendopt"

const (
	ErrValidation cerrs.CodeError = iota + cerrs.MinPkgBackendopt
	ErrInconsistent
)

func init() {
	if cerrs.ExistInMapMessage(ErrValidation) {
		panic(fmt.Errorf("error code collision with package %s", pkgName))
	}
	cerrs.RegisterIdFctMessage(ErrValidation, getMessage)
}

func getMessage(code cerrs.CodeError) string {
	switch code {
	case ErrValidation:
		return "backendopt: invalid option value"
	case ErrInconsistent:
		return "backendopt: inconsistent option combination"
	}
	return ""
}
