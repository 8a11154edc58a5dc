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

// Package ratelimit implements the pluggable request rate limiter:
// five admission algorithms, each usable against any of the three
// pool backends.
package ratelimit

import (
	"fmt"

	"github.com/nabbar/go-sessions/cerrs"
)

const pkgName = "go-sessions/ratelimit"

const (
	ErrBackend cerrs.CodeError = iota + cerrs.MinPkgRatelimit
	ErrState
	ErrLimited
	ErrUnknownAlgorithm
)

func init() {
	if cerrs.ExistInMapMessage(ErrBackend) {
		panic(fmt.Errorf("error code collision with package %s", pkgName))
	}
	cerrs.RegisterIdFctMessage(ErrBackend, getMessage)
}

func getMessage(code cerrs.CodeError) string {
	switch code {
	case ErrBackend:
		return "ratelimit: backend operation failed"
	case ErrState:
		return "ratelimit: state decode failed"
	case ErrLimited:
		return "ratelimit: rate limit exceeded"
	case ErrUnknownAlgorithm:
		return "ratelimit: unknown algorithm"
	}
	return ""
}
