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

// Package pool implements the process-wide connection-pool registry:
// a registry keyed by (backend-kind, options identity) handing out the
// three backend pool implementations (in-memory shared map,
// embedded-SQL per-owner connection pool, and a remote key/value
// client) to the cache and rate-limiter layers.
package pool

import (
	"fmt"

	"github.com/nabbar/go-sessions/cerrs"
)

const pkgName = "go-sessions/pool"

const (
	ErrTimeout cerrs.CodeError = iota + cerrs.MinPkgPool
	ErrClosed
	ErrConnect
)

func init() {
	if cerrs.ExistInMapMessage(ErrTimeout) {
		panic(fmt.Errorf("error code collision with package %s", pkgName))
	}
	cerrs.RegisterIdFctMessage(ErrTimeout, getMessage)
}

func getMessage(code cerrs.CodeError) string {
	switch code {
	case ErrTimeout:
		return "pool: timed out waiting for a connection"
	case ErrClosed:
		return "pool: pool is closed"
	case ErrConnect:
		return "pool: failed to connect backend"
	}
	return ""
}
