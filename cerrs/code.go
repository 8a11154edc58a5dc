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

import "sync"

// CodeError is a uint16 error code, HTTP-status-flavored (0-999 reserved,
// package ranges start at 1000).
type CodeError uint16

const (
	// UnknownError is the zero value, used when no code applies.
	UnknownError CodeError = 0
)

// Package code ranges, one block per CORE package, mirroring the
// MinPkgXxx convention.
const (
	MinPkgPool       CodeError = 1000
	MinPkgCache      CodeError = 1100
	MinPkgRatelimit  CodeError = 1200
	MinPkgSession    CodeError = 1300
	MinPkgBackendopt CodeError = 1400
)

// Message renders a human-readable string for a code.
type Message func(code CodeError) string

var (
	mu    sync.RWMutex
	idMsg = make(map[CodeError]Message)
)

// RegisterIdFctMessage registers the message function for a package's
// reserved code range, keyed by the package's first code. A second call
// for the same starting code replaces the earlier function; each
// package's init checks ExistInMapMessage first and panics on a
// collision, catching accidental range overlaps at init time.
func RegisterIdFctMessage(first CodeError, fct Message) {
	mu.Lock()
	defer mu.Unlock()

	idMsg[first] = fct
}

// ExistInMapMessage reports whether a message function is already
// registered for the given code.
func ExistInMapMessage(first CodeError) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := idMsg[first]
	return ok
}

// lookupMessage finds the message function whose package range
// contains code, falling back to an empty string.
func lookupMessage(code CodeError) string {
	mu.RLock()
	defer mu.RUnlock()

	var best Message
	var bestFirst CodeError

	for first, fct := range idMsg {
		if code >= first && (best == nil || first > bestFirst) {
			best = fct
			bestFirst = first
		}
	}

	if best == nil {
		return ""
	}
	return best(code)
}
