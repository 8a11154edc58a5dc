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

package ratelimit

import "time"

// Algorithm is the pure admission-decision contract every rate-limit
// algorithm implements, operating on the raw serialized state held by
// whichever store (memory/SQL/Redis) is fronting it. Evaluate MUST
// leave state unchanged when it denies admission (a denied or
// cancelled attempt records nothing), and is otherwise free to encode
// state however it likes.
type Algorithm interface {
	// Evaluate decides whether a request at time now is admitted given
	// the current raw state (nil if this is the first request for the
	// key). It returns the state to persist, whether the request was
	// admitted, and, when denied, how long the caller should wait
	// before retrying.
	Evaluate(now time.Time, state []byte) (next []byte, allowed bool, retryAfter time.Duration, err error)

	// Describe decodes state into a diagnostic snapshot for Limiter.Rate,
	// without mutating anything.
	Describe(now time.Time, state []byte) (used float64, limit float64, err error)
}
