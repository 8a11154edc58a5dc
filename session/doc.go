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

// Package session collapses a sync/async split that makes sense in a
// language where OS threads and single-threaded event-loop coroutines
// are genuinely different execution models sharing no stack. Go
// goroutines are cooperatively scheduled onto OS threads by the
// runtime itself, so a single blocking-looking call (Session.Request)
// already behaves like a cooperative call whenever it's invoked from
// its own goroutine, and like a thread-blocking call when the caller
// doesn't care either way. ratelimit.Waiter is the one seam that
// genuinely needs preserving (a cooperative caller wants its wait
// expressed as a timer select, not an OS sleep) and it's already
// parameterized there. Requests and RequestAsync cover the explicit
// non-blocking entry points (fan-out, "post work and get a future
// back") without requiring two parallel Session types.
package session
