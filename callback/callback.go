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

// Package callback invokes user callbacks against a finished response
// with error isolation, so a panicking or erroring callback can never
// crash the request pipeline.
package callback

import (
	"fmt"

	"github.com/nabbar/go-sessions/response"
)

// Func is one user callback, invoked with the finished Response. Its
// return value (or recovered panic) is appended to the response's
// Callbacks slice when Config.ReturnResults is set.
type Func func(r *response.Response) interface{}

// Tick is the zero-arg progress callback, invoked once per completed
// request regardless of whether any Func ran.
type Tick func()

// Config controls how Run invokes a request's callbacks.
type Config struct {
	// RunOnError, when false (the default), skips every Func for a
	// response carrying a transport error, still advancing Tick.
	RunOnError bool
	// ReturnResults attaches each Func's result to response.Callbacks.
	ReturnResults bool
	// OnError, if set, is called with the error recovered from each
	// panicking callback.
	OnError func(err error)
}

// Run executes fns in order against r, isolating each call: a panic or
// non-nil error recovered from one callback never propagates to Run's
// caller, and never prevents the remaining callbacks (or tick) from
// running. is_cache marks r.IsCached before any callback observes it.
func Run(r *response.Response, fns []Func, tick Tick, isCache bool, cfg Config) {
	r.IsCached = isCache

	if len(fns) == 0 || (r.Error() != nil && !cfg.RunOnError) {
		if tick != nil {
			tick()
		}
		return
	}

	results := make([]interface{}, 0, len(fns))
	for _, fn := range fns {
		results = append(results, invoke(fn, r, cfg))
	}

	if cfg.ReturnResults {
		r.Callbacks = results
	}

	if tick != nil {
		tick()
	}
}

// invoke calls fn, converting any panic into a recovered error result
// so the pipeline is never interrupted.
func invoke(fn Func, r *response.Response, cfg Config) (result interface{}) {
	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("callback panic: %v", rec)
			result = err
			if cfg.OnError != nil {
				cfg.OnError(err)
			}
		}
	}()
	return fn(r)
}
