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

package session

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/nabbar/go-sessions/callback"
	"github.com/nabbar/go-sessions/response"
)

// FanoutItem is one entry of a Requests() call: its own method/url/
// opts, so a single fan-out can mix methods across URLs.
type FanoutItem struct {
	Method string
	URL    string
	Opts   RequestOptions
}

// FanoutResult pairs one FanoutItem's outcome, keeping the input index
// so the caller can correlate back to the original slice even though
// items may complete out of order.
type FanoutResult struct {
	Index    int
	Response *response.Response
	Err      error
}

// defaultFanoutLimit bounds Requests' concurrent dispatch unless the
// Session was constructed with Config.Threaded and a positive
// WorkerCount, in which case WorkerCount is the bound instead.
const defaultFanoutLimit = 32

// Requests dispatches every item concurrently via the single-request
// pipeline. Results are returned in
// input order, not completion order; progress, if non-nil, is invoked
// once per completion (not once per input index) so a caller watching
// it sees real-time fan-out progress regardless of ordering.
func (s *Session) Requests(ctx context.Context, items []FanoutItem, progress callback.Tick) ([]FanoutResult, error) {
	results := make([]FanoutResult, len(items))

	g, gctx := errgroup.WithContext(ctx)
	limit := defaultFanoutLimit
	if s.cfg.Threaded && s.cfg.WorkerCount > 0 {
		limit = s.cfg.WorkerCount
	}
	g.SetLimit(limit)

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			resp, err := s.Request(gctx, item.Method, item.URL, item.Opts)
			results[i] = FanoutResult{Index: i, Response: resp, Err: err}
			if progress != nil {
				progress()
			}
			return nil // per-item errors are carried in results, not propagated to Wait
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

// RequestAsync dispatches a single request without blocking the
// caller, returning a channel that receives exactly one FanoutResult
// (Index always 0). When Config.Threaded is set the call is queued on
// the Session's fixed worker pool instead of spawning a fresh
// goroutine, bounding concurrency the same way the rest of a
// Threaded Session's dispatch is bounded.
func (s *Session) RequestAsync(ctx context.Context, method, url string, opts RequestOptions) <-chan FanoutResult {
	out := make(chan FanoutResult, 1)
	run := func() {
		resp, err := s.Request(ctx, method, url, opts)
		out <- FanoutResult{Response: resp, Err: err}
		close(out)
	}

	if s.workers != nil {
		select {
		case s.workers <- run:
		case <-ctx.Done():
			out <- FanoutResult{Err: ctx.Err()}
			close(out)
		}
		return out
	}

	go run()
	return out
}
