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

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/nabbar/go-sessions/cerrs"
)

// slidingWindow implements the exact sliding-window-log algorithm:
// state is the ordered set of admitted request timestamps (nanosecond
// Unix time) still inside the trailing window. Evaluate evicts every
// timestamp at or before now-WindowSize, then admits iff the
// remaining cardinality is below Limit.
type slidingWindow struct {
	Limit      int64
	WindowSize time.Duration
}

func newSlidingWindow(limit int64, window time.Duration) *slidingWindow {
	return &slidingWindow{Limit: limit, WindowSize: window}
}

func (a *slidingWindow) load(state []byte) ([]int64, error) {
	if len(state) == 0 {
		return nil, nil
	}
	var ts []int64
	if err := json.Unmarshal(state, &ts); err != nil {
		return nil, cerrs.New(ErrState, err)
	}
	return ts, nil
}

// evict returns the suffix of ts (already sorted ascending) whose
// entries satisfy ts > now-WindowSize, in O(log n) via binary search
// over the O(k) evicted prefix.
func (a *slidingWindow) evict(ts []int64, now time.Time) []int64 {
	cutoff := now.UnixNano() - int64(a.WindowSize)
	i := sort.Search(len(ts), func(i int) bool { return ts[i] > cutoff })
	return ts[i:]
}

func (a *slidingWindow) Evaluate(now time.Time, state []byte) ([]byte, bool, time.Duration, error) {
	ts, err := a.load(state)
	if err != nil {
		return nil, false, 0, err
	}
	ts = a.evict(ts, now)

	if int64(len(ts)) < a.Limit {
		ts = append(ts, now.UnixNano())
		next, err := json.Marshal(ts)
		if err != nil {
			return nil, false, 0, cerrs.New(ErrState, err)
		}
		return next, true, 0, nil
	}

	retryAfterNanos := ts[0] + int64(a.WindowSize) - now.UnixNano()
	if retryAfterNanos < 0 {
		retryAfterNanos = 0
	}
	return state, false, time.Duration(retryAfterNanos), nil
}

func (a *slidingWindow) Describe(now time.Time, state []byte) (float64, float64, error) {
	ts, err := a.load(state)
	if err != nil {
		return 0, 0, err
	}
	return float64(len(a.evict(ts, now))), float64(a.Limit), nil
}
