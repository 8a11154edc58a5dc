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
	"time"

	"github.com/nabbar/go-sessions/cerrs"
)

// fixedWindow implements the fixed-window counter: admit up to Limit
// requests per WindowSize-wide, wall-clock-aligned bucket.
type fixedWindow struct {
	Limit      int64
	WindowSize time.Duration
}

type fixedWindowState struct {
	WindowStart int64 `json:"ws"`
	Count       int64 `json:"c"`
}

func newFixedWindow(limit int64, window time.Duration) *fixedWindow {
	return &fixedWindow{Limit: limit, WindowSize: window}
}

func (a *fixedWindow) load(state []byte) (fixedWindowState, error) {
	if len(state) == 0 {
		return fixedWindowState{}, nil
	}
	var s fixedWindowState
	if err := json.Unmarshal(state, &s); err != nil {
		return fixedWindowState{}, cerrs.New(ErrState, err)
	}
	return s, nil
}

func (a *fixedWindow) windowStart(now time.Time) int64 {
	w := int64(a.WindowSize)
	if w <= 0 {
		w = 1
	}
	return (now.UnixNano() / w) * w
}

func (a *fixedWindow) Evaluate(now time.Time, state []byte) ([]byte, bool, time.Duration, error) {
	s, err := a.load(state)
	if err != nil {
		return nil, false, 0, err
	}

	ws := a.windowStart(now)
	if s.WindowStart != ws {
		s = fixedWindowState{WindowStart: ws}
	}

	if s.Count < a.Limit {
		s.Count++
		next, err := json.Marshal(s)
		if err != nil {
			return nil, false, 0, cerrs.New(ErrState, err)
		}
		return next, true, 0, nil
	}

	retryAfterNanos := ws + int64(a.WindowSize) - now.UnixNano()
	if retryAfterNanos < 0 {
		retryAfterNanos = 0
	}
	return state, false, time.Duration(retryAfterNanos), nil
}

func (a *fixedWindow) Describe(now time.Time, state []byte) (float64, float64, error) {
	s, err := a.load(state)
	if err != nil {
		return 0, 0, err
	}
	if s.WindowStart != a.windowStart(now) {
		return 0, float64(a.Limit), nil
	}
	return float64(s.Count), float64(a.Limit), nil
}
