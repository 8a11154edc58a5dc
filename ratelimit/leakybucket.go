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

// leakyBucket models a queue of Capacity slots draining at a constant
// rate (Capacity per WindowSize); each admitted request adds one slot,
// and slots leak away continuously between evaluations.
type leakyBucket struct {
	Capacity   float64
	WindowSize time.Duration
}

type leakyBucketState struct {
	Level    float64 `json:"l"`
	LastLeak int64   `json:"t"`
}

func newLeakyBucket(capacity float64, window time.Duration) *leakyBucket {
	return &leakyBucket{Capacity: capacity, WindowSize: window}
}

func (a *leakyBucket) rate() float64 {
	return a.Capacity / a.WindowSize.Seconds()
}

func (a *leakyBucket) load(state []byte, now time.Time) (leakyBucketState, error) {
	if len(state) == 0 {
		return leakyBucketState{LastLeak: now.UnixNano()}, nil
	}
	var s leakyBucketState
	if err := json.Unmarshal(state, &s); err != nil {
		return leakyBucketState{}, cerrs.New(ErrState, err)
	}
	return s, nil
}

func (a *leakyBucket) leaked(s leakyBucketState, now time.Time) float64 {
	elapsed := now.Sub(time.Unix(0, s.LastLeak)).Seconds()
	if elapsed <= 0 {
		return s.Level
	}
	level := s.Level - elapsed*a.rate()
	if level < 0 {
		level = 0
	}
	return level
}

func (a *leakyBucket) Evaluate(now time.Time, state []byte) ([]byte, bool, time.Duration, error) {
	s, err := a.load(state, now)
	if err != nil {
		return nil, false, 0, err
	}

	level := a.leaked(s, now)

	if level < a.Capacity {
		next := leakyBucketState{Level: level + 1, LastLeak: now.UnixNano()}
		raw, err := json.Marshal(next)
		if err != nil {
			return nil, false, 0, cerrs.New(ErrState, err)
		}
		return raw, true, 0, nil
	}

	overflow := level + 1 - a.Capacity
	retryAfter := time.Duration(overflow / a.rate() * float64(time.Second))
	return state, false, retryAfter, nil
}

func (a *leakyBucket) Describe(now time.Time, state []byte) (float64, float64, error) {
	s, err := a.load(state, now)
	if err != nil {
		return 0, 0, err
	}
	return a.leaked(s, now), a.Capacity, nil
}
