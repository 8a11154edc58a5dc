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

// tokenBucket is the serializable token-bucket used by the SQL and
// Redis stores, where state must round-trip through bytes. The
// InMemory backend instead uses github.com/juju/ratelimit directly
// (see tokenbucket_memory.go) since it can hold live Go objects.
type tokenBucket struct {
	Capacity float64
	Rate     float64 // tokens per second
}

type tokenBucketState struct {
	Tokens float64 `json:"tok"`
	Last   int64   `json:"t"`
}

func newTokenBucket(capacity float64, window time.Duration) *tokenBucket {
	return &tokenBucket{Capacity: capacity, Rate: capacity / window.Seconds()}
}

func (a *tokenBucket) load(state []byte, now time.Time) (tokenBucketState, error) {
	if len(state) == 0 {
		return tokenBucketState{Tokens: a.Capacity, Last: now.UnixNano()}, nil
	}
	var s tokenBucketState
	if err := json.Unmarshal(state, &s); err != nil {
		return tokenBucketState{}, cerrs.New(ErrState, err)
	}
	return s, nil
}

func (a *tokenBucket) refill(s tokenBucketState, now time.Time) float64 {
	elapsed := now.Sub(time.Unix(0, s.Last)).Seconds()
	if elapsed <= 0 {
		return s.Tokens
	}
	tokens := s.Tokens + elapsed*a.Rate
	if tokens > a.Capacity {
		tokens = a.Capacity
	}
	return tokens
}

func (a *tokenBucket) Evaluate(now time.Time, state []byte) ([]byte, bool, time.Duration, error) {
	s, err := a.load(state, now)
	if err != nil {
		return nil, false, 0, err
	}

	tokens := a.refill(s, now)

	if tokens >= 1 {
		next := tokenBucketState{Tokens: tokens - 1, Last: now.UnixNano()}
		raw, err := json.Marshal(next)
		if err != nil {
			return nil, false, 0, cerrs.New(ErrState, err)
		}
		return raw, true, 0, nil
	}

	retryAfter := time.Duration((1 - tokens) / a.Rate * float64(time.Second))
	return state, false, retryAfter, nil
}

func (a *tokenBucket) Describe(now time.Time, state []byte) (float64, float64, error) {
	s, err := a.load(state, now)
	if err != nil {
		return 0, 0, err
	}
	return a.Capacity - a.refill(s, now), a.Capacity, nil
}
