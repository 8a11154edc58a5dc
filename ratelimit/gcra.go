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

// gcra implements the Generic Cell Rate Algorithm: a single
// theoretical-arrival-time (TAT) value stands in for the whole
// sliding-window history, made burst-tolerant by Burst extra slots.
type gcra struct {
	Limit      int64
	WindowSize time.Duration
	Burst      int64
}

type gcraState struct {
	TAT int64 `json:"tat"`
}

func newGCRA(limit int64, window time.Duration, burst int64) *gcra {
	return &gcra{Limit: limit, WindowSize: window, Burst: burst}
}

func (a *gcra) emissionInterval() time.Duration {
	if a.Limit <= 0 {
		return a.WindowSize
	}
	return a.WindowSize / time.Duration(a.Limit)
}

func (a *gcra) load(state []byte) (gcraState, error) {
	if len(state) == 0 {
		return gcraState{}, nil
	}
	var s gcraState
	if err := json.Unmarshal(state, &s); err != nil {
		return gcraState{}, cerrs.New(ErrState, err)
	}
	return s, nil
}

func (a *gcra) Evaluate(now time.Time, state []byte) ([]byte, bool, time.Duration, error) {
	s, err := a.load(state)
	if err != nil {
		return nil, false, 0, err
	}

	interval := a.emissionInterval()
	tolerance := interval * time.Duration(a.Burst)

	tat := time.Unix(0, s.TAT)
	if tat.Before(now) {
		tat = now
	}

	allowAt := tat.Add(-tolerance)
	if now.Before(allowAt) {
		return state, false, allowAt.Sub(now), nil
	}

	next := gcraState{TAT: tat.Add(interval).UnixNano()}
	raw, err := json.Marshal(next)
	if err != nil {
		return nil, false, 0, cerrs.New(ErrState, err)
	}
	return raw, true, 0, nil
}

func (a *gcra) Describe(now time.Time, state []byte) (float64, float64, error) {
	s, err := a.load(state)
	if err != nil {
		return 0, 0, err
	}
	tat := time.Unix(0, s.TAT)
	remaining := tat.Sub(now).Seconds() / a.emissionInterval().Seconds()
	if remaining < 0 {
		remaining = 0
	}
	return remaining, float64(a.Burst + 1), nil
}
