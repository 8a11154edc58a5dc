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
	"context"
	"time"

	"github.com/nabbar/go-sessions/pool"
)

// memoryStore drives Algorithm.Evaluate through pool.MemoryPool.Mutate,
// which already gives exactly the atomic-CAS semantics the algorithms
// need (grounded on pool/memory.go, written for this same purpose on
// the cache side).
type memoryStore struct {
	p *pool.MemoryPool
}

func newMemoryStore(p *pool.MemoryPool) *memoryStore {
	return &memoryStore{p: p}
}

func (s *memoryStore) evaluate(_ context.Context, key string, ttl time.Duration, algo Algorithm) (bool, time.Duration, error) {
	var (
		allowed    bool
		retryAfter time.Duration
		evalErr    error
	)

	s.p.Mutate(key, func(cur pool.Entry, exists bool) (pool.Entry, bool) {
		raw := cur.Value
		if !exists {
			raw = nil
		}

		next, ok, wait, err := algo.Evaluate(time.Now(), raw)
		allowed, retryAfter, evalErr = ok, wait, err
		if err != nil || !ok {
			return pool.Entry{}, false
		}

		e := pool.Entry{Namespace: pool.NamespaceRatelimit, Value: next}
		if ttl > 0 {
			e.Expiration = time.Now().Add(ttl)
		}
		return e, true
	})

	return allowed, retryAfter, evalErr
}

func (s *memoryStore) describe(_ context.Context, key string, algo Algorithm) (float64, float64, error) {
	e, _ := s.p.Get(key)
	return algo.Describe(time.Now(), e.Value)
}

func (s *memoryStore) close() {}
