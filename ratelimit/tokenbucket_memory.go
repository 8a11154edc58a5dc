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
	"sync"
	"time"

	"github.com/juju/ratelimit"
)

// memoryTokenBucket keeps one live *ratelimit.Bucket per key, entirely
// in-process. It bypasses the generic store/Algorithm split used by
// the other four algorithms because juju/ratelimit's Bucket owns its
// own clock and isn't meant to be marshaled; that's fine here since the
// InMemory backend never needs to survive past the process anyway.
type memoryTokenBucket struct {
	capacity float64
	rate     float64

	mu      sync.Mutex
	buckets map[string]*ratelimit.Bucket
}

func newMemoryTokenBucket(capacity float64, window time.Duration) *memoryTokenBucket {
	return &memoryTokenBucket{
		capacity: capacity,
		rate:     capacity / window.Seconds(),
		buckets:  make(map[string]*ratelimit.Bucket),
	}
}

func (m *memoryTokenBucket) bucketFor(key string) *ratelimit.Bucket {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.buckets[key]
	if !ok {
		b = ratelimit.NewBucketWithRate(m.rate, int64(m.capacity))
		m.buckets[key] = b
	}
	return b
}

// evaluate mirrors Algorithm.Evaluate's signature but needs no state
// parameter: the *ratelimit.Bucket already holds it. TakeAvailable,
// unlike Take, never puts the bucket into debt for tokens it couldn't
// actually hand out, so a denial here records nothing.
func (m *memoryTokenBucket) evaluate(_ context.Context, key string) (allowed bool, retryAfter time.Duration, err error) {
	b := m.bucketFor(key)
	if b.TakeAvailable(1) == 1 {
		return true, 0, nil
	}
	return false, time.Duration(float64(time.Second) / m.rate), nil
}
