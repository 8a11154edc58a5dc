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

package pool

import (
	"sync"
	"time"

	"github.com/nabbar/go-sessions/backendopt"
)

// MemoryPool is the single shared mapping backing the InMemory backend.
// All operations take the pool-wide mutex only for their own critical
// region; the periodic sweep runs at most once per CheckFrequency,
// triggered lazily by the first access past the deadline.
type MemoryPool struct {
	opts backendopt.Memory

	mu         sync.Mutex
	data       map[string]Entry
	nextSweep  time.Time
}

// NewMemoryPool constructs a MemoryPool. Exported for tests; production
// callers go through Registry.Memory.
func NewMemoryPool(opts backendopt.Memory) *MemoryPool {
	return &MemoryPool{
		opts:      opts,
		data:      make(map[string]Entry),
		nextSweep: time.Now().Add(checkFrequencyDuration(opts)),
	}
}

func checkFrequencyDuration(opts backendopt.Memory) time.Duration {
	if opts.CheckFrequency <= 0 {
		return time.Hour
	}
	return time.Duration(opts.CheckFrequency * float64(time.Second))
}

func (p *MemoryPool) maybeSweep(now time.Time) {
	if !now.After(p.nextSweep) {
		return
	}
	for k, e := range p.data {
		if e.Expired(now) {
			delete(p.data, k)
		}
	}
	p.nextSweep = now.Add(checkFrequencyDuration(p.opts))
}

// Get returns the entry for key, or ok=false if absent or expired
// (expired entries are lazily evicted here too, not just by the sweep).
func (p *MemoryPool) Get(key string) (Entry, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	p.maybeSweep(now)

	e, ok := p.data[key]
	if !ok {
		return Entry{}, false
	}
	if e.Expired(now) {
		delete(p.data, key)
		return Entry{}, false
	}
	return e, true
}

// Set stores e under key.
func (p *MemoryPool) Set(key string, e Entry) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.maybeSweep(time.Now())
	p.data[key] = e
}

// Delete idempotently removes key.
func (p *MemoryPool) Delete(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.data, key)
}

// Mutate runs fct with the pool lock held, loading the current entry (if
// any, non-expired) and storing back whatever fct returns when ok=true.
// This is the atomic read-modify-write primitive the rate-limiter
// algorithms use to keep an ok+admit pair atomic with respect to
// other concurrent callers.
func (p *MemoryPool) Mutate(key string, fct func(cur Entry, exists bool) (next Entry, ok bool)) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	p.maybeSweep(now)

	cur, exists := p.data[key]
	if exists && cur.Expired(now) {
		exists = false
	}

	next, ok := fct(cur, exists)
	if ok {
		p.data[key] = next
	}
}

// Keys returns a snapshot of keys in the given namespace.
func (p *MemoryPool) Keys(ns Namespace) []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	out := make([]string, 0, len(p.data))
	for k, e := range p.data {
		if e.Namespace == ns && !e.Expired(now) {
			out = append(out, k)
		}
	}
	return out
}

// Items returns a snapshot of (key, value) pairs in the given namespace.
func (p *MemoryPool) Items(ns Namespace) map[string][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	out := make(map[string][]byte)
	for k, e := range p.data {
		if e.Namespace == ns && !e.Expired(now) {
			out[k] = e.Value
		}
	}
	return out
}

// Clear removes every entry in the given namespace, leaving the other
// namespace untouched.
func (p *MemoryPool) Clear(ns Namespace) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for k, e := range p.data {
		if e.Namespace == ns {
			delete(p.data, k)
		}
	}
}

// Close is a no-op: the InMemory backend owns no external resource. It
// exists so MemoryPool satisfies the registry's closeable entry slot.
func (p *MemoryPool) Close() {}
