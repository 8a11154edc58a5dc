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

	"github.com/nabbar/go-sessions/backendopt"
)

// closeable is satisfied by every concrete pool type.
type closeable interface {
	Close()
}

// entryRef reference-counts one pool instance so it is never torn down
// while a session still references it, and stays safe under
// concurrent session construction and teardown.
type entryRef struct {
	refs int
	pool closeable
}

// Registry is the process-wide pool registry keyed by (backend-kind,
// options-identity). Lookup-or-create is atomic under a single mutex;
// the pools themselves run their own, separate locking for operations;
// the registry mutex covers only lookup/create.
type Registry struct {
	mu      sync.Mutex
	entries map[backendopt.Identity]*entryRef
}

// NewRegistry constructs an empty Registry. Most callers share the
// package-level Default registry instead.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[backendopt.Identity]*entryRef)}
}

// Default is the process-wide registry instance, shared by every
// Session that doesn't supply its own.
var Default = NewRegistry()

func (r *Registry) acquire(id backendopt.Identity, create func() closeable) closeable {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		e = &entryRef{pool: create()}
		r.entries[id] = e
	}
	e.refs++
	return e.pool
}

// Release decrements the refcount for id, closing and evicting the pool
// once it reaches zero.
func (r *Registry) Release(id backendopt.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return
	}
	e.refs--
	if e.refs <= 0 {
		e.pool.Close()
		delete(r.entries, id)
	}
}

// Memory returns (creating if absent) the MemoryPool for opts.
func (r *Registry) Memory(opts backendopt.Memory) *MemoryPool {
	return r.acquire(opts.Identity(), func() closeable {
		return NewMemoryPool(opts)
	}).(*MemoryPool)
}

// SQL returns (creating if absent) the SQLPool for opts.
func (r *Registry) SQL(opts backendopt.SQL) *SQLPool {
	return r.acquire(opts.Identity(), func() closeable {
		return NewSQLPool(opts)
	}).(*SQLPool)
}

// Redis returns (creating if absent) the RedisPool for opts.
func (r *Registry) Redis(opts backendopt.Redis) *RedisPool {
	return r.acquire(opts.Identity(), func() closeable {
		return NewRedisPool(opts)
	}).(*RedisPool)
}
