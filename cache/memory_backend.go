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

package cache

import (
	"context"
	"time"

	"github.com/nabbar/go-sessions/pool"
)

type memoryBackend struct {
	p *pool.MemoryPool
}

func newMemoryBackend(p *pool.MemoryPool) *memoryBackend {
	return &memoryBackend{p: p}
}

func (b *memoryBackend) get(_ context.Context, key string, renew bool, ttl time.Duration) ([]byte, bool, error) {
	e, ok := b.p.Get(key)
	if !ok {
		return nil, false, nil
	}
	if renew && ttl > 0 {
		e.Expiration = time.Now().Add(ttl)
		b.p.Set(key, e)
	}
	return e.Value, true, nil
}

func (b *memoryBackend) set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := pool.Entry{Namespace: pool.NamespaceCache, Value: value}
	if ttl > 0 {
		e.Expiration = time.Now().Add(ttl)
	}
	b.p.Set(key, e)
	return nil
}

func (b *memoryBackend) delete(_ context.Context, key string) error {
	b.p.Delete(key)
	return nil
}

func (b *memoryBackend) keys(_ context.Context) ([]string, error) {
	return b.p.Keys(pool.NamespaceCache), nil
}

func (b *memoryBackend) items(_ context.Context) (map[string][]byte, error) {
	return b.p.Items(pool.NamespaceCache), nil
}

func (b *memoryBackend) clear(_ context.Context) error {
	b.p.Clear(pool.NamespaceCache)
	return nil
}

func (b *memoryBackend) close() {}
