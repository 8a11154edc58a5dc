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
	"fmt"
	"time"

	"github.com/nabbar/go-sessions/backendopt"
	"github.com/nabbar/go-sessions/cerrs"
	"github.com/nabbar/go-sessions/internal/metrics"
	"github.com/nabbar/go-sessions/pool"
)

// Config configures a Cache instance.
type Config struct {
	Namespace string
	TTL       time.Duration
	Codec     Codec
	// RenewOnGet extends an entry's TTL on every successful Get (Open
	// applied uniformly across all three backends).
	RenewOnGet bool
}

// Cache is the pluggable response cache: store/fetch/evict keyed by
// URL, with TTL expiration and optional compression, delegating to
// whichever backend (memory/sqlite/redis) its Options select.
type Cache struct {
	cfg  Config
	b    backend
	kind backendopt.Kind
}

// New builds a Cache backed by opts, acquiring (or reusing) the
// matching pool from reg.
func New(reg *pool.Registry, opts backendopt.Options, cfg Config) (*Cache, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var b backend
	switch o := opts.(type) {
	case backendopt.Memory:
		b = newMemoryBackend(reg.Memory(o))
	case backendopt.SQL:
		sb, err := newSQLBackend(reg.SQL(o))
		if err != nil {
			return nil, err
		}
		b = sb
	case backendopt.Redis:
		b = newRedisBackend(reg.Redis(o))
	default:
		return nil, cerrs.New(ErrBackend, fmt.Errorf("unsupported backend options type %T", opts))
	}

	return &Cache{cfg: cfg, b: b, kind: opts.Kind()}, nil
}

// Contains reports whether key is present and unexpired.
func (c *Cache) Contains(ctx context.Context, key string) (bool, error) {
	_, ok, err := c.b.get(ctx, deriveKey(c.cfg.Namespace, key), false, 0)
	return ok, err
}

// Get fetches and decompresses the value stored under key. ok is false
// if the key is absent or expired.
func (c *Cache) Get(ctx context.Context, key string) (value []byte, ok bool, err error) {
	raw, ok, err := c.b.get(ctx, deriveKey(c.cfg.Namespace, key), c.cfg.RenewOnGet, c.cfg.TTL)
	if err != nil {
		return nil, false, err
	}
	if ok {
		metrics.CacheLookupTotal.WithLabelValues(string(c.kind), "hit").Inc()
	} else {
		metrics.CacheLookupTotal.WithLabelValues(string(c.kind), "miss").Inc()
		return nil, false, nil
	}
	value, err = c.cfg.Codec.decompress(raw)
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Set compresses and stores value under key, applying the Cache's
// configured TTL.
func (c *Cache) Set(ctx context.Context, key string, value []byte) error {
	raw, err := c.cfg.Codec.compress(value)
	if err != nil {
		return err
	}
	return c.b.set(ctx, deriveKey(c.cfg.Namespace, key), raw, c.cfg.TTL)
}

// Delete evicts key, if present.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.b.delete(ctx, deriveKey(c.cfg.Namespace, key))
}

// Keys lists every cache key currently stored (still carrying the
// namespace/":cache" wrapping applied by deriveKey).
func (c *Cache) Keys(ctx context.Context) ([]string, error) {
	return c.b.keys(ctx)
}

// Values lists every cached (decompressed) value.
func (c *Cache) Values(ctx context.Context) ([][]byte, error) {
	items, err := c.b.items(ctx)
	if err != nil {
		return nil, err
	}
	out := make([][]byte, 0, len(items))
	for _, raw := range items {
		v, err := c.cfg.Codec.decompress(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Items returns the full key/value snapshot, decompressed.
func (c *Cache) Items(ctx context.Context) (map[string][]byte, error) {
	items, err := c.b.items(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(items))
	for k, raw := range items {
		v, err := c.cfg.Codec.decompress(raw)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

// Clear evicts every cache entry.
func (c *Cache) Clear(ctx context.Context) error {
	return c.b.clear(ctx)
}

// Close releases the Cache's reference to its backing pool. Callers
// that built the Cache through a shared *pool.Registry should pair
// this with Registry.Release using the same backendopt.Identity.
func (c *Cache) Close() {
	c.b.close()
}
