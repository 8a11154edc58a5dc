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

	"github.com/go-redis/redis/v8"
	"github.com/nabbar/go-sessions/cerrs"
	"github.com/nabbar/go-sessions/pool"
)

type redisBackend struct {
	rp *pool.RedisPool
}

func newRedisBackend(rp *pool.RedisPool) *redisBackend {
	return &redisBackend{rp: rp}
}

// get uses GETEX to fetch-and-renew in one round trip when renew is
// requested, extended uniformly across backends rather than limited
// to this one.
func (b *redisBackend) get(ctx context.Context, key string, renew bool, ttl time.Duration) ([]byte, bool, error) {
	cli := b.rp.Client()

	var cmd *redis.StringCmd
	if renew && ttl > 0 {
		cmd = cli.GetEx(ctx, key, ttl)
	} else {
		cmd = cli.Get(ctx, key)
	}

	val, err := cmd.Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, cerrs.New(ErrBackend, err)
	}
	return val, true, nil
}

func (b *redisBackend) set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	cli := b.rp.Client()
	if err := cli.Set(ctx, key, value, ttl).Err(); err != nil {
		return cerrs.New(ErrBackend, err)
	}
	return nil
}

func (b *redisBackend) delete(ctx context.Context, key string) error {
	if err := b.rp.Client().Del(ctx, key).Err(); err != nil {
		return cerrs.New(ErrBackend, err)
	}
	return nil
}

// keys scans for cache keys only, filtering by the ":cache" suffix so
// rate-limiter and pool bookkeeping keys sharing the same Redis
// instance never leak into cache listings.
func (b *redisBackend) keys(ctx context.Context) ([]string, error) {
	cli := b.rp.Client()
	var out []string
	var cursor uint64
	for {
		var batch []string
		var err error
		batch, cursor, err = cli.Scan(ctx, cursor, "*"+suffix, 100).Result()
		if err != nil {
			return nil, cerrs.New(ErrBackend, err)
		}
		out = append(out, batch...)
		if cursor == 0 {
			break
		}
	}
	return out, nil
}

func (b *redisBackend) items(ctx context.Context) (map[string][]byte, error) {
	keys, err := b.keys(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(keys))
	cli := b.rp.Client()
	for _, k := range keys {
		v, err := cli.Get(ctx, k).Bytes()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, cerrs.New(ErrBackend, err)
		}
		out[k] = v
	}
	return out, nil
}

func (b *redisBackend) clear(ctx context.Context) error {
	keys, err := b.keys(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	if err := b.rp.Client().Del(ctx, keys...).Err(); err != nil {
		return cerrs.New(ErrBackend, err)
	}
	return nil
}

func (b *redisBackend) close() {}
