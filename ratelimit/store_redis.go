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

	"github.com/go-redis/redis/v8"
	"github.com/nabbar/go-sessions/cerrs"
	"github.com/nabbar/go-sessions/pool"
)

// redisStore drives Algorithm.Evaluate through an optimistic
// WATCH/MULTI/EXEC retry loop, setting EXPIRE on every write, and
// retries on redis.TxFailedErr the way the go-redis client documents
// for this pattern.
type redisStore struct {
	rp *pool.RedisPool
}

func newRedisStore(rp *pool.RedisPool) *redisStore {
	return &redisStore{rp: rp}
}

const maxOptimisticRetries = 10

func (s *redisStore) evaluate(ctx context.Context, key string, ttl time.Duration, algo Algorithm) (bool, time.Duration, error) {
	cli := s.rp.Client()

	var (
		allowed    bool
		retryAfter time.Duration
	)

	for attempt := 0; attempt < maxOptimisticRetries; attempt++ {
		txFn := func(tx *redis.Tx) error {
			raw, err := tx.Get(ctx, key).Bytes()
			if err != nil && err != redis.Nil {
				return err
			}

			next, ok, wait, evalErr := algo.Evaluate(time.Now(), raw)
			allowed, retryAfter = ok, wait
			if evalErr != nil {
				return evalErr
			}
			if !ok {
				return nil
			}

			_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
				if ttl > 0 {
					p.Set(ctx, key, next, ttl)
				} else {
					p.Set(ctx, key, next, 0)
				}
				return nil
			})
			return err
		}

		err := cli.Watch(ctx, txFn, key)
		if err == redis.TxFailedErr {
			continue
		}
		if err != nil {
			return false, 0, cerrs.New(ErrBackend, err)
		}
		return allowed, retryAfter, nil
	}

	return false, 0, cerrs.New(ErrBackend, nil)
}

func (s *redisStore) describe(ctx context.Context, key string, algo Algorithm) (float64, float64, error) {
	raw, err := s.rp.Client().Get(ctx, key).Bytes()
	if err != nil && err != redis.Nil {
		return 0, 0, cerrs.New(ErrBackend, err)
	}
	return algo.Describe(time.Now(), raw)
}

func (s *redisStore) close() {}
