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
	"fmt"
	"time"

	"github.com/nabbar/go-sessions/backendopt"
	"github.com/nabbar/go-sessions/cerrs"
	"github.com/nabbar/go-sessions/internal/metrics"
	"github.com/nabbar/go-sessions/pool"
)

// Waiter lets a caller substitute how Increment waits out a retryAfter
// interval: the zero Waiter sleeps the calling goroutine; a caller may
// supply its own through Config.Waiter. The session package does not
// set one.
type Waiter interface {
	Wait(ctx context.Context, d time.Duration) error
}

type blockingWaiter struct{}

func (blockingWaiter) Wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Config configures a Limiter.
type Config struct {
	Algorithm      backendopt.Algorithm
	Limit          int64
	Window         time.Duration
	Burst          int64 // GCRA only; ignored by the other four algorithms
	Granularity    backendopt.KeyGranularity
	Namespace      string
	TTL            time.Duration
	RaiseErrors    bool
	Waiter         Waiter
}

// Limiter is the request admission gate: Increment blocks (or
// cooperatively waits, via Config.Waiter) until the configured
// algorithm admits the key, or returns an error if RaiseErrors is set
// and the first attempt is denied.
type Limiter struct {
	cfg    Config
	algo   Algorithm
	st     store
	memTB  *memoryTokenBucket // set only for Algorithm=TokenBucket + Memory backend
	waiter Waiter
}

// New builds a Limiter backed by opts, acquiring (or reusing) the
// matching pool from reg.
func New(reg *pool.Registry, opts backendopt.Options, cfg Config) (*Limiter, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	l := &Limiter{cfg: cfg, waiter: cfg.Waiter}
	if l.waiter == nil {
		l.waiter = blockingWaiter{}
	}

	if opts.Kind() == backendopt.KindMemory && cfg.Algorithm == backendopt.AlgoTokenBucket {
		l.memTB = newMemoryTokenBucket(float64(cfg.Limit), cfg.Window)
		return l, nil
	}

	algo, err := buildAlgorithm(cfg)
	if err != nil {
		return nil, err
	}
	l.algo = algo

	switch o := opts.(type) {
	case backendopt.Memory:
		l.st = newMemoryStore(reg.Memory(o))
	case backendopt.SQL:
		st, err := newSQLStore(reg.SQL(o))
		if err != nil {
			return nil, err
		}
		l.st = st
	case backendopt.Redis:
		l.st = newRedisStore(reg.Redis(o))
	default:
		return nil, cerrs.New(ErrBackend, fmt.Errorf("unsupported backend options type %T", opts))
	}

	return l, nil
}

func buildAlgorithm(cfg Config) (Algorithm, error) {
	switch cfg.Algorithm {
	case backendopt.AlgoSlidingWindow:
		return newSlidingWindow(cfg.Limit, cfg.Window), nil
	case backendopt.AlgoFixedWindow:
		return newFixedWindow(cfg.Limit, cfg.Window), nil
	case backendopt.AlgoTokenBucket:
		return newTokenBucket(float64(cfg.Limit), cfg.Window), nil
	case backendopt.AlgoLeakyBucket:
		return newLeakyBucket(float64(cfg.Limit), cfg.Window), nil
	case backendopt.AlgoGCRA:
		return newGCRA(cfg.Limit, cfg.Window, cfg.Burst), nil
	default:
		return nil, cerrs.New(ErrUnknownAlgorithm, fmt.Errorf("algorithm %q", cfg.Algorithm))
	}
}

func (l *Limiter) evaluate(ctx context.Context, key string) (bool, time.Duration, error) {
	if l.memTB != nil {
		return l.memTB.evaluate(ctx, key)
	}
	return l.st.evaluate(ctx, key, l.cfg.TTL, l.algo)
}

// Increment blocks until method+rawURL (with any extraKeys) is
// admitted. Denied attempts record no admission: if ctx is
// cancelled while waiting, Increment returns ctx.Err() without ever
// re-evaluating. If Config.RaiseErrors is set, the first denial
// returns ErrLimited immediately instead of waiting.
func (l *Limiter) Increment(ctx context.Context, method, rawURL string, extraKeys ...string) error {
	key, err := deriveKey(l.cfg.Namespace, l.cfg.Granularity, method, rawURL, extraKeys...)
	if err != nil {
		return err
	}

	start := time.Now()
	for {
		allowed, retryAfter, err := l.evaluate(ctx, key)
		if err != nil {
			l.observeWait(start, "error")
			return err
		}
		if allowed {
			l.observeWait(start, "admitted")
			return nil
		}
		if l.cfg.RaiseErrors {
			l.observeWait(start, "limited")
			return cerrs.New(ErrLimited, nil)
		}
		if err := l.waiter.Wait(ctx, retryAfter); err != nil {
			l.observeWait(start, "cancelled")
			return err
		}
	}
}

func (l *Limiter) observeWait(start time.Time, outcome string) {
	metrics.RateLimitWaitSeconds.WithLabelValues(string(l.cfg.Algorithm), outcome).Observe(time.Since(start).Seconds())
}

// Rate reports the current admission state for method+rawURL: used
// (requests consumed in the current window/bucket) and limit (the
// configured ceiling), for diagnostics. For the token-bucket algorithm
// on the InMemory backend the bucket is not inspected and used is
// always reported as 0.
func (l *Limiter) Rate(ctx context.Context, method, rawURL string, extraKeys ...string) (used, limit float64, err error) {
	key, err := deriveKey(l.cfg.Namespace, l.cfg.Granularity, method, rawURL, extraKeys...)
	if err != nil {
		return 0, 0, err
	}
	if l.memTB != nil {
		return 0, float64(l.cfg.Limit), nil
	}
	return l.st.describe(ctx, key, l.algo)
}

// Close releases the Limiter's reference to its backing pool.
func (l *Limiter) Close() {
	if l.st != nil {
		l.st.close()
	}
}
