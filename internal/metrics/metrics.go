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

// Package metrics holds the package-level Prometheus collectors shared
// by pool, cache, and ratelimit. They register themselves against
// prometheus.DefaultRegisterer in this package's init; a caller exposes them the
// usual way, wiring promhttp.Handler() into its own mux.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "go_sessions"

// PoolAcquireTotal counts pool.Acquire calls by backend kind and
// whether the connection was reused from the idle set (opened="false")
// or freshly opened (opened="true").
var PoolAcquireTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "pool_acquire_total",
	Help:      "Connections handed out by Acquire, by backend kind and whether a new connection had to be opened.",
}, []string{"kind", "opened"})

// CacheLookupTotal counts Cache.Get calls by backend kind and hit/miss
// outcome.
var CacheLookupTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "cache_lookup_total",
	Help:      "Cache lookups, by backend kind and hit/miss outcome.",
}, []string{"kind", "result"})

// RateLimitWaitSeconds observes the time Limiter.Increment spends
// blocked on admission, by algorithm and how the call ended.
var RateLimitWaitSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Name:      "ratelimit_wait_seconds",
	Help:      "Time Increment spent waiting for admission, by algorithm and outcome.",
	Buckets:   prometheus.DefBuckets,
}, []string{"algorithm", "outcome"})

func init() {
	prometheus.MustRegister(PoolAcquireTotal, CacheLookupTotal, RateLimitWaitSeconds)
}
