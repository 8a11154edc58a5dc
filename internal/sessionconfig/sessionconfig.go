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

// Package sessionconfig loads Session construction options from a
// YAML/TOML/JSON file or the environment via spf13/viper, as an
// alternative to building a session.Config literal in Go. Rate-limit
// parameters can additionally be hot-reloaded while the process runs,
// via viper.WatchConfig.
package sessionconfig

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// RateLimitParams is the subset of rate-limit knobs this package
// supports reloading without rebuilding the whole Session: the limit
// and window of the window-based algorithms, and the capacity and fill
// rate of the bucket-based ones.
type RateLimitParams struct {
	Limit    int64
	Window   time.Duration
	Capacity int64
	FillRate float64
}

// File wraps a loaded viper instance, exposing the subset of Session
// options this module understands plus optional hot-reload of
// RateLimitParams.
type File struct {
	v *viper.Viper

	mu     sync.RWMutex
	params RateLimitParams
}

// Load reads path (format inferred from its extension) and environment
// variables prefixed GOSESSIONS_ into a new File.
func Load(path string) (*File, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("gosessions")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("backend", "memory")
	v.SetDefault("cache", false)
	v.SetDefault("ratelimit", false)
	v.SetDefault("ratelimit.sleep_duration", 0.1)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("sessionconfig: reading %s: %w", path, err)
	}

	f := &File{v: v}
	f.reload()
	return f, nil
}

func (f *File) reload() {
	p := RateLimitParams{
		Limit:    f.v.GetInt64("ratelimit.limit"),
		Window:   f.v.GetDuration("ratelimit.window"),
		Capacity: f.v.GetInt64("ratelimit.capacity"),
		FillRate: f.v.GetFloat64("ratelimit.fill_rate"),
	}
	f.mu.Lock()
	f.params = p
	f.mu.Unlock()
}

// Backend returns the configured backend discriminator ("memory",
// "sqlite", or "redis").
func (f *File) Backend() string { return f.v.GetString("backend") }

// CacheEnabled reports whether caching is enabled by default.
func (f *File) CacheEnabled() bool { return f.v.GetBool("cache") }

// RateLimitEnabled reports whether rate-limiting is enabled by default.
func (f *File) RateLimitEnabled() bool { return f.v.GetBool("ratelimit") }

// Algorithm returns the configured rate-limiter algorithm name, before
// alias canonicalization.
func (f *File) Algorithm() string { return f.v.GetString("ratelimit.type") }

// RateLimit returns the current rate-limit parameters, safe to call
// concurrently with a Watch-triggered reload.
func (f *File) RateLimit() RateLimitParams {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.params
}

// Watch starts viper's filesystem watch and invokes onChange with the
// freshly reloaded RateLimitParams every time the underlying file is
// rewritten. Typical callers rebuild their ratelimit.Limiter from the
// callback rather than mutating one in place, since there's no
// live-swap semantics for an in-flight Limiter.
func (f *File) Watch(onChange func(RateLimitParams)) {
	f.v.OnConfigChange(func(_ fsnotify.Event) {
		f.reload()
		if onChange != nil {
			onChange(f.RateLimit())
		}
	})
	f.v.WatchConfig()
}
