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

package session

import (
	"github.com/sirupsen/logrus"

	"github.com/nabbar/go-sessions/backendopt"
	"github.com/nabbar/go-sessions/callback"
	"github.com/nabbar/go-sessions/cache"
	"github.com/nabbar/go-sessions/pool"
	"github.com/nabbar/go-sessions/ratelimit"
	"github.com/nabbar/go-sessions/useragent"
)

// Config enumerates every option a Session can be constructed with.
type Config struct {
	// Headers is merged as the session's default header set; a per-call
	// header with the same (case-insensitive) name always wins.
	Headers map[string]string

	// HTTP2 enables HTTP/2 negotiation on the default Transport. Ignored
	// if Transport is set explicitly.
	HTTP2 bool
	// Transport overrides the default go-retryablehttp-backed Transport.
	Transport Transport

	// RandomUserAgents injects a UserAgents-provided string when the
	// caller hasn't supplied one of its own.
	RandomUserAgents bool
	UserAgents       useragent.Provider

	// Threaded spawns a bounded worker pool at construction, used by
	// RequestAsync instead of one ad hoc goroutine per call. Requests
	// does not run on that pool: it starts its own goroutines, and
	// Threaded with a positive WorkerCount only caps how many run at
	// once. See doc.go for why a single Session.Request already covers
	// both blocking and cooperative call styles.
	Threaded    bool
	WorkerCount int // only meaningful with Threaded; default 8

	// Registry is the pool registry cache/ratelimit backends acquire
	// their resources from. Defaults to pool.Default.
	Registry *pool.Registry

	// Cache, if true, enables caching by default for every request;
	// CacheBackend/CacheConfig build it.
	Cache        bool
	CacheBackend backendopt.Options
	CacheConfig  cache.Config

	// RateLimit, if true, enables rate-limiting by default for every
	// request; RateLimitBackend/RateLimitConfig build it.
	RateLimit        bool
	RateLimitBackend backendopt.Options
	RateLimitConfig  ratelimit.Config

	// Callbacks configures the per-request callback runner's
	// error-isolation and result-capture policy.
	Callbacks callback.Config

	// RaiseErrors controls the error-handling branch: false (default)
	// catches transport failures into a synthesized response; true
	// propagates them to the caller instead. It is also threaded into
	// RateLimitConfig.RaiseErrors by New so one flag governs both kinds
	// of admission/transport failure.
	RaiseErrors bool

	// ConfigFile, if set, loads a YAML/TOML/JSON file (plus GOSESSIONS_
	// environment overrides) via internal/sessionconfig and applies it
	// wherever the fields above are still at their zero value: Cache,
	// RateLimit, RateLimitConfig.Algorithm/Limit/Window/Burst, and the backend
	// Kind for whichever of Cache/RateLimit ends up enabled. An explicit
	// field always wins over the file. Once RateLimit is enabled this
	// way, the file is watched for the Session's lifetime and reloaded
	// rate-limit parameters are logged (see New).
	ConfigFile string

	Logger logrus.FieldLogger
}
