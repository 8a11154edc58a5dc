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
	"context"
	"io"
	"sync/atomic"

	"github.com/hashicorp/go-uuid"
	"github.com/sirupsen/logrus"

	"github.com/nabbar/go-sessions/backendopt"
	"github.com/nabbar/go-sessions/cache"
	"github.com/nabbar/go-sessions/cerrs"
	"github.com/nabbar/go-sessions/internal/rlog"
	"github.com/nabbar/go-sessions/internal/sessionconfig"
	"github.com/nabbar/go-sessions/pool"
	"github.com/nabbar/go-sessions/ratelimit"
	"github.com/nabbar/go-sessions/response"
	"github.com/nabbar/go-sessions/useragent"
)

// Session is the request orchestrator: a Transport capability plus
// optional Cache and Limiter capabilities, composed rather than
// inherited (see doc.go). A Session is safe for concurrent use by multiple
// goroutines: Go's runtime already multiplexes goroutines
// cooperatively, so Request is the one code path both a blocking call
// style and a cooperative one share (see RequestAsync for the explicit
// non-blocking entry point).
type Session struct {
	cfg Config

	transport Transport
	cache     *cache.Cache
	limiter   *ratelimit.Limiter

	registry        *pool.Registry
	cacheIdentity   backendopt.Identity
	limiterIdentity backendopt.Identity
	hasCacheID      bool
	hasLimiterID    bool

	raiseErrors bool

	id  string
	log logrus.FieldLogger

	workers chan func()
	closed  atomic.Bool
}

// New builds a Session from cfg, acquiring a Cache and/or Limiter from
// cfg.Registry (or pool.Default) when cfg.Cache/cfg.RateLimit are set.
func New(cfg Config) (*Session, error) {
	s := &Session{cfg: cfg, raiseErrors: cfg.RaiseErrors}

	s.registry = cfg.Registry
	if s.registry == nil {
		s.registry = pool.Default
	}

	s.transport = cfg.Transport
	if s.transport == nil {
		s.transport = NewDefaultTransport(cfg.HTTP2)
	}

	if cfg.Logger == nil {
		cfg.Logger = rlog.Default()
		s.cfg.Logger = cfg.Logger
	}

	if cfg.RandomUserAgents && cfg.UserAgents == nil {
		s.cfg.UserAgents = useragent.NewDefault()
	}

	id, err := uuid.GenerateUUID()
	if err != nil {
		id = "unidentified"
	}
	s.id = id
	s.log = rlog.Component(s.cfg.Logger, "session").WithField("session_id", id)

	var cf *sessionconfig.File
	if cfg.ConfigFile != "" {
		cf, err = sessionconfig.Load(cfg.ConfigFile)
		if err != nil {
			return nil, cerrs.New(ErrConfigFile, err)
		}
		applyConfigFile(&cfg, cf, s.log)
		s.cfg = cfg
	}

	if cfg.Cache {
		c, err := cache.New(s.registry, cfg.CacheBackend, cfg.CacheConfig)
		if err != nil {
			return nil, err
		}
		s.cache = c
		s.cacheIdentity = cfg.CacheBackend.Identity()
		s.hasCacheID = true
	}

	if cfg.RateLimit {
		cfg.RateLimitConfig.RaiseErrors = cfg.RateLimitConfig.RaiseErrors || cfg.RaiseErrors
		l, err := ratelimit.New(s.registry, cfg.RateLimitBackend, cfg.RateLimitConfig)
		if err != nil {
			return nil, err
		}
		s.limiter = l
		s.limiterIdentity = cfg.RateLimitBackend.Identity()
		s.hasLimiterID = true

		if cf != nil {
			cf.Watch(func(p sessionconfig.RateLimitParams) {
				s.log.WithFields(logrus.Fields{
					"limit": p.Limit, "window": p.Window,
				}).Info("sessionconfig: rate limit parameters reloaded; rebuild the Session to apply them")
			})
		}
	}

	if cfg.Threaded {
		n := cfg.WorkerCount
		if n <= 0 {
			n = 8
		}
		s.workers = make(chan func(), n*4)
		for i := 0; i < n; i++ {
			go s.workerLoop()
		}
	}

	return s, nil
}

func (s *Session) workerLoop() {
	for fn := range s.workers {
		fn()
	}
}

// Close tears down the Session: stops the worker pool (if Threaded),
// releases its Cache/Limiter, and releases its pool-registry
// references.
func (s *Session) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	if s.workers != nil {
		close(s.workers)
	}
	if s.cache != nil {
		s.cache.Close()
	}
	if s.limiter != nil {
		s.limiter.Close()
	}
	if s.hasCacheID {
		s.registry.Release(s.cacheIdentity)
	}
	if s.hasLimiterID {
		s.registry.Release(s.limiterIdentity)
	}
	return nil
}

// CacheContains reports whether url is present in the Session's cache,
// unexpired. It is false, nil whenever the Session has no cache configured.
func (s *Session) CacheContains(ctx context.Context, url string) (bool, error) {
	if s.cache == nil {
		return false, nil
	}
	return s.cache.Contains(ctx, url)
}

// convenience shorthands for the common HTTP methods.

func (s *Session) Get(ctx context.Context, url string, opts RequestOptions) (*response.Response, error) {
	return s.Request(ctx, "GET", url, opts)
}

func (s *Session) Head(ctx context.Context, url string, opts RequestOptions) (*response.Response, error) {
	return s.Request(ctx, "HEAD", url, opts)
}

func (s *Session) Options(ctx context.Context, url string, opts RequestOptions) (*response.Response, error) {
	return s.Request(ctx, "OPTIONS", url, opts)
}

func (s *Session) Delete(ctx context.Context, url string, opts RequestOptions) (*response.Response, error) {
	return s.Request(ctx, "DELETE", url, opts)
}

func (s *Session) Post(ctx context.Context, url string, body io.Reader, opts RequestOptions) (*response.Response, error) {
	opts.Body = body
	return s.Request(ctx, "POST", url, opts)
}

func (s *Session) Put(ctx context.Context, url string, body io.Reader, opts RequestOptions) (*response.Response, error) {
	opts.Body = body
	return s.Request(ctx, "PUT", url, opts)
}

func (s *Session) Patch(ctx context.Context, url string, body io.Reader, opts RequestOptions) (*response.Response, error) {
	opts.Body = body
	return s.Request(ctx, "PATCH", url, opts)
}

// applyConfigFile fills in cfg's zero-valued Cache/RateLimit fields from
// cf, leaving anything the caller already set untouched. It only turns
// Cache/RateLimit on when it can also resolve a backend for them: an
// Options value is a non-nil interface, so enabling either capability
// without one would panic the first time New calls its Identity method.
func applyConfigFile(cfg *Config, cf *sessionconfig.File, log logrus.FieldLogger) {
	if cf.CacheEnabled() && !cfg.Cache {
		if cfg.CacheBackend == nil {
			if b, ok := memoryBackendFor(cf.Backend()); ok {
				cfg.CacheBackend = b
			} else {
				log.WithField("backend", cf.Backend()).Warn("sessionconfig: cache enabled but backend kind needs an explicit CacheBackend; leaving cache disabled")
			}
		}
		cfg.Cache = cfg.CacheBackend != nil
	}

	if cf.RateLimitEnabled() && !cfg.RateLimit {
		if cfg.RateLimitBackend == nil {
			if b, ok := memoryBackendFor(cf.Backend()); ok {
				cfg.RateLimitBackend = b
			} else {
				log.WithField("backend", cf.Backend()).Warn("sessionconfig: rate limit enabled but backend kind needs an explicit RateLimitBackend; leaving rate limit disabled")
			}
		}
		cfg.RateLimit = cfg.RateLimitBackend != nil
	}

	if cfg.RateLimit {
		if cfg.RateLimitConfig.Algorithm == "" {
			if algo, ok := backendopt.CanonicalAlgorithm(cf.Algorithm()); ok {
				cfg.RateLimitConfig.Algorithm = algo
			}
		}

		p := cf.RateLimit()
		if cfg.RateLimitConfig.Limit == 0 {
			cfg.RateLimitConfig.Limit = p.Limit
		}
		if cfg.RateLimitConfig.Window == 0 {
			cfg.RateLimitConfig.Window = p.Window
		}
		if cfg.RateLimitConfig.Burst == 0 {
			cfg.RateLimitConfig.Burst = p.Capacity
		}
	}
}

// memoryBackendFor returns the in-memory backend for kind "memory";
// sqlite/redis need connection details this file format doesn't carry,
// so the caller must still set CacheBackend/RateLimitBackend explicitly.
func memoryBackendFor(kind string) (backendopt.Options, bool) {
	if backendopt.Kind(kind) == backendopt.KindMemory {
		return backendopt.Memory{Namespace: "sessionconfig"}, true
	}
	return nil, false
}

