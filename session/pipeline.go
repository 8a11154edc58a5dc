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
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/nabbar/go-sessions/callback"
	"github.com/nabbar/go-sessions/cerrs"
	"github.com/nabbar/go-sessions/ratelimit"
	"github.com/nabbar/go-sessions/response"
)

// RequestOptions carries the per-call overrides alongside method+url:
// headers, callbacks, cache/ratelimit overrides, extra rate-limit
// keys, a progress tick, and transport passthrough (body + timeout).
type RequestOptions struct {
	Headers      map[string]string
	Body         io.Reader
	Timeout      Timeouts
	Callbacks    []callback.Func
	ProgressTick callback.Tick
	ExtraKeys    []string

	// Cache/RateLimit override the session default when non-nil.
	Cache     *bool
	RateLimit *bool
}

func (o RequestOptions) cacheEnabled(def bool) bool {
	if o.Cache != nil {
		return *o.Cache
	}
	return def
}

func (o RequestOptions) ratelimitEnabled(def bool) bool {
	if o.RateLimit != nil {
		return *o.RateLimit
	}
	return def
}

// Request runs the full per-request pipeline for one method+url: a
// rate-limit gate, a cache lookup, header merging and dispatch, then
// caching and callbacks on the result.
func (s *Session) Request(ctx context.Context, method, url string, opts RequestOptions) (*response.Response, error) {
	if s.closed.Load() {
		return nil, cerrs.New(ErrClosed, nil)
	}

	useCache := opts.cacheEnabled(s.cfg.Cache) && s.cache != nil
	useRatelimit := opts.ratelimitEnabled(s.cfg.RateLimit) && s.limiter != nil

	// Rate-limit gate.
	if useRatelimit {
		if err := s.limiter.Increment(ctx, method, url, opts.ExtraKeys...); err != nil {
			if errors.Is(err, cerrs.New(ratelimit.ErrLimited, nil)) {
				return nil, cerrs.New(ErrRateLimitExceeded, err)
			}
			return nil, err
		}
	}

	// Cache lookup.
	if useCache {
		if raw, ok, err := s.cache.Get(ctx, url); err != nil {
			return nil, err
		} else if ok {
			r, err := response.Deserialize(raw)
			if err != nil {
				return nil, err
			}
			callback.Run(r, opts.Callbacks, opts.ProgressTick, true, s.cfg.Callbacks)
			return r, nil
		}
	}

	// Header precedence + user-agent injection.
	headers := mergeHeaders(s.cfg.Headers, opts.Headers)
	maybeInjectUserAgent(headers, s.cfg.RandomUserAgents, s.cfg.UserAgents)

	wire := &WireRequest{Method: method, URL: url, Headers: headers, Body: opts.Body, Timeout: opts.Timeout}

	// Dispatch, elapsed bracketed with a monotonic clock.
	start := time.Now()
	httpResp, rtErr := s.transport.RoundTrip(ctx, wire)
	elapsed := time.Since(start)

	if rtErr != nil {
		s.log.WithError(rtErr).WithField("url", url).Warn("transport round-trip failed")
		if s.raiseErrors {
			return nil, mapTransportError(rtErr)
		}
	}

	// Map errors / normalize into the uniform Response record.
	r := s.buildResponse(method, url, headers, httpResp, elapsed, rtErr)

	// Cache only 2xx responses.
	if useCache && r.StatusCode >= 200 && r.StatusCode < 300 {
		raw, err := response.Serialize(r)
		if err == nil {
			_ = s.cache.Set(ctx, url, raw)
		}
	}

	// Run callbacks.
	callback.Run(r, opts.Callbacks, opts.ProgressTick, false, s.cfg.Callbacks)

	return r, nil
}

// buildResponse normalizes either a live *http.Response or a transport
// failure into the uniform response.Response record.
func (s *Session) buildResponse(method, url string, reqHeaders map[string]string, httpResp *http.Response, elapsed time.Duration, rtErr error) *response.Response {
	r := response.New()
	r.Method = method
	r.URL = url
	r.Elapsed = elapsed
	r.Request = response.RequestInfo{URL: url, Method: method, Headers: reqHeaders}

	if rtErr != nil {
		r.ErrText = rtErr.Error()
		if errors.Is(rtErr, context.DeadlineExceeded) || isTimeout(rtErr) {
			r.StatusCode = http.StatusRequestTimeout
			r.Reason = "Request Timeout"
		} else {
			r.StatusCode = http.StatusInternalServerError
			r.Reason = "ClientError"
		}
		r.FinalURL = url
		return r
	}

	defer httpResp.Body.Close()
	body, _ := io.ReadAll(httpResp.Body)

	r.Proto = httpResp.Proto
	r.StatusCode = httpResp.StatusCode
	r.Reason = httpResp.Status
	r.Body = body
	r.Headers = flattenHeader(httpResp.Header)
	r.Cookies = cookieMap(httpResp.Cookies())

	if httpResp.Request != nil && httpResp.Request.URL != nil {
		r.FinalURL = httpResp.Request.URL.String()
		if r.FinalURL != url {
			r.History = []string{url}
		}
	} else {
		r.FinalURL = url
	}

	return r
}

func flattenHeader(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k := range h {
		out[k] = h.Get(k)
	}
	return out
}

func cookieMap(cookies []*http.Cookie) map[string]string {
	out := make(map[string]string, len(cookies))
	for _, c := range cookies {
		out[c.Name] = c.Value
	}
	return out
}

type timeouter interface {
	Timeout() bool
}

func isTimeout(err error) bool {
	var t timeouter
	if errors.As(err, &t) {
		return t.Timeout()
	}
	return false
}

// mapTransportError wraps a raw transport error with the session
// package's error taxonomy so a caller that asked for raised errors
// gets a consistent, typed error rather than a bare transport one.
func mapTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		return cerrs.New(ErrTimeout, err)
	}
	return cerrs.New(ErrTransport, err)
}
