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

package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"time"

	"github.com/nabbar/go-sessions/backendopt"
	"github.com/nabbar/go-sessions/cache"
	"github.com/nabbar/go-sessions/callback"
	"github.com/nabbar/go-sessions/pool"
	"github.com/nabbar/go-sessions/ratelimit"
	"github.com/nabbar/go-sessions/response"
	"github.com/nabbar/go-sessions/session"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Session request pipeline", func() {
	var (
		ctx context.Context
		srv *httptest.Server
		hit int32
	)

	BeforeEach(func() {
		ctx = context.Background()
		atomic.StoreInt32(&hit, 0)
		srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hit, 1)
			if r.URL.Path == "/missing" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Header().Set("X-Echo-UA", r.Header.Get("User-Agent"))
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		}))
	})

	AfterEach(func() {
		srv.Close()
	})

	It("serves a cache hit without re-dispatching the transport (S3)", func() {
		s, err := session.New(session.Config{
			Cache:        true,
			CacheBackend: backendopt.Memory{Namespace: "sess-cache", CheckFrequency: 3600},
			CacheConfig:  cache.Config{Namespace: "ns", TTL: time.Hour},
		})
		Expect(err).NotTo(HaveOccurred())
		defer s.Close()

		r1, err := s.Request(ctx, "GET", srv.URL+"/x", session.RequestOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(r1.IsCached).To(BeFalse())
		Expect(r1.OK()).To(BeTrue())

		r2, err := s.Request(ctx, "GET", srv.URL+"/x", session.RequestOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(r2.IsCached).To(BeTrue())
		Expect(r2.Body).To(Equal(r1.Body))

		Expect(atomic.LoadInt32(&hit)).To(Equal(int32(1)))
	})

	It("never caches a non-2xx response (S4)", func() {
		s, err := session.New(session.Config{
			Cache:        true,
			CacheBackend: backendopt.Memory{Namespace: "sess-cache-404", CheckFrequency: 3600},
			CacheConfig:  cache.Config{Namespace: "ns", TTL: time.Hour},
		})
		Expect(err).NotTo(HaveOccurred())
		defer s.Close()

		r, err := s.Request(ctx, "GET", srv.URL+"/missing", session.RequestOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(r.StatusCode).To(Equal(http.StatusNotFound))
		Expect(r.OK()).To(BeFalse())

		ok, err := s.CacheContains(ctx, srv.URL+"/missing")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("isolates a panicking callback and still returns a usable response (S5/P7)", func() {
		s, err := session.New(session.Config{})
		Expect(err).NotTo(HaveOccurred())
		defer s.Close()

		boom := func(r *response.Response) interface{} {
			panic("boom")
		}

		r, err := s.Request(ctx, "GET", srv.URL+"/x", session.RequestOptions{
			Callbacks: []callback.Func{boom},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(r.OK()).To(BeTrue())
	})

	It("returns per-call results when ReturnResults is set", func() {
		s, err := session.New(session.Config{
			Callbacks: callback.Config{ReturnResults: true},
		})
		Expect(err).NotTo(HaveOccurred())
		defer s.Close()

		seen := func(r *response.Response) interface{} { return r.StatusCode }

		r, err := s.Request(ctx, "GET", srv.URL+"/x", session.RequestOptions{
			Callbacks: []callback.Func{seen},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Callbacks).To(Equal([]interface{}{http.StatusOK}))
	})

	It("gives per-call headers precedence over session defaults (P6)", func() {
		s, err := session.New(session.Config{
			Headers: map[string]string{"User-Agent": "session-default/1.0"},
		})
		Expect(err).NotTo(HaveOccurred())
		defer s.Close()

		r, err := s.Request(ctx, "GET", srv.URL+"/x", session.RequestOptions{
			Headers: map[string]string{"User-Agent": "per-call/2.0"},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Headers["X-Echo-Ua"]).To(Equal("per-call/2.0"))
	})

	It("dispatches concurrent fan-out through the rate limiter (S1-flavored)", func() {
		s, err := session.New(session.Config{
			RateLimit:       true,
			RateLimitBackend: backendopt.Memory{Namespace: "sess-rl", CheckFrequency: 3600},
			RateLimitConfig: ratelimit.Config{
				Algorithm: backendopt.AlgoFixedWindow,
				Limit:     100,
				Window:    time.Second,
				Namespace: "ns",
				TTL:       time.Minute,
			},
		})
		Expect(err).NotTo(HaveOccurred())
		defer s.Close()

		items := make([]session.FanoutItem, 5)
		for i := range items {
			items[i] = session.FanoutItem{Method: "GET", URL: srv.URL + "/x"}
		}

		results, err := s.Requests(ctx, items, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(5))
		for _, r := range results {
			Expect(r.Err).NotTo(HaveOccurred())
			Expect(r.Response.OK()).To(BeTrue())
		}
	})
})

var _ = Describe("Session teardown", func() {
	It("rejects requests after Close", func() {
		s, err := session.New(session.Config{})
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Close()).To(Succeed())

		_, err = s.Request(context.Background(), "GET", "http://example.invalid", session.RequestOptions{})
		Expect(err).To(HaveOccurred())
	})

	It("releases its registry references so a second session can be built on the same registry", func() {
		reg := pool.NewRegistry()
		cfg := session.Config{
			Registry:     reg,
			Cache:        true,
			CacheBackend: backendopt.Memory{Namespace: "reuse", CheckFrequency: 3600},
			CacheConfig:  cache.Config{Namespace: "ns", TTL: time.Hour},
		}

		s1, err := session.New(cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(s1.Close()).To(Succeed())

		s2, err := session.New(cfg)
		Expect(err).NotTo(HaveOccurred())
		defer s2.Close()
	})
})
