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

package cache_test

import (
	"context"
	"path/filepath"
	"time"

	"github.com/nabbar/go-sessions/backendopt"
	"github.com/nabbar/go-sessions/cache"
	"github.com/nabbar/go-sessions/pool"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Cache (memory backend)", func() {
	var (
		ctx context.Context
		reg *pool.Registry
		c   *cache.Cache
	)

	BeforeEach(func() {
		ctx = context.Background()
		reg = pool.NewRegistry()

		var err error
		c, err = cache.New(reg, backendopt.Memory{Namespace: "t", CheckFrequency: 3600}, cache.Config{
			Namespace: "ns",
			TTL:       time.Hour,
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("round-trips Set/Get (P1 idempotence)", func() {
		Expect(c.Set(ctx, "k", []byte("hello"))).To(Succeed())

		v, ok, err := c.Get(ctx, "k")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal([]byte("hello")))

		v2, ok2, err2 := c.Get(ctx, "k")
		Expect(err2).NotTo(HaveOccurred())
		Expect(ok2).To(BeTrue())
		Expect(v2).To(Equal(v))
	})

	It("reports Contains accurately", func() {
		ok, err := c.Contains(ctx, "missing")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())

		Expect(c.Set(ctx, "present", []byte("x"))).To(Succeed())
		ok, err = c.Contains(ctx, "present")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
	})

	It("expires entries past TTL (P2)", func() {
		short, err := cache.New(reg, backendopt.Memory{Namespace: "t2", CheckFrequency: 3600}, cache.Config{
			Namespace: "ns",
			TTL:       time.Millisecond,
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(short.Set(ctx, "k", []byte("v"))).To(Succeed())
		time.Sleep(5 * time.Millisecond)

		_, ok, err := short.Get(ctx, "k")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("deletes and clears", func() {
		Expect(c.Set(ctx, "a", []byte("1"))).To(Succeed())
		Expect(c.Set(ctx, "b", []byte("2"))).To(Succeed())

		Expect(c.Delete(ctx, "a")).To(Succeed())
		ok, _ := c.Contains(ctx, "a")
		Expect(ok).To(BeFalse())

		keys, err := c.Keys(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(keys).To(HaveLen(1))

		Expect(c.Clear(ctx)).To(Succeed())
		keys, err = c.Keys(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(keys).To(BeEmpty())
	})

	It("renews TTL on Get when RenewOnGet is set", func() {
		renewing, err := cache.New(reg, backendopt.Memory{Namespace: "t3", CheckFrequency: 3600}, cache.Config{
			Namespace:  "ns",
			TTL:        20 * time.Millisecond,
			RenewOnGet: true,
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(renewing.Set(ctx, "k", []byte("v"))).To(Succeed())

		time.Sleep(12 * time.Millisecond)
		_, ok, err := renewing.Get(ctx, "k")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())

		time.Sleep(12 * time.Millisecond)
		_, ok, err = renewing.Get(ctx, "k")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
	})

	It("round-trips through zlib compression", func() {
		zc, err := cache.New(reg, backendopt.Memory{Namespace: "t4", CheckFrequency: 3600}, cache.Config{
			Namespace: "ns",
			TTL:       time.Hour,
			Codec:     cache.CodecZlib,
		})
		Expect(err).NotTo(HaveOccurred())

		payload := []byte("the quick brown fox jumps over the lazy dog, repeatedly, for compressibility")
		Expect(zc.Set(ctx, "k", payload)).To(Succeed())

		v, ok, err := zc.Get(ctx, "k")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(payload))
	})

	It("round-trips through lz4 compression", func() {
		lc, err := cache.New(reg, backendopt.Memory{Namespace: "t5", CheckFrequency: 3600}, cache.Config{
			Namespace: "ns",
			TTL:       time.Hour,
			Codec:     cache.CodecLZ4,
		})
		Expect(err).NotTo(HaveOccurred())

		payload := []byte("another payload, also reasonably compressible, also also also")
		Expect(lc.Set(ctx, "k", payload)).To(Succeed())

		v, ok, err := lc.Get(ctx, "k")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(payload))
	})

	It("keeps independent caches from leaking into each other (P4)", func() {
		other, err := cache.New(reg, backendopt.Memory{Namespace: "t6", CheckFrequency: 3600}, cache.Config{
			Namespace: "ns",
			TTL:       time.Hour,
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(c.Set(ctx, "only-in-c", []byte("v"))).To(Succeed())
		ok, _ := other.Contains(ctx, "only-in-c")
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Cache (sql backend)", func() {
	var (
		ctx context.Context
		c   *cache.Cache
	)

	BeforeEach(func() {
		ctx = context.Background()
		reg := pool.NewRegistry()
		path := filepath.Join(GinkgoT().TempDir(), "cache.db")

		var err error
		c, err = cache.New(reg, backendopt.SQL{Path: path}, cache.Config{
			Namespace: "ns",
			TTL:       time.Hour,
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("round-trips Set/Get across a commit", func() {
		Expect(c.Set(ctx, "k", []byte("hello"))).To(Succeed())

		v, ok, err := c.Get(ctx, "k")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal([]byte("hello")))
	})

	It("sweeps expired rows on read", func() {
		expired, err := cache.New(pool.NewRegistry(), backendopt.SQL{Path: filepath.Join(GinkgoT().TempDir(), "cache2.db")}, cache.Config{
			Namespace: "ns",
			TTL:       time.Millisecond,
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(expired.Set(ctx, "k", []byte("v"))).To(Succeed())
		time.Sleep(5 * time.Millisecond)

		_, ok, err := expired.Get(ctx, "k")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})
})
