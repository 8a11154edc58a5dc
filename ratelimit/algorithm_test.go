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
	"encoding/json"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/go-sessions/backendopt"
)

var _ = Describe("slidingWindow", func() {
	It("admits up to the limit then denies", func() {
		a := newSlidingWindow(2, time.Minute)
		now := time.Now()

		s1, ok, _, err := a.Evaluate(now, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())

		s2, ok, _, err := a.Evaluate(now, s1)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())

		s3, ok, retryAfter, err := a.Evaluate(now, s2)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
		Expect(retryAfter).To(BeNumerically(">", 0))
		Expect(s3).To(Equal(s2), "state must be left unchanged on denial")
	})

	It("evicts timestamps once the window has elapsed", func() {
		a := newSlidingWindow(1, time.Minute)
		now := time.Now()

		s1, ok, _, err := a.Evaluate(now, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())

		_, ok, _, err = a.Evaluate(now.Add(30*time.Second), s1)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())

		s3, ok, _, err := a.Evaluate(now.Add(61*time.Second), s1)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())

		var ts []int64
		Expect(json.Unmarshal(s3, &ts)).To(Succeed())
		Expect(ts).To(HaveLen(1))
	})
})

var _ = Describe("leakyBucket", func() {
	It("admits while water is strictly below capacity", func() {
		a := newLeakyBucket(2, time.Minute)
		now := time.Now()

		s1, ok, _, err := a.Evaluate(now, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())

		s2, ok, _, err := a.Evaluate(now, s1)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())

		_, ok, _, err = a.Evaluate(now, s2)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("deriveKey", func() {
	It("orders namespace, method, extra keys, then the URL slice", func() {
		k, err := deriveKey("ns", backendopt.GranularityPerHost, "GET", "https://api.example.com/v1/x", "tenant-1")
		Expect(err).NotTo(HaveOccurred())
		Expect(k).To(Equal("ns:GET:tenant-1:https://api.example.com:ratelimit"))
	})

	It("keeps GET and POST to the same URL in separate buckets", func() {
		kGet, err := deriveKey("ns", backendopt.GranularityGlobal, "GET", "https://api.example.com/v1/x")
		Expect(err).NotTo(HaveOccurred())
		kPost, err := deriveKey("ns", backendopt.GranularityGlobal, "POST", "https://api.example.com/v1/x")
		Expect(err).NotTo(HaveOccurred())
		Expect(kGet).NotTo(Equal(kPost))
	})
})
