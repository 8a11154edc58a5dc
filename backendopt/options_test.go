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

package backendopt_test

import (
	"github.com/nabbar/go-sessions/backendopt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Redis options", func() {
	It("rejects host+socket combination", func() {
		o := backendopt.Redis{Host: "localhost", Port: 6379, SocketPath: "/tmp/redis.sock"}
		Expect(o.Validate()).To(HaveOccurred())
	})

	It("rejects neither host nor socket", func() {
		o := backendopt.Redis{}
		Expect(o.Validate()).To(HaveOccurred())
	})

	It("rejects non-default eviction policy without maxmemory", func() {
		o := backendopt.Redis{Host: "localhost", Port: 6379, MaxMemoryPolicy: backendopt.PolicyAllKeysLRU}
		Expect(o.Validate()).To(HaveOccurred())
	})

	It("accepts a valid TCP config", func() {
		o := backendopt.Redis{Host: "localhost", Port: 6379}
		Expect(o.Validate()).ToNot(HaveOccurred())
	})

	It("identity is stable for equal fields", func() {
		a := backendopt.Redis{Host: "localhost", Port: 6379, DB: 1}
		b := backendopt.Redis{Host: "localhost", Port: 6379, DB: 1}
		Expect(a.Identity()).To(Equal(b.Identity()))
	})
})

var _ = Describe("SQL options defaults", func() {
	It("defaults MaxConnsPerOwner and IdleTimeout", func() {
		o := backendopt.SQL{Path: "/tmp/cache.db"}.WithDefaults()
		Expect(o.MaxConnsPerOwner).To(Equal(5))
		Expect(o.IdleTimeout).To(Equal(0.5))
	})
})

var _ = Describe("Algorithm alias canonicalization", func() {
	It("collapses documented aliases", func() {
		for _, name := range []string{"TokenBucket", "token-bucket", "token_bucket", "tokenbucket"} {
			a, ok := backendopt.CanonicalAlgorithm(name)
			Expect(ok).To(BeTrue())
			Expect(a).To(Equal(backendopt.AlgoTokenBucket))
		}
	})

	It("rejects unknown names", func() {
		_, ok := backendopt.CanonicalAlgorithm("quantum-bucket")
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Key granularity resolution", func() {
	It("per-host wins when both are set", func() {
		Expect(backendopt.ResolveGranularity(true, true)).To(Equal(backendopt.GranularityPerHost))
	})
})
