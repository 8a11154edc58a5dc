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

package pool_test

import (
	"sync"
	"time"

	"github.com/nabbar/go-sessions/backendopt"
	"github.com/nabbar/go-sessions/pool"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("MemoryPool", func() {
	var p *pool.MemoryPool

	BeforeEach(func() {
		p = pool.NewMemoryPool(backendopt.Memory{Namespace: "t", CheckFrequency: 3600})
	})

	It("round-trips Set/Get", func() {
		p.Set("a", pool.Entry{Namespace: pool.NamespaceCache, Value: []byte("v")})
		e, ok := p.Get("a")
		Expect(ok).To(BeTrue())
		Expect(e.Value).To(Equal([]byte("v")))
	})

	It("expires entries past their deadline", func() {
		p.Set("a", pool.Entry{Namespace: pool.NamespaceCache, Value: []byte("v"), Expiration: time.Now().Add(-time.Second)})
		_, ok := p.Get("a")
		Expect(ok).To(BeFalse())
	})

	It("clears only the requested namespace (cache/ratelimit independence, P4)", func() {
		p.Set("c", pool.Entry{Namespace: pool.NamespaceCache, Value: []byte("c")})
		p.Set("r", pool.Entry{Namespace: pool.NamespaceRatelimit, Value: []byte("r")})

		p.Clear(pool.NamespaceCache)

		_, okC := p.Get("c")
		_, okR := p.Get("r")
		Expect(okC).To(BeFalse())
		Expect(okR).To(BeTrue())
	})

	It("Mutate is atomic under concurrent access", func() {
		p.Set("counter", pool.Entry{Namespace: pool.NamespaceRatelimit, Value: []byte{0}})

		var wg sync.WaitGroup
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				p.Mutate("counter", func(cur pool.Entry, exists bool) (pool.Entry, bool) {
					n := byte(0)
					if exists && len(cur.Value) > 0 {
						n = cur.Value[0]
					}
					return pool.Entry{Namespace: pool.NamespaceRatelimit, Value: []byte{n + 1}}, true
				})
			}()
		}
		wg.Wait()

		e, ok := p.Get("counter")
		Expect(ok).To(BeTrue())
		Expect(e.Value[0]).To(Equal(byte(100)))
	})
})
