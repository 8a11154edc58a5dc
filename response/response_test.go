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

package response_test

import (
	"time"

	"github.com/nabbar/go-sessions/response"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Response", func() {
	It("derives OK from status code", func() {
		r := response.New()
		r.StatusCode = 200
		Expect(r.OK()).To(BeTrue())

		r.StatusCode = 404
		Expect(r.OK()).To(BeFalse())
	})

	It("caches Text/JSON derivation", func() {
		r := response.New()
		r.Body = []byte(`{"a":1}`)

		j1 := r.JSON()
		j2 := r.JSON()
		Expect(j1).To(Equal(j2))
		Expect(j1["a"]).To(BeEquivalentTo(1))
		Expect(r.Text()).To(Equal(`{"a":1}`))
	})

	It("never raises on bad JSON, yields empty map", func() {
		r := response.New()
		r.Body = []byte(`not json`)
		Expect(r.JSON()).To(BeEmpty())
	})

	It("round-trips through Serialize/Deserialize and marks is_cached", func() {
		r := response.New()
		r.StatusCode = 200
		r.Method = "GET"
		r.URL = "http://example.test/x"
		r.Body = []byte("hello")
		r.Elapsed = 42 * time.Millisecond

		b, err := response.Serialize(r)
		Expect(err).ToNot(HaveOccurred())

		r2, err := response.Deserialize(b)
		Expect(err).ToNot(HaveOccurred())
		Expect(r2.IsCached).To(BeTrue())
		Expect(r2.StatusCode).To(Equal(200))
		Expect(r2.Body).To(Equal(r.Body))
		Expect(r2.Elapsed).To(Equal(r.Elapsed))
	})
})
