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

package pool

import "time"

// Namespace partitions the InMemory shared map between cache entries
// and rate-limit state: the two namespaces must stay independent, so
// entries carry a typed Namespace tag rather than being distinguished by
// the shape of the stored value.
type Namespace string

const (
	NamespaceCache     Namespace = "cache"
	NamespaceRatelimit Namespace = "ratelimit"
)

// Entry is the value shape stored in the InMemory shared map: an
// arbitrary payload (a serialized cached response, or rate-limit
// algorithm state) with an absolute expiration. A zero Expiration means
// "never expires".
type Entry struct {
	Namespace  Namespace
	Value      []byte
	Expiration time.Time
}

// Expired reports whether e has passed its expiration as of now.
func (e Entry) Expired(now time.Time) bool {
	return !e.Expiration.IsZero() && !now.Before(e.Expiration)
}
