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

import "strings"

const headerUserAgent = "User-Agent"

// mergeHeaders applies session defaults first, then per-call headers
// on top (per-call wins on clash), comparing keys case-insensitively
// as HTTP requires.
func mergeHeaders(session, perCall map[string]string) map[string]string {
	out := make(map[string]string, len(session)+len(perCall))
	lower := make(map[string]string, len(session)+len(perCall)) // lowercased key -> canonical key used in out

	set := func(k, v string) {
		lk := strings.ToLower(k)
		if canon, ok := lower[lk]; ok {
			delete(out, canon)
		}
		lower[lk] = k
		out[k] = v
	}

	for k, v := range session {
		set(k, v)
	}
	for k, v := range perCall {
		set(k, v)
	}
	return out
}

// hasHeader reports whether headers contains key, compared case-insensitively.
func hasHeader(headers map[string]string, key string) bool {
	lk := strings.ToLower(key)
	for k := range headers {
		if strings.ToLower(k) == lk {
			return true
		}
	}
	return false
}

// maybeInjectUserAgent injects a rotated UA only if enabled, the caller
// supplied none, and the session default doesn't already carry one, so
// an explicit session-wide UA is never overridden.
func maybeInjectUserAgent(headers map[string]string, enabled bool, provider uaProvider) {
	if !enabled || provider == nil {
		return
	}
	if hasHeader(headers, headerUserAgent) {
		return
	}
	headers[headerUserAgent] = provider.UserAgent()
}

// uaProvider is the minimal surface session needs from
// useragent.Provider, kept local to avoid an import cycle concern and
// to make the header-injection logic trivially testable with a stub.
type uaProvider interface {
	UserAgent() string
}
