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
	"net/url"
	"strings"

	"github.com/nabbar/go-sessions/backendopt"
)

const suffix = ":ratelimit"

// deriveKey builds the rate-limit key by joining, in order: namespace,
// method, any caller-supplied extraKeys, and the configured
// granularity's slice of rawURL (nothing/scheme+host/scheme+host+path),
// always ending in ":ratelimit" so it shares a namespace with, but
// never collides with, cache keys over the same InMemory map.
func deriveKey(namespace string, granularity backendopt.KeyGranularity, method, rawURL string, extraKeys ...string) (string, error) {
	parts := make([]string, 0, 4+len(extraKeys))
	if namespace != "" {
		parts = append(parts, namespace)
	}
	if method != "" {
		parts = append(parts, method)
	}

	parts = append(parts, extraKeys...)

	switch granularity {
	case backendopt.GranularityPerHost, backendopt.GranularityPerEndpoint:
		u, err := url.Parse(rawURL)
		if err != nil {
			return "", err
		}
		if granularity == backendopt.GranularityPerHost {
			parts = append(parts, u.Scheme+"://"+u.Host)
		} else {
			parts = append(parts, u.Scheme+"://"+u.Host+u.Path)
		}
	case backendopt.GranularityGlobal:
		// contributes nothing from the URL
	}

	return strings.Join(parts, ":") + suffix, nil
}
