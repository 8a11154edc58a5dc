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
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// WireRequest is the transport-agnostic request the orchestrator hands
// to a Transport: method/URL/headers/body passthrough only, with no
// request-construction DSL on top.
type WireRequest struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    io.Reader
	Timeout Timeouts
}

// Timeouts is the native timeout shape a Transport understands, the
// target of the orchestrator's per-phase-timeout-to-deadline mapping.
type Timeouts struct {
	Connect time.Duration
	Read    time.Duration
	Write   time.Duration
	Pool    time.Duration
	// Overall, if set, bounds the whole round-trip via context deadline
	// instead of per-phase timeouts; it is what Connect/Read/Write/Pool
	// sugar collapses to since net/http has no per-phase timeout knobs
	// of its own (the split fields document intent for a Transport that
	// does have them, e.g. one built on golang.org/x/net/http2 settings).
	Overall time.Duration
}

// nativeTimeout resolves Timeouts to a single effective deadline. A
// pre-built native timeout (Overall) bypasses the per-phase fields.
func (t Timeouts) nativeTimeout() time.Duration {
	if t.Overall > 0 {
		return t.Overall
	}
	max := t.Connect
	if t.Read > max {
		max = t.Read
	}
	if t.Write > max {
		max = t.Write
	}
	if t.Pool > max {
		max = t.Pool
	}
	return max
}

// Transport is the HTTP wire-encoding/TLS collaborator boundary: it
// dispatches one WireRequest and returns the raw *http.Response.
// Session normalizes the result into a response.Response; elapsed
// time is measured by the caller, not here.
type Transport interface {
	RoundTrip(ctx context.Context, r *WireRequest) (*http.Response, error)
}

// retryableTransport is the default Transport, backed by
// hashicorp/go-retryablehttp so transient transport failures are
// retried before the orchestrator's own error taxonomy ever sees
// them.
type retryableTransport struct {
	client *retryablehttp.Client
}

// NewDefaultTransport builds the default Transport: go-retryablehttp
// over the standard library's http.Client, with HTTP/2 negotiation
// enabled or disabled per http2.
func NewDefaultTransport(http2 bool) Transport {
	c := retryablehttp.NewClient()
	c.Logger = nil
	if tr, ok := c.HTTPClient.Transport.(*http.Transport); ok && !http2 {
		tr.ForceAttemptHTTP2 = false
		tr.TLSNextProto = map[string]func(string, *http.Transport) http.RoundTripper{}
	}
	return &retryableTransport{client: c}
}

func (t *retryableTransport) RoundTrip(ctx context.Context, r *WireRequest) (*http.Response, error) {
	if d := r.Timeout.nativeTimeout(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, r.Method, r.URL, r.Body)
	if err != nil {
		return nil, err
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}

	return t.client.Do(req)
}
