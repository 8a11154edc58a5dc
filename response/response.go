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

// Package response holds the uniform Response record that every transport
// result, cached or live, is normalized into before callbacks run.
package response

import (
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// RequestInfo captures the originating request, kept on the response for
// callbacks and logging.
type RequestInfo struct {
	URL     string            `cbor:"url"`
	Method  string            `cbor:"method"`
	Headers map[string]string `cbor:"headers"`
}

// Response is the normalized, transport-independent result of a single
// request. It is logically immutable after New except for the IsCached
// and Callbacks fields, which the orchestrator sets exactly once.
type Response struct {
	Proto      string            `cbor:"proto"`
	StatusCode int               `cbor:"status_code"`
	Reason     string            `cbor:"reason"`
	Method     string            `cbor:"method"`
	URL        string            `cbor:"url"`
	FinalURL   string            `cbor:"final_url"`
	Body       []byte            `cbor:"body"`
	Headers    map[string]string `cbor:"headers"`
	Cookies    map[string]string `cbor:"cookies"`
	History    []string          `cbor:"history"`
	Elapsed    time.Duration     `cbor:"elapsed"`
	Request    RequestInfo       `cbor:"request"`
	ErrText    string            `cbor:"error,omitempty"`

	IsCached  bool          `cbor:"is_cached"`
	Callbacks []interface{} `cbor:"-"`

	once sync.Once
	text string
	json map[string]interface{}
}

// New builds an empty Response with non-nil Headers and Cookies maps;
// callers generally construct via the session/transport layer, not
// directly.
func New() *Response {
	return &Response{Headers: make(map[string]string), Cookies: make(map[string]string)}
}

// OK reports success: true iff StatusCode is in 1..399 and no transport
// error was recorded.
func (r *Response) OK() bool {
	return r.ErrText == "" && r.StatusCode > 0 && r.StatusCode < 400
}

// Text lazily decodes Body as UTF-8. Computed once, cached thereafter.
func (r *Response) Text() string {
	r.once.Do(r.derive)
	return r.text
}

// JSON lazily parses Body as JSON into a string-keyed map. A parse
// failure yields an empty, non-nil map rather than an error, so a
// caller never needs to check a second error return just to read it.
func (r *Response) JSON() map[string]interface{} {
	r.once.Do(r.derive)
	return r.json
}

func (r *Response) derive() {
	r.text = string(r.Body)
	r.json = parseJSONLoose(r.Body)
}

// Error reports the synthesized transport error, if any.
func (r *Response) Error() error {
	if r.ErrText == "" {
		return nil
	}
	return textError(r.ErrText)
}

type textError string

func (e textError) Error() string { return string(e) }

// Serialize produces the self-describing CBOR encoding used for cache
// storage. Body is carried verbatim; Text/JSON are NOT persisted, they
// re-derive lazily on the deserialized side.
func Serialize(r *Response) ([]byte, error) {
	return cbor.Marshal(r)
}

// Deserialize reconstructs a Response from its CBOR encoding and marks
// it as cached. Never returns a partially built Response on error.
func Deserialize(b []byte) (*Response, error) {
	r := New()
	if err := cbor.Unmarshal(b, r); err != nil {
		return nil, err
	}
	r.IsCached = true
	return r, nil
}
