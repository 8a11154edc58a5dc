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

// Package useragent defines the user-agent string source as a pluggable
// collaborator, plus one minimal default implementation so
// Session.Config.RandomUserAgents works out of the box without a
// caller having to supply one.
package useragent

import (
	"math/rand"
	"sync"
	"time"
)

// Provider supplies a user-agent string for a single request. Real
// deployments are expected to replace the NewDefault provider with one backed
// by a maintained, regularly refreshed string pool; this module only
// guarantees the interface.
type Provider interface {
	// UserAgent returns one user-agent string. Implementations must be
	// safe for concurrent use.
	UserAgent() string
}

// defaultPool is a small, static rotation of realistic desktop browser
// strings so the module is directly usable without wiring an external
// provider.
var defaultPool = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64; rv:126.0) Gecko/20100101 Firefox/126.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:126.0) Gecko/20100101 Firefox/126.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
}

type staticRotation struct {
	mu   sync.Mutex
	rnd  *rand.Rand
	pool []string
}

// NewDefault builds the default Provider: a random pick from a small,
// bundled pool of realistic browser user-agent strings.
func NewDefault() Provider {
	return &staticRotation{rnd: rand.New(rand.NewSource(time.Now().UnixNano())), pool: defaultPool}
}

func (p *staticRotation) UserAgent() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pool[p.rnd.Intn(len(p.pool))]
}
