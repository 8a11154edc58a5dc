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

package backendopt

import "strings"

// Algorithm identifies one of the five rate-limiter algorithms.
type Algorithm string

const (
	AlgoSlidingWindow Algorithm = "slidingwindow"
	AlgoFixedWindow   Algorithm = "fixedwindow"
	AlgoTokenBucket   Algorithm = "tokenbucket"
	AlgoLeakyBucket   Algorithm = "leakybucket"
	AlgoGCRA          Algorithm = "gcra"
)

// aliases collapses every documented spelling variant to its canonical
// lowercase name.
var aliases = map[string]Algorithm{
	"slidingwindow": AlgoSlidingWindow, "sliding-window": AlgoSlidingWindow, "sliding_window": AlgoSlidingWindow,
	"fixedwindow": AlgoFixedWindow, "fixed-window": AlgoFixedWindow, "fixed_window": AlgoFixedWindow,
	"tokenbucket": AlgoTokenBucket, "token-bucket": AlgoTokenBucket, "token_bucket": AlgoTokenBucket,
	"leakybucket": AlgoLeakyBucket, "leaky-bucket": AlgoLeakyBucket, "leaky_bucket": AlgoLeakyBucket,
	"gcra": AlgoGCRA,
}

// CanonicalAlgorithm resolves any documented alias/casing to its
// canonical Algorithm, returning ok=false for unrecognized names.
func CanonicalAlgorithm(name string) (Algorithm, bool) {
	a, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	return a, ok
}

// KeyGranularity selects how a rate-limit key incorporates the request
// URL.
type KeyGranularity int

const (
	// GranularityGlobal contributes nothing from the URL.
	GranularityGlobal KeyGranularity = iota
	// GranularityPerHost uses scheme+host.
	GranularityPerHost
	// GranularityPerEndpoint uses scheme+host+path.
	GranularityPerEndpoint
)

// ResolveGranularity resolves the effective granularity: per-host wins if both
// perHost and perEndpoint are set.
func ResolveGranularity(perHost, perEndpoint bool) KeyGranularity {
	switch {
	case perHost:
		return GranularityPerHost
	case perEndpoint:
		return GranularityPerEndpoint
	default:
		return GranularityGlobal
	}
}
