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
	"fmt"

	"github.com/nabbar/go-sessions/cerrs"
)

const pkgName = "go-sessions/session"

// Error codes the orchestrator can wrap with cerrs.New. Transport
// failures that get synthesized into a response (status 408 or 500)
// never surface these; they only reach a caller that asked for raised
// errors.
const (
	// ErrTimeout is a transport deadline exceeded, synthesized as status=408
	// when errors aren't raised.
	ErrTimeout cerrs.CodeError = iota + cerrs.MinPkgSession
	// ErrTransport is any other transport round-trip failure.
	ErrTransport
	// ErrUnknown covers anything not classified as timeout or transport.
	ErrUnknown
	// ErrRateLimitExceeded is always raised, never synthesized into a
	// response, when admission is denied and RaiseErrors is set.
	ErrRateLimitExceeded
	// ErrClosed is returned by Request, and by the methods that dispatch
	// through it, when called after Close.
	ErrClosed
	// ErrConfigFile is New's failure to load Config.ConfigFile.
	ErrConfigFile
)

func init() {
	if cerrs.ExistInMapMessage(ErrTimeout) {
		panic(fmt.Errorf("error code collision with package %s", pkgName))
	}
	cerrs.RegisterIdFctMessage(ErrTimeout, getMessage)
}

func getMessage(code cerrs.CodeError) string {
	switch code {
	case ErrTimeout:
		return "session: request timeout"
	case ErrTransport:
		return "session: transport error"
	case ErrUnknown:
		return "session: unknown error"
	case ErrRateLimitExceeded:
		return "session: rate limit exceeded"
	case ErrClosed:
		return "session: closed"
	case ErrConfigFile:
		return "session: config file"
	}
	return ""
}
