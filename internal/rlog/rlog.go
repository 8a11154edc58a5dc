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

// Package rlog wraps logrus behind the small facade this module's CORE
// packages log through, so callers can swap in their own
// logrus.FieldLogger without every package importing logrus directly.
package rlog

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Fields is a shorthand for logrus.Fields, kept local so call sites
// don't need to import logrus for the common case.
type Fields = logrus.Fields

var (
	mu      sync.RWMutex
	current logrus.FieldLogger = defaultLogger()
)

func defaultLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// SetDefault replaces the package-wide default logger used by callers
// that don't supply their own via session.Config.Logger. Passing nil
// restores the built-in text-formatted stderr logger.
func SetDefault(l logrus.FieldLogger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		l = defaultLogger()
	}
	current = l
}

// Default returns the current package-wide logger.
func Default() logrus.FieldLogger {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Component returns a logger scoped with a "component" field, the
// convention every package in this module logs through.
func Component(l logrus.FieldLogger, name string) logrus.FieldLogger {
	if l == nil {
		l = Default()
	}
	return l.WithField("component", name)
}
