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

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/nabbar/go-sessions/cerrs"
)

// Kind identifies which of the three storage backends an Options value
// configures.
type Kind string

const (
	KindMemory Kind = "memory"
	KindSQL    Kind = "sqlite"
	KindRedis  Kind = "redis"
)

var validate = validator.New()

// Identity is a comparable value uniquely identifying one backend
// instance, used as the pool registry's map key.
type Identity struct {
	Kind Kind
	Key  string
}

// Options is implemented by Memory, SQL, and Redis below.
type Options interface {
	Kind() Kind
	Identity() Identity
	Validate() error
}

// Memory configures the in-process shared-map backend.
type Memory struct {
	Namespace       string `validate:"required"`
	TTL             float64
	CheckFrequency  float64 `validate:"gte=0"`
}

func (o Memory) Kind() Kind { return KindMemory }

func (o Memory) Identity() Identity {
	return Identity{Kind: KindMemory, Key: o.Namespace}
}

func (o Memory) Validate() error {
	if err := validate.Struct(o); err != nil {
		return cerrs.New(ErrValidation, err)
	}
	return nil
}

// SQL configures the embedded SQL (sqlite) backend.
type SQL struct {
	Path              string `validate:"required"`
	MaxConnsPerOwner  int    `validate:"gte=0"`
	IdleTimeout       float64 `validate:"gte=0"`
}

func (o SQL) Kind() Kind { return KindSQL }

func (o SQL) Identity() Identity {
	return Identity{Kind: KindSQL, Key: o.Path}
}

func (o SQL) Validate() error {
	if err := validate.Struct(o); err != nil {
		return cerrs.New(ErrValidation, err)
	}
	return nil
}

// WithDefaults returns a copy with MaxConnsPerOwner/IdleTimeout
// defaulted to 5 connections and a 0.5s idle timeout.
func (o SQL) WithDefaults() SQL {
	if o.MaxConnsPerOwner == 0 {
		o.MaxConnsPerOwner = 5
	}
	if o.IdleTimeout == 0 {
		o.IdleTimeout = 0.5
	}
	return o
}

// MaxMemoryPolicy enumerates the Redis eviction policies validated
// against.
type MaxMemoryPolicy string

const (
	PolicyVolatileLRU    MaxMemoryPolicy = "volatile-lru"
	PolicyAllKeysLRU     MaxMemoryPolicy = "allkeys-lru"
	PolicyVolatileLFU    MaxMemoryPolicy = "volatile-lfu"
	PolicyAllKeysLFU     MaxMemoryPolicy = "allkeys-lfu"
	PolicyVolatileRandom MaxMemoryPolicy = "volatile-random"
	PolicyAllKeysRandom  MaxMemoryPolicy = "allkeys-random"
	PolicyVolatileTTL    MaxMemoryPolicy = "volatile-ttl"
	PolicyNoEviction     MaxMemoryPolicy = "noeviction"
)

var validMaxMemoryPolicies = map[MaxMemoryPolicy]bool{
	PolicyVolatileLRU: true, PolicyAllKeysLRU: true, PolicyVolatileLFU: true,
	PolicyAllKeysLFU: true, PolicyVolatileRandom: true, PolicyAllKeysRandom: true,
	PolicyVolatileTTL: true, PolicyNoEviction: true,
}

// Redis configures the remote key/value server backend. Host+Port and
// SocketPath are mutually exclusive; exactly one must be set, since
// this module connects to a caller-supplied reachable Redis endpoint
// rather than spawning an embedded server.
type Redis struct {
	Host            string
	Port            int `validate:"omitempty,gte=1,lte=65535"`
	SocketPath      string
	DB              int `validate:"gte=0"`
	Username        string
	Password        string
	MaxMemory       string
	MaxMemoryPolicy MaxMemoryPolicy
	SavePolicy      []string
	TTL             float64 `validate:"gte=0"`
}

func (o Redis) Kind() Kind { return KindRedis }

func (o Redis) Identity() Identity {
	return Identity{
		Kind: KindRedis,
		Key:  fmt.Sprintf("%s:%d|%s|%d|%s", o.Host, o.Port, o.SocketPath, o.DB, o.Username),
	}
}

func (o Redis) Validate() error {
	if err := validate.Struct(o); err != nil {
		return cerrs.New(ErrValidation, err)
	}

	hasTCP := o.Host != "" || o.Port != 0
	hasSocket := o.SocketPath != ""
	if hasTCP && hasSocket {
		return cerrs.New(ErrInconsistent, fmt.Errorf("host/port and unix_socket_path are mutually exclusive"))
	}
	if !hasTCP && !hasSocket {
		return cerrs.New(ErrInconsistent, fmt.Errorf("one of host/port or unix_socket_path is required"))
	}

	if o.MaxMemoryPolicy != "" {
		if !validMaxMemoryPolicies[o.MaxMemoryPolicy] {
			return cerrs.New(ErrValidation, fmt.Errorf("invalid maxmemory_policy %q", o.MaxMemoryPolicy))
		}
		if o.MaxMemoryPolicy != PolicyNoEviction && o.MaxMemory == "" {
			return cerrs.New(ErrInconsistent, fmt.Errorf("non-default maxmemory_policy requires maxmemory to be set"))
		}
	}

	return nil
}
