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

import (
	"strconv"
	"sync"

	"github.com/go-redis/redis/v8"
	"github.com/nabbar/go-sessions/backendopt"
)

// RedisPool holds one long-lived client per options identity. Acquire
// always returns the same client; Release is a no-op since the
// underlying client already pools its own connections.
type RedisPool struct {
	client *redis.Client
	once   sync.Once
}

// NewRedisPool dials (lazily, on first command) a client for opts. This
// module connects to a caller-supplied reachable endpoint; it never
// spawns an embedded Redis server process of its own.
func NewRedisPool(opts backendopt.Redis) *RedisPool {
	o := &redis.Options{
		Addr:     addr(opts),
		Network:  network(opts),
		DB:       opts.DB,
		Username: opts.Username,
		Password: opts.Password,
	}
	return &RedisPool{client: redis.NewClient(o)}
}

func network(opts backendopt.Redis) string {
	if opts.SocketPath != "" {
		return "unix"
	}
	return "tcp"
}

func addr(opts backendopt.Redis) string {
	if opts.SocketPath != "" {
		return opts.SocketPath
	}
	return opts.Host + portSuffix(opts.Port)
}

func portSuffix(port int) string {
	if port == 0 {
		return ":6379"
	}
	return ":" + strconv.Itoa(port)
}

// Client returns the shared *redis.Client.
func (p *RedisPool) Client() *redis.Client {
	return p.client
}

// Close disconnects the client. Safe to call more than once.
func (p *RedisPool) Close() {
	p.once.Do(func() {
		_ = p.client.Close()
	})
}
