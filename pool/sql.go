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
	"context"
	"sync"
	"time"

	"github.com/nabbar/go-sessions/backendopt"
	"github.com/nabbar/go-sessions/cerrs"
	"github.com/nabbar/go-sessions/internal/metrics"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OwnerToken identifies the exclusive owner of a SQLPool connection.
// The Python source keys its per-thread sub-pools by current_thread().ident;
// Go exposes no portable goroutine identity, so the caller mints one
// token per worker. Every acquired connection must only be used by the
// token that acquired it.
type OwnerToken uint64

type idleConn struct {
	db       *gorm.DB
	deadline time.Time
}

type ownerPool struct {
	mu      sync.Mutex
	idle    []idleConn
	created int
	max     int
	notify  chan struct{}
}

func newOwnerPool(max int) *ownerPool {
	return &ownerPool{max: max, notify: make(chan struct{})}
}

// SQLPool is the two-level embedded-SQL pool: outer map OwnerToken ->
// inner bounded queue of connections.
type SQLPool struct {
	opts        backendopt.SQL
	idleTimeout time.Duration

	mu     sync.Mutex
	owners map[OwnerToken]*ownerPool
	closed bool
	once   sync.Once // guards against the double-close race
}

// NewSQLPool constructs a SQLPool for the given (already-defaulted)
// options.
func NewSQLPool(opts backendopt.SQL) *SQLPool {
	opts = opts.WithDefaults()
	return &SQLPool{
		opts:        opts,
		idleTimeout: time.Duration(opts.IdleTimeout * float64(time.Second)),
		owners:      make(map[OwnerToken]*ownerPool),
	}
}

func (p *SQLPool) ownerPoolFor(owner OwnerToken) *ownerPool {
	p.mu.Lock()
	defer p.mu.Unlock()

	op, ok := p.owners[owner]
	if !ok {
		op = newOwnerPool(p.opts.MaxConnsPerOwner)
		p.owners[owner] = op
	}
	return op
}

func (p *SQLPool) open() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(p.opts.Path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, cerrs.New(ErrConnect, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, cerrs.New(ErrConnect, err)
	}
	// One OS-level connection per *gorm.DB so the owner-affinity
	// invariant is meaningful even though database/sql itself is
	// goroutine-safe.
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

// Acquire returns a connection affine to owner, waiting up to timeout
// (0 = no timeout) or until ctx is cancelled.
func (p *SQLPool) Acquire(ctx context.Context, owner OwnerToken, timeout time.Duration) (*gorm.DB, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, cerrs.New(ErrClosed, nil)
	}
	p.mu.Unlock()

	op := p.ownerPoolFor(owner)

	var timer *time.Timer
	var timeoutCh <-chan time.Time
	if timeout > 0 {
		timer = time.NewTimer(timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	for {
		op.mu.Lock()
		if n := len(op.idle); n > 0 {
			ic := op.idle[n-1]
			op.idle = op.idle[:n-1]
			op.mu.Unlock()
			metrics.PoolAcquireTotal.WithLabelValues(string(backendopt.KindSQL), "false").Inc()
			return ic.db, nil
		}
		if op.created < op.max {
			op.created++
			op.mu.Unlock()

			db, err := p.open()
			if err != nil {
				op.mu.Lock()
				op.created--
				op.mu.Unlock()
				return nil, err
			}
			metrics.PoolAcquireTotal.WithLabelValues(string(backendopt.KindSQL), "true").Inc()
			return db, nil
		}
		ch := op.notify
		op.mu.Unlock()

		select {
		case <-ch:
			continue
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timeoutCh:
			return nil, cerrs.New(ErrTimeout, nil)
		}
	}
}

// Release returns conn to owner's pool. recycle=true keeps it warm for
// reuse (with a fresh idle deadline); recycle=false closes it.
func (p *SQLPool) Release(owner OwnerToken, conn *gorm.DB, recycle bool) {
	op := p.ownerPoolFor(owner)

	op.mu.Lock()
	if recycle {
		op.idle = append(op.idle, idleConn{db: conn, deadline: time.Now().Add(p.idleTimeout)})
	} else {
		op.created--
		closeGorm(conn)
	}
	p.reapIdleLocked(op)

	old := op.notify
	op.notify = make(chan struct{})
	close(old)
	op.mu.Unlock()
}

// reapIdleLocked closes idle connections past their deadline. Must be
// called with op.mu held.
func (p *SQLPool) reapIdleLocked(op *ownerPool) {
	if p.idleTimeout <= 0 {
		return
	}
	now := time.Now()
	kept := op.idle[:0]
	for _, ic := range op.idle {
		if now.After(ic.deadline) {
			closeGorm(ic.db)
			op.created--
		} else {
			kept = append(kept, ic)
		}
	}
	op.idle = kept
}

func closeGorm(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// Close drains every owner's sub-pool. Idempotent: guarded by sync.Once
// so a caller that calls Release(recycle=false) followed by Close
// cannot double-close the same connections.
func (p *SQLPool) Close() {
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		owners := p.owners
		p.mu.Unlock()

		for _, op := range owners {
			op.mu.Lock()
			for _, ic := range op.idle {
				closeGorm(ic.db)
			}
			op.idle = nil
			op.mu.Unlock()
		}
	})
}
