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
	"context"
	"time"

	"github.com/nabbar/go-sessions/cerrs"
	"github.com/nabbar/go-sessions/pool"

	"gorm.io/gorm"
)

// ratelimitRow holds one algorithm's serialized state per key, sharing
// the SQLPool idle-reap machinery with cache's sqlBackend via
// row-level transactions.
type ratelimitRow struct {
	Key        string `gorm:"primaryKey"`
	State      []byte
	Expiration float64
}

func (ratelimitRow) TableName() string { return "ratelimit_state" }

type sqlStore struct {
	sp    *pool.SQLPool
	owner pool.OwnerToken
}

func newSQLStore(sp *pool.SQLPool) (*sqlStore, error) {
	s := &sqlStore{sp: sp, owner: pool.NewOwnerToken()}

	db, err := sp.Acquire(context.Background(), s.owner, 0)
	if err != nil {
		return nil, cerrs.New(ErrBackend, err)
	}
	defer sp.Release(s.owner, db, true)

	if err := db.AutoMigrate(&ratelimitRow{}); err != nil {
		return nil, cerrs.New(ErrBackend, err)
	}
	return s, nil
}

func (s *sqlStore) with(ctx context.Context, fct func(*gorm.DB) error) error {
	db, err := s.sp.Acquire(ctx, s.owner, 30*time.Second)
	if err != nil {
		return cerrs.New(ErrBackend, err)
	}

	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.sp.Release(s.owner, db, true)
		return cerrs.New(ErrBackend, tx.Error)
	}

	if err := fct(tx); err != nil {
		tx.Rollback()
		s.sp.Release(s.owner, db, true)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		s.sp.Release(s.owner, db, true)
		return cerrs.New(ErrBackend, err)
	}

	s.sp.Release(s.owner, db, true)
	return nil
}

func (s *sqlStore) evaluate(ctx context.Context, key string, ttl time.Duration, algo Algorithm) (bool, time.Duration, error) {
	var (
		allowed    bool
		retryAfter time.Duration
	)

	err := s.with(ctx, func(tx *gorm.DB) error {
		now := float64(time.Now().Unix())
		if err := tx.Where("expiration > 0 AND expiration < ?", now).Delete(&ratelimitRow{}).Error; err != nil {
			return err
		}

		var row ratelimitRow
		res := tx.Where("key = ?", key).First(&row)
		if res.Error != nil && res.Error != gorm.ErrRecordNotFound {
			return res.Error
		}

		next, ok, wait, err := algo.Evaluate(time.Now(), row.State)
		allowed, retryAfter = ok, wait
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		row.Key = key
		row.State = next
		if ttl > 0 {
			row.Expiration = float64(time.Now().Add(ttl).Unix())
		}
		return tx.Save(&row).Error
	})

	return allowed, retryAfter, err
}

func (s *sqlStore) describe(ctx context.Context, key string, algo Algorithm) (float64, float64, error) {
	var row ratelimitRow
	err := s.with(ctx, func(tx *gorm.DB) error {
		res := tx.Where("key = ?", key).First(&row)
		if res.Error != nil && res.Error != gorm.ErrRecordNotFound {
			return res.Error
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return algo.Describe(time.Now(), row.State)
}

func (s *sqlStore) close() {}
