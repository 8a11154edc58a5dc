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

package cache

import (
	"context"
	"time"

	"github.com/nabbar/go-sessions/cerrs"
	"github.com/nabbar/go-sessions/pool"

	"gorm.io/gorm"
)

// cacheRow is the `cache(key TEXT PRIMARY KEY, value BLOB, expiration REAL)`
// schema, expressed as a gorm model.
type cacheRow struct {
	Key        string `gorm:"primaryKey"`
	Value      []byte
	Expiration float64 // unix seconds; 0 = no expiration
}

func (cacheRow) TableName() string { return "cache" }

type sqlBackend struct {
	sp    *pool.SQLPool
	owner pool.OwnerToken
}

func newSQLBackend(sp *pool.SQLPool) (*sqlBackend, error) {
	b := &sqlBackend{sp: sp, owner: pool.NewOwnerToken()}

	db, err := sp.Acquire(context.Background(), b.owner, 0)
	if err != nil {
		return nil, cerrs.New(ErrBackend, err)
	}
	defer sp.Release(b.owner, db, true)

	if err := db.AutoMigrate(&cacheRow{}); err != nil {
		return nil, cerrs.New(ErrBackend, err)
	}
	return b, nil
}

func (b *sqlBackend) with(ctx context.Context, fct func(*gorm.DB) error) error {
	db, err := b.sp.Acquire(ctx, b.owner, 30*time.Second)
	if err != nil {
		return cerrs.New(ErrBackend, err)
	}

	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		b.sp.Release(b.owner, db, true)
		return cerrs.New(ErrBackend, tx.Error)
	}

	if err := fct(tx); err != nil {
		tx.Rollback()
		b.sp.Release(b.owner, db, true)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		b.sp.Release(b.owner, db, true)
		return cerrs.New(ErrBackend, err)
	}

	b.sp.Release(b.owner, db, true)
	return nil
}

func (b *sqlBackend) get(ctx context.Context, key string, renew bool, ttl time.Duration) ([]byte, bool, error) {
	now := float64(time.Now().UnixNano()) / float64(time.Second)
	var row cacheRow
	var found bool

	err := b.with(ctx, func(tx *gorm.DB) error {
		// pre-read sweep
		if err := tx.Where("expiration > 0 AND expiration < ?", now).Delete(&cacheRow{}).Error; err != nil {
			return err
		}

		res := tx.Where("key = ?", key).First(&row)
		if res.Error != nil {
			if res.Error == gorm.ErrRecordNotFound {
				return nil
			}
			return res.Error
		}
		found = true

		if renew && ttl > 0 {
			row.Expiration = float64(time.Now().Add(ttl).UnixNano()) / float64(time.Second)
			return tx.Save(&row).Error
		}
		return nil
	})
	if err != nil || !found {
		return nil, false, err
	}
	return row.Value, true, nil
}

func (b *sqlBackend) set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	row := cacheRow{Key: key, Value: value}
	if ttl > 0 {
		row.Expiration = float64(time.Now().Add(ttl).UnixNano()) / float64(time.Second)
	}

	return b.with(ctx, func(tx *gorm.DB) error {
		return tx.Save(&row).Error
	})
}

func (b *sqlBackend) delete(ctx context.Context, key string) error {
	return b.with(ctx, func(tx *gorm.DB) error {
		return tx.Where("key = ?", key).Delete(&cacheRow{}).Error
	})
}

func (b *sqlBackend) keys(ctx context.Context) ([]string, error) {
	var rows []cacheRow
	err := b.with(ctx, func(tx *gorm.DB) error {
		return tx.Select("key").Find(&rows).Error
	})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Key)
	}
	return out, nil
}

func (b *sqlBackend) items(ctx context.Context) (map[string][]byte, error) {
	var rows []cacheRow
	err := b.with(ctx, func(tx *gorm.DB) error {
		return tx.Find(&rows).Error
	})
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Value
	}
	return out, nil
}

func (b *sqlBackend) clear(ctx context.Context) error {
	return b.with(ctx, func(tx *gorm.DB) error {
		return tx.Where("1 = 1").Delete(&cacheRow{}).Error
	})
}

func (b *sqlBackend) close() {}
