// Package cache wraps redis with JSON get/set helpers for the admin list
// endpoints. A nil client disables caching rather than failing.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const AdminListTTL = 60 * time.Second

func Get(ctx context.Context, rdb *redis.Client, key string, dest interface{}) (bool, error) {
	if rdb == nil {
		return false, nil
	}
	val, err := rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

func Set(ctx context.Context, rdb *redis.Client, key string, value interface{}, ttl time.Duration) error {
	if rdb == nil {
		return nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, b, ttl).Err()
}

func Delete(ctx context.Context, rdb *redis.Client, keys ...string) error {
	if rdb == nil || len(keys) == 0 {
		return nil
	}
	return rdb.Del(ctx, keys...).Err()
}

// InvalidateAdminLists drops the first pages of the cached admin listings
// after an approval or adjustment (simple version: deeper pages expire on
// their own within the TTL).
func InvalidateAdminLists(ctx context.Context, rdb *redis.Client) {
	if rdb == nil {
		return
	}
	keys := make([]string, 0, 10)
	for page := 1; page <= 5; page++ {
		keys = append(keys,
			fmt.Sprintf("admin:users:page=%d:size=20", page),
			fmt.Sprintf("admin:txs:page=%d:size=20", page),
		)
	}
	_ = Delete(ctx, rdb, keys...)
}
