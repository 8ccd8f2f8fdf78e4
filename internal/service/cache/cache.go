// Package cache stores serialized results with a TTL, in memory or in Redis.
package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// BytesCache is a minimal cache API storing raw bytes with TTL.
type BytesCache interface {
	GetBytes(ctx context.Context, key string) (b []byte, ok bool, err error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Key joins prefix and params with ':'; long keys are hashed.
func Key(prefix string, params ...interface{}) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, strings.ToLower(fmt.Sprint(p)))
	}
	tail := strings.Join(parts, ":")
	if len(tail) > 128 {
		sum := md5.Sum([]byte(tail))
		tail = hex.EncodeToString(sum[:])
	}
	return prefix + ":" + tail
}

// GetJSON reads key and decodes it into dest. A miss or undecodable entry reports false.
func GetJSON(ctx context.Context, c BytesCache, key string, dest interface{}) (bool, error) {
	b, ok, err := c.GetBytes(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return false, nil
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, c BytesCache, key string, v interface{}, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	return c.SetBytes(ctx, key, b, ttl)
}
