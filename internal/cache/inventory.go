package cache

import (
	"context"
	"fmt"
	"time"
)

// TTLs for the cached entities. Users change rarely; the invalidation on
// profile update keeps the longer TTL safe.
const (
	UserTTL = 5 * time.Minute
)

// UserKey returns the cache key for a user profile.
func UserKey(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

// Invalidate removes a single key from the cache.
func Invalidate(ctx context.Context, key string) {
	if client == nil {
		return
	}
	client.Del(ctx, key)
}

// InvalidateUser removes a cached user profile.
func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}
