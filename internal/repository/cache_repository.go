package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const (
	leaderboardKeyPrefix = "mathtrack:leaderboard:"
	submitLockKeyFormat  = "mathtrack:submit_lock:%d"
)

// 只删除自己持有的锁，避免锁过期后误删其他请求的锁
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// CacheRepository 排行榜缓存和提交防重锁，Redis 不可用时全部降级为空操作
type CacheRepository struct {
	Redis *redis.Client
}

func NewCacheRepository(rdb *redis.Client) *CacheRepository {
	return &CacheRepository{Redis: rdb}
}

func (r *CacheRepository) GetLeaderboard(ctx context.Context, key string) ([]byte, bool) {
	if r.Redis == nil {
		return nil, false
	}
	data, err := r.Redis.Get(ctx, leaderboardKeyPrefix+key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

func (r *CacheRepository) SetLeaderboard(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if r.Redis == nil || ttl <= 0 {
		return nil
	}
	return r.Redis.Set(ctx, leaderboardKeyPrefix+key, data, ttl).Err()
}

// InvalidateLeaderboard 删除所有排序方式的缓存
func (r *CacheRepository) InvalidateLeaderboard(ctx context.Context) error {
	if r.Redis == nil {
		return nil
	}
	iter := r.Redis.Scan(ctx, 0, leaderboardKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.Redis.Del(ctx, keys...).Err()
}

// AcquireSubmitLock 同一用户同一时间只允许一个提交在处理，返回释放锁所需的令牌。
// 未配置 Redis 时总是成功，令牌为空
func (r *CacheRepository) AcquireSubmitLock(ctx context.Context, userID uint, ttl time.Duration) (string, bool, error) {
	if r.Redis == nil {
		return "", true, nil
	}
	token := uuid.NewString()
	ok, err := r.Redis.SetNX(ctx, fmt.Sprintf(submitLockKeyFormat, userID), token, ttl).Result()
	if err != nil || !ok {
		return "", false, err
	}
	return token, true, nil
}

// ReleaseSubmitLock 令牌与当前持有者一致时才删除
func (r *CacheRepository) ReleaseSubmitLock(ctx context.Context, userID uint, token string) error {
	if r.Redis == nil || token == "" {
		return nil
	}
	return releaseLockScript.Run(ctx, r.Redis, []string{fmt.Sprintf(submitLockKeyFormat, userID)}, token).Err()
}

func (r *CacheRepository) Ping(ctx context.Context) error {
	if r.Redis == nil {
		return nil
	}
	return r.Redis.Ping(ctx).Err()
}
