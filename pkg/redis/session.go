package redis

import (
	"context"
	"errors"
	"time"

	rd "github.com/redis/go-redis/v9"
)

// RevokeSession 记录登出的 jti，保留到令牌原本的过期时间。
func RevokeSession(ctx context.Context, rdb *rd.Client, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return rdb.Set(ctx, RevokedSessionKey(jti), "1", ttl).Err()
}

// IsSessionRevoked 查询 jti 是否已被吊销。
func IsSessionRevoked(ctx context.Context, rdb *rd.Client, jti string) (bool, error) {
	err := rdb.Get(ctx, RevokedSessionKey(jti)).Err()
	if errors.Is(err, rd.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
