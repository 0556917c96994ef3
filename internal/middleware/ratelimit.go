package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	rd "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	rediskey "nuvyra_admin/pkg/redis"
)

// luaRateLimit：Redis 滑动窗口限流 Lua 脚本（原子操作）
// KEYS[1]=限流key，ARGV[1]=当前时间戳，ARGV[2]=窗口开始时间戳，ARGV[3]=窗口秒数，
// ARGV[4]=本次请求的成员名，ARGV[5]=上限
// 返回：当前窗口内的请求数（超限返回 -1）
const luaRateLimit = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local windowStart = tonumber(ARGV[2])
local windowSec = tonumber(ARGV[3])
local member = ARGV[4]

-- 删除窗口外的旧记录
redis.call('ZREMRANGEBYSCORE', key, '0', windowStart)

local count = redis.call('ZCARD', key)

if count < tonumber(ARGV[5]) then
  redis.call('ZADD', key, now, member)
  redis.call('EXPIRE', key, windowSec)
  return count + 1
else
  return -1
end
`

// RedisRateLimit 按 scope + 客户端 IP 的滑动窗口限流，用于登录等敏感接口。
func RedisRateLimit(rdb *rd.Client, scope string, limit int, window time.Duration) gin.HandlerFunc {
	windowSec := int64(window.Seconds())
	if windowSec < 1 {
		windowSec = 1
	}
	return func(c *gin.Context) {
		if rdb == nil || limit <= 0 {
			c.Next()
			return
		}
		key := rediskey.RateLimitKey(scope, c.ClientIP())

		now := time.Now()
		member := fmt.Sprintf("%d-%d", now.Unix(), now.UnixNano())
		res, err := rdb.Eval(c.Request.Context(), luaRateLimit, []string{key},
			now.Unix(), now.Unix()-windowSec, windowSec, member, limit).Int()
		if err != nil {
			// Redis 出错时放行（降级策略）
			zap.L().Warn("rate limit check failed", zap.String("scope", scope), zap.Error(err))
			c.Next()
			return
		}

		if res < 0 {
			c.Header("Retry-After", fmt.Sprint(windowSec))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code": http.StatusTooManyRequests,
				"msg":  "too many attempts, please try again later",
			})
			return
		}
		c.Next()
	}
}
