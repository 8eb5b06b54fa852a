package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kunotice/notice-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const rateLimitMessage = "요청이 너무 많습니다. 잠시 후 다시 시도해주세요."

// rateLimitScript is an atomic Lua script for sliding window rate limiting
var rateLimitScript = redis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)

if count < limit then
    redis.call('ZADD', key, now, now .. ':' .. math.random(1000000))
    redis.call('PEXPIRE', key, window + 1000)
    return {1, limit - count - 1, 0}
end

local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
local reset_at = 0
if #oldest >= 2 then
    reset_at = tonumber(oldest[2]) + window
end
return {0, 0, reset_at}
`)

// RateLimitPerUser limits requests per authenticated user (client IP when anonymous).
// A nil client disables limiting; redis errors fail open.
func RateLimitPerUser(redisClient *redis.Client, requestsPerMinute int) gin.HandlerFunc {
	if redisClient == nil || requestsPerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return slidingWindow(redisClient, requestsPerMinute)
}

func slidingWindow(scripter redis.Scripter, requestsPerMinute int) gin.HandlerFunc {
	const windowMs = int64(60 * 1000)

	return func(c *gin.Context) {
		key := "notice:ratelimit:ip:" + c.ClientIP()
		if userID := GetUserID(c); userID > 0 {
			key = "notice:ratelimit:user:" + strconv.FormatInt(userID, 10)
		}

		now := time.Now().UnixMilli()
		result, err := rateLimitScript.Run(c.Request.Context(), scripter, []string{key},
			requestsPerMinute, windowMs, now,
		).Int64Slice()
		if err != nil || len(result) != 3 {
			logger.Warn("rate limit check skipped: %v", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(requestsPerMinute))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(result[1], 10))

		if result[0] != 1 {
			retryAfter := (result[2] - now) / 1000
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   gin.H{"code": "RATE_LIMITED", "message": rateLimitMessage},
			})
			return
		}

		c.Next()
	}
}
