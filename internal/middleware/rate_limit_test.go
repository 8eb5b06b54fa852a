package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

// scriptStub answers every script call with a fixed reply
type scriptStub struct {
	reply []interface{}
	err   error
	keys  []string
}

func (s *scriptStub) cmd(ctx context.Context, keys []string) *redis.Cmd {
	s.keys = append(s.keys, keys...)
	cmd := redis.NewCmd(ctx)
	if s.err != nil {
		cmd.SetErr(s.err)
	} else {
		cmd.SetVal(s.reply)
	}
	return cmd
}

func (s *scriptStub) Eval(ctx context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	return s.cmd(ctx, keys)
}

func (s *scriptStub) EvalSha(ctx context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	return s.cmd(ctx, keys)
}

func (s *scriptStub) EvalRO(ctx context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	return s.cmd(ctx, keys)
}

func (s *scriptStub) EvalShaRO(ctx context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	return s.cmd(ctx, keys)
}

func (s *scriptStub) ScriptExists(ctx context.Context, _ ...string) *redis.BoolSliceCmd {
	return redis.NewBoolSliceCmd(ctx)
}

func (s *scriptStub) ScriptLoad(ctx context.Context, _ string) *redis.StringCmd {
	return redis.NewStringCmd(ctx)
}

func limitedRouter(limiter gin.HandlerFunc, userID int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID > 0 {
			c.Set("userID", userID)
		}
		c.Next()
	})
	r.Use(limiter)
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func hit(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitPerUser_Disabled(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()

	for name, limiter := range map[string]gin.HandlerFunc{
		"nil client": RateLimitPerUser(nil, 1),
		"zero limit": RateLimitPerUser(client, 0),
	} {
		r := limitedRouter(limiter, 0)
		for i := 0; i < 3; i++ {
			w := hit(r)
			assert.Equal(t, http.StatusNoContent, w.Code, name)
			assert.Empty(t, w.Header().Get("X-RateLimit-Limit"), name)
		}
	}
}

func TestSlidingWindow_Allowed(t *testing.T) {
	stub := &scriptStub{reply: []interface{}{int64(1), int64(4), int64(0)}}
	w := hit(limitedRouter(slidingWindow(stub, 5), 42))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, []string{"notice:ratelimit:user:42"}, stub.keys)
}

func TestSlidingWindow_Rejected(t *testing.T) {
	resetAt := time.Now().Add(30 * time.Second).UnixMilli()
	stub := &scriptStub{reply: []interface{}{int64(0), int64(0), resetAt}}
	w := hit(limitedRouter(slidingWindow(stub, 5), 0))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), `"RATE_LIMITED"`)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	retry, err := strconv.Atoi(w.Header().Get("Retry-After"))
	assert.NoError(t, err)
	assert.InDelta(t, 30, retry, 2)
	assert.Len(t, stub.keys, 1)
	assert.Contains(t, stub.keys[0], "notice:ratelimit:ip:")
}

func TestSlidingWindow_FailsOpen(t *testing.T) {
	stub := &scriptStub{err: errors.New("connection refused")}
	w := hit(limitedRouter(slidingWindow(stub, 5), 42))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
}
