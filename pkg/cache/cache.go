package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTL 상수 정의
const (
	TTLCategories = 10 * time.Minute // 제공처/카테고리 목록 (변경 빈도 낮음)
	TTLDefault    = 5 * time.Minute
)

// 캐시 키 접두사
const (
	PrefixCategories = "notice:categories:"
)

// ErrMiss is returned when the key is absent or the cache is disabled
var ErrMiss = errors.New("cache miss")

// Service Redis 캐시 서비스 인터페이스
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	// 제공처/카테고리 목록 캐시
	GetCategoryTree(ctx context.Context, dest interface{}) error
	SetCategoryTree(ctx context.Context, data interface{}) error
	InvalidateCategoryTree(ctx context.Context) error

	IsAvailable() bool
}

// redisCache Redis 기반 캐시 구현
type redisCache struct {
	client *redis.Client
}

// NewService 새로운 캐시 서비스 생성 (client가 nil이면 모든 조회는 miss)
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

// IsAvailable Redis 연결 가능 여부
func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

// Get 캐시에서 값 조회
func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return ErrMiss
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}

// Set 캐시에 값 저장
func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil // Redis 없으면 무시
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = TTLDefault
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

// Delete 캐시 삭제
func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil || len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *redisCache) GetCategoryTree(ctx context.Context, dest interface{}) error {
	return c.Get(ctx, PrefixCategories+"tree", dest)
}

func (c *redisCache) SetCategoryTree(ctx context.Context, data interface{}) error {
	return c.Set(ctx, PrefixCategories+"tree", data, TTLCategories)
}

func (c *redisCache) InvalidateCategoryTree(ctx context.Context) error {
	return c.Delete(ctx, PrefixCategories+"tree")
}
