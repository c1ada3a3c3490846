package utility

import (
	"log"

	"github.com/redis/go-redis/v9"
)

// NewCacheServiceWithFallback 创建带有自动降级功能的缓存服务。
// redisClient 为 nil 时（未配置或连接失败）降级为内存缓存。
func NewCacheServiceWithFallback(redisClient *redis.Client) CacheService {
	if redisClient == nil {
		log.Println("使用内存缓存服务")
		return NewMemoryCacheService()
	}
	log.Println("使用 Redis 缓存服务")
	return NewCacheService(redisClient)
}
