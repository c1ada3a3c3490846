package utility

import (
	"context"
	"sync"
	"time"
)

// cacheItem 缓存项结构
type cacheItem struct {
	value      string
	expiration time.Time
	hasExpiry  bool
}

// isExpired 检查是否过期
func (item *cacheItem) isExpired() bool {
	if !item.hasExpiry {
		return false
	}
	return time.Now().After(item.expiration)
}

// memoryCacheService 是基于内存的缓存服务实现（Redis 不可用时的降级方案）。
type memoryCacheService struct {
	data sync.Map
}

// NewMemoryCacheService 创建内存缓存服务实例
func NewMemoryCacheService() CacheService {
	svc := &memoryCacheService{}
	// 后台定期清理过期数据
	go svc.cleanupLoop()
	return svc
}

func (s *memoryCacheService) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		s.data.Range(func(key, value interface{}) bool {
			if item, ok := value.(*cacheItem); ok && item.isExpired() {
				s.data.Delete(key)
			}
			return true
		})
	}
}

func (s *memoryCacheService) Set(_ context.Context, key string, value string, expiration time.Duration) error {
	item := &cacheItem{value: value}
	if expiration > 0 {
		item.expiration = time.Now().Add(expiration)
		item.hasExpiry = true
	}
	s.data.Store(key, item)
	return nil
}

func (s *memoryCacheService) Get(_ context.Context, key string) (string, error) {
	value, ok := s.data.Load(key)
	if !ok {
		return "", nil
	}
	item, ok := value.(*cacheItem)
	if !ok || item.isExpired() {
		s.data.Delete(key)
		return "", nil
	}
	return item.value, nil
}

func (s *memoryCacheService) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		s.data.Delete(key)
	}
	return nil
}
