package cache

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/talkora/chat-media-go/internal/db"
	"github.com/talkora/chat-media-go/internal/port"
	media "github.com/talkora/chat-media-go/internal/usecase/media"
)

type Cache struct {
	client *redis.Client
}

// compile-time check: *Cache must satisfy port.Cache
var _ port.Cache = (*Cache)(nil)

func NewCache(addr, password string) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	return &Cache{client: rdb}
}

func (c *Cache) GetMaterialized(ctx context.Context, messageID db.UUID) ([]byte, error) {
	log.Printf("getting cache entry for message #%s...", messageID)

	val, err := c.client.Get(ctx, getCacheKey(messageID.String())).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // cache miss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	return val, nil
}

// SetMaterialized is best-effort: the cache only ever mirrors ready rows,
// which are immutable, so a dropped write costs one database read.
func (c *Cache) SetMaterialized(ctx context.Context, messageID db.UUID, data []byte) {
	log.Printf("creating cache entry for message #%s...", messageID)

	if err := c.client.Set(ctx, getCacheKey(messageID.String()), data, media.MaterializedCacheTTL).Err(); err != nil {
		log.Printf("redis set failed for message #%s: %v", messageID, err)
	}
}

func (c *Cache) DeleteMaterialized(ctx context.Context, messageID db.UUID) error {
	log.Printf("deleting cache entry for message #%s...", messageID)

	if err := c.client.Del(ctx, getCacheKey(messageID.String())).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

func getCacheKey(id string) string {
	return "materialized:" + id
}
