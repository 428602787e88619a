package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"soulengine/internal/domain"
)

// CharacterCache is a read-through cache in front of a character
// repository, backed by Redis. A cache miss or a Redis error falls
// through to the caller rather than failing the request — the cache
// is a latency optimisation, never a source of truth.
type CharacterCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewCharacterCache(client *redis.Client, ttl time.Duration) *CharacterCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CharacterCache{client: client, ttl: ttl, prefix: "character:snapshot:"}
}

func (c *CharacterCache) Get(ctx context.Context, id string) (domain.CharacterSnapshot, bool) {
	if c == nil || c.client == nil {
		return domain.CharacterSnapshot{}, false
	}
	raw, err := c.client.Get(ctx, c.prefix+id).Bytes()
	if err != nil {
		return domain.CharacterSnapshot{}, false
	}
	var snap domain.CharacterSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return domain.CharacterSnapshot{}, false
	}
	return snap, true
}

func (c *CharacterCache) Set(ctx context.Context, snap domain.CharacterSnapshot) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return
	}
	c.client.Set(ctx, c.prefix+snap.ID, data, c.ttl)
}

func (c *CharacterCache) Invalidate(ctx context.Context, id string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, c.prefix+id)
}
