package redis

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/agrirent/rental-order-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// EquipmentCache is a read-through cache over equipment lookups. The store
// stays the source of truth: every equipment status write invalidates the
// entry, and a miss or a redis failure just falls through to postgres.
type EquipmentCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewEquipmentCache(addr, password string, ttl time.Duration) *EquipmentCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	return &EquipmentCache{client: client, ttl: ttl}
}

func cacheKey(equipmentID string) string {
	return "equipment:" + equipmentID
}

func (c *EquipmentCache) Get(ctx context.Context, equipmentID string) (*domain.Equipment, bool) {
	raw, err := c.client.Get(ctx, cacheKey(equipmentID)).Bytes()
	if err != nil {
		return nil, false
	}

	var equipment domain.Equipment
	if err := json.Unmarshal(raw, &equipment); err != nil {
		return nil, false
	}
	return &equipment, true
}

func (c *EquipmentCache) Set(ctx context.Context, equipment *domain.Equipment) {
	raw, err := json.Marshal(equipment)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(equipment.ID), raw, c.ttl).Err(); err != nil {
		slog.Warn("equipment cache set failed", "equipment_id", equipment.ID, "error", err.Error())
	}
}

func (c *EquipmentCache) Invalidate(ctx context.Context, equipmentID string) {
	if err := c.client.Del(ctx, cacheKey(equipmentID)).Err(); err != nil {
		slog.Warn("equipment cache invalidate failed", "equipment_id", equipmentID, "error", err.Error())
	}
}
