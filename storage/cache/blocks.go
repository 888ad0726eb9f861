package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const BlockedIdsRedisKey = "blocked_ids"

// BlocksCache keeps per-viewer blocked-id sets so feed requests resolve
// their block filter with a single redis hit on the warm path.
type BlocksCache struct {
	redisClient *redis.Client
	expiration  time.Duration
}

func NewBlocksCache(redisConnection *redis.Client, expiration time.Duration) *BlocksCache {
	return &BlocksCache{
		redisClient: redisConnection,
		expiration:  expiration,
	}
}

func (c *BlocksCache) GetBlockedIDs(viewerID int64) ([]int64, bool) {
	ctx := context.Background()
	viewerStr := strconv.FormatInt(viewerID, 10)

	val, err := c.redisClient.HGet(ctx, BlockedIdsRedisKey, viewerStr).Result()
	if err != nil {
		return nil, false
	}

	var ids []int64
	if err := json.Unmarshal([]byte(val), &ids); err != nil {
		log.Errorf("Error unmarshalling blocked ids: %s", err)
		return nil, false
	}
	return ids, true
}

func (c *BlocksCache) SetBlockedIDs(viewerID int64, ids []int64) {
	ctx := context.Background()
	viewerStr := strconv.FormatInt(viewerID, 10)

	bytes, err := json.Marshal(ids)
	if err != nil {
		return
	}
	c.redisClient.HSet(ctx, BlockedIdsRedisKey, viewerStr, bytes)
	c.redisClient.HExpire(ctx, BlockedIdsRedisKey, c.expiration, viewerStr)
}

// Invalidate drops a viewer's cached set after a block or unblock event.
func (c *BlocksCache) Invalidate(viewerID int64) {
	ctx := context.Background()
	c.redisClient.HDel(ctx, BlockedIdsRedisKey, strconv.FormatInt(viewerID, 10))
}
