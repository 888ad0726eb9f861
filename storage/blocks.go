package storage

import (
	"context"

	"faithfeed/storage/cache"
	"faithfeed/storage/db"
)

// BlockDirectory resolves a viewer's blocked-id set, serving from the
// redis cache and filling it from the database on a miss.
type BlockDirectory struct {
	source *db.Source
	cache  *cache.BlocksCache
}

func NewBlockDirectory(source *db.Source, blocksCache *cache.BlocksCache) *BlockDirectory {
	return &BlockDirectory{
		source: source,
		cache:  blocksCache,
	}
}

func (d *BlockDirectory) GetBlockedIDs(ctx context.Context, viewerID int64) ([]int64, error) {
	if viewerID == 0 {
		return nil, nil
	}
	if ids, ok := d.cache.GetBlockedIDs(viewerID); ok {
		return ids, nil
	}

	ids, err := d.source.GetBlockedIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	d.cache.SetBlockedIDs(viewerID, ids)
	return ids, nil
}
