package tasks

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"faithfeed/storage/db"
	"faithfeed/storage/snapshot"
)

const snapshotRefreshInterval = 15 * time.Minute

// RefreshSnapshot periodically rebuilds the fallback snapshot from the
// primary source, catching anything the ingest stream missed. A failed
// refresh keeps the previous snapshot contents.
func RefreshSnapshot(source *db.Source, contentSnapshot *snapshot.Snapshot, window int) {
	refresh(source, contentSnapshot, window)
	for {
		select {
		case <-time.After(snapshotRefreshInterval):
			refresh(source, contentSnapshot, window)
		}
	}
}

func refresh(source *db.Source, contentSnapshot *snapshot.Snapshot, window int) {
	posts, err := source.GetRecentPosts(context.Background(), int32(window))
	if err != nil {
		log.Errorf("Error refreshing snapshot: %v", err)
		return
	}
	contentSnapshot.Replace(posts)
}
