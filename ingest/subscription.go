package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"faithfeed/monitoring"
	"faithfeed/storage/cache"
	"faithfeed/storage/db"
	"faithfeed/storage/models"
	"faithfeed/storage/snapshot"
)

const cursorPersistEvery = 100

// Event is one content change pushed by the main application. Only the
// field matching the type is populated.
type Event struct {
	Seq    int64                 `json:"seq"`
	Type   string                `json:"type"`
	Post   *models.Post          `json:"post,omitempty"`
	PostID int64                 `json:"postId,omitempty"`
	Block  *models.BlockRelation `json:"block,omitempty"`
}

// Subscription consumes the content event stream and keeps the
// in-process snapshot and block cache in step with the primary store,
// so the fallback path stays fresh without polling.
type Subscription struct {
	service    string
	url        url.URL
	connection *websocket.Conn
	source     *db.Source
	snapshot   *snapshot.Snapshot
	blocks     *cache.BlocksCache
}

func NewSubscription(
	service string,
	u url.URL,
	source *db.Source,
	contentSnapshot *snapshot.Snapshot,
	blocksCache *cache.BlocksCache,
) *Subscription {
	cursor, err := source.GetCursor(context.Background(), service)
	if err != nil {
		log.Errorf("Error getting ingest cursor: %v", err)
	}
	if cursor > 0 {
		u.RawQuery = fmt.Sprintf("cursor=%d", cursor)
	}

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Error(err)
		return nil
	}

	return &Subscription{
		service:    service,
		url:        u,
		connection: c,
		source:     source,
		snapshot:   contentSnapshot,
		blocks:     blocksCache,
	}
}

// Run reads events until the connection drops; the supervising task
// loop reconnects with the persisted cursor.
func (s *Subscription) Run() {
	defer s.connection.Close()

	var seen int64
	for {
		_, message, err := s.connection.ReadMessage()
		if err != nil {
			log.Errorf("Error reading ingest message: %v", err)
			return
		}

		var evt Event
		if err := json.Unmarshal(message, &evt); err != nil {
			log.Errorf("Error unmarshalling ingest event: %v", err)
			continue
		}
		s.processEvent(&evt)

		seen++
		if seen%cursorPersistEvery == 0 {
			go func(cursor int64) {
				if err := s.source.UpdateCursor(context.Background(), s.service, cursor); err != nil {
					log.Errorf("Error updating ingest cursor: %v", err)
				}
			}(evt.Seq)
		}
	}
}

func (s *Subscription) processEvent(evt *Event) {
	monitoring.IngestEventsTotal.WithLabelValues(evt.Type).Inc()

	switch evt.Type {
	case "post_created":
		if evt.Post != nil {
			s.snapshot.AddPost(*evt.Post)
		}
	case "post_deleted":
		s.snapshot.RemovePost(evt.PostID)
	case "post_liked":
		s.snapshot.UpdateCounters(evt.PostID, 1, 0)
	case "post_unliked":
		s.snapshot.UpdateCounters(evt.PostID, -1, 0)
	case "post_replied":
		s.snapshot.UpdateCounters(evt.PostID, 0, 1)
	case "block_created", "block_deleted":
		if evt.Block != nil {
			s.blocks.Invalidate(evt.Block.BlockerID)
		}
	default:
		log.Warningf("Unknown ingest event type: %s", evt.Type)
	}
}
