package feeds

import (
	"context"
	"errors"
	"strconv"

	log "github.com/sirupsen/logrus"

	"faithfeed/monitoring"
	"faithfeed/storage/models"
)

const (
	DefaultLimit = 25
	MaxLimit     = 50

	// MaxFallbackWindow bounds how far the snapshot scan reaches. Not a
	// tuned value; inherited from the main application.
	MaxFallbackWindow = 500
)

// ErrInvalidCursor is the only fault GetFeed surfaces to callers.
var ErrInvalidCursor = errors.New("invalid cursor")

// PrimarySource is the relational read path.
type PrimarySource interface {
	GetPostsBefore(ctx context.Context, before int64, exclude []int64, limit int32) ([]models.Post, error)
}

// FallbackSource is the in-process read path used when the primary is
// unavailable or structurally unconfigured.
type FallbackSource interface {
	Window(n int) []models.Post
	Len() int
}

type BlockSource interface {
	GetBlockedIDs(ctx context.Context, viewerID int64) ([]int64, error)
}

type Feed struct {
	primary        PrimarySource
	fallback       FallbackSource
	blocks         BlockSource
	primaryEnabled bool
	fallbackWindow int
}

func NewFeed(
	primary PrimarySource,
	fallback FallbackSource,
	blocks BlockSource,
	primaryEnabled bool,
	fallbackWindow int,
) *Feed {
	if fallbackWindow <= 0 || fallbackWindow > MaxFallbackWindow {
		fallbackWindow = MaxFallbackWindow
	}
	return &Feed{
		primary:        primary,
		fallback:       fallback,
		blocks:         blocks,
		primaryEnabled: primaryEnabled,
		fallbackWindow: fallbackWindow,
	}
}

// GetFeed assembles one cursor page for the viewer: newest-id-first,
// block-filtered, limit clamped to [1, MaxLimit]. NextCursor is set only
// when the page came back full, so a short page always means end of
// feed. viewerID 0 means an anonymous viewer.
func (f *Feed) GetFeed(ctx context.Context, viewerID int64, cursor string, limit int) (Page, error) {
	if limit <= 0 {
		limit = DefaultLimit
	} else if limit > MaxLimit {
		limit = MaxLimit
	}

	var before int64
	if cursor != "" {
		parsed, err := strconv.ParseInt(cursor, 10, 64)
		if err != nil || parsed <= 0 {
			return Page{}, ErrInvalidCursor
		}
		before = parsed
	}

	// One block-set resolution per request; both source paths must see
	// the same filter so switching sources never changes visible content.
	blocked := f.blockedSet(ctx, viewerID)

	if f.primaryEnabled && f.primary != nil {
		posts, err := f.primary.GetPostsBefore(ctx, before, setToSlice(blocked), int32(limit+1))
		if err != nil {
			log.Warningf("Primary feed source failed, falling back: %v", err)
			return f.getFallbackPage(before, limit, blocked), nil
		}
		if len(posts) == 0 && before == 0 && f.fallback != nil && f.fallback.Len() > 0 {
			// Empty primary on a first page while the snapshot has data
			// usually means a half-recovered source. Prefer showing posts.
			return f.getFallbackPage(before, limit, blocked), nil
		}
		if len(posts) > limit {
			posts = posts[:limit]
		}
		monitoring.FeedSourceTotal.WithLabelValues("primary").Inc()
		return newPage(posts, limit), nil
	}

	return f.getFallbackPage(before, limit, blocked), nil
}

func (f *Feed) getFallbackPage(before int64, limit int, blocked map[int64]bool) Page {
	if f.fallback == nil {
		monitoring.FeedSourceTotal.WithLabelValues("empty").Inc()
		return newPage(nil, limit)
	}
	monitoring.FeedSourceTotal.WithLabelValues("fallback").Inc()

	window := f.fallback.Window(f.fallbackWindow)
	visible := make([]models.Post, 0, len(window))
	for _, post := range window {
		if !blocked[post.AuthorID] {
			visible = append(visible, post)
		}
	}

	// The window is descending by id, so the cursor position is the
	// first entry strictly older than it.
	start := 0
	if before > 0 {
		start = len(visible)
		for i, post := range visible {
			if post.ID < before {
				start = i
				break
			}
		}
	}

	end := start + limit
	if end > len(visible) {
		end = len(visible)
	}
	return newPage(visible[start:end], limit)
}

func (f *Feed) blockedSet(ctx context.Context, viewerID int64) map[int64]bool {
	if viewerID == 0 || f.blocks == nil {
		return nil
	}
	ids, err := f.blocks.GetBlockedIDs(ctx, viewerID)
	if err != nil {
		// A broken block lookup degrades to an unfiltered feed rather
		// than a failed request.
		log.Warningf("Error resolving blocked ids for viewer %d: %v", viewerID, err)
		return nil
	}
	blocked := make(map[int64]bool, len(ids))
	for _, id := range ids {
		blocked[id] = true
	}
	return blocked
}

func setToSlice(set map[int64]bool) []int64 {
	if len(set) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}
