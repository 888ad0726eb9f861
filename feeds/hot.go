package feeds

import (
	"math"
	"sort"
	"time"

	"faithfeed/storage/models"
)

const (
	// hotScoreEpoch is 2024-01-01T00:00:00Z. Recency is measured as
	// seconds since it, so a post gains one score point per
	// hotScorePeriod (12.5 hours) of recency.
	hotScoreEpoch  = 1704067200
	hotScorePeriod = 45000

	// ConfidenceThreshold is the total engagement below which a post's
	// score gets damped. Inherited from the main application; not a
	// tuned value.
	ConfidenceThreshold = 5
)

// RankByHotScore reorders the batch descending by hot score. The input
// is not modified; ties keep their input order.
func RankByHotScore(posts []models.Post) []models.Post {
	now := time.Now()

	scores := make([]float64, len(posts))
	for i, post := range posts {
		scores[i] = HotScore(post, now)
	}

	// Sort indices rather than the posts so the comparator keeps
	// reading the score of the element it is actually comparing.
	order := make([]int, len(posts))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	ranked := make([]models.Post, len(posts))
	for i, idx := range order {
		ranked[i] = posts[idx]
	}
	return ranked
}

// HotScore blends log-scaled engagement with a linear recency bonus,
// damped when the post has fewer than ConfidenceThreshold interactions.
// Replies weigh double: they are a deeper signal than a one-tap like. A
// zero createdAt scores as now.
func HotScore(post models.Post, now time.Time) float64 {
	upvotes := post.LikeCount
	replies := post.ReplyCount

	engagement := upvotes + replies*2
	if engagement < 1 {
		engagement = 1
	}
	engagementScore := math.Log10(float64(engagement))

	createdAt := post.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	timeScore := float64(createdAt.Unix()-hotScoreEpoch) / hotScorePeriod

	score := engagementScore + timeScore

	if total := upvotes + replies; total < ConfidenceThreshold {
		confidence := 0.1
		if total > 0 {
			confidence = math.Min(1, float64(total)/ConfidenceThreshold)
		}
		score *= 0.5 + confidence*0.5
	}
	return score
}
