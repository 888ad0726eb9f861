package models

import "time"

// Post is the feed unit. ID is strictly increasing in insertion order
// and is the only field used for pagination ordering and cursors.
type Post struct {
	ID                int64     `json:"id"`
	AuthorID          int64     `json:"authorId"`
	Content           string    `json:"content"`
	CreatedAt         time.Time `json:"createdAt"`
	LikeCount         int64     `json:"likeCount"`
	ReplyCount        int64     `json:"replyCount"`
	IsLiked           bool      `json:"isLiked,omitempty"`
	IsBookmarked      bool      `json:"isBookmarked,omitempty"`
	AnonymousNickname string    `json:"anonymousNickname,omitempty"`
}
