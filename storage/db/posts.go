package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"faithfeed/storage/models"
)

// GetPostsBefore returns up to limit non-deleted posts ordered strictly
// descending by id, bounded to id < before when before > 0 and skipping
// authors in exclude.
func (s *Source) GetPostsBefore(ctx context.Context, before int64, exclude []int64, limit int32) ([]models.Post, error) {
	if exclude == nil {
		exclude = []int64{}
	}
	rows, err := s.pool.Query(
		ctx,
		`SELECT id, author_id, content, created_at, like_count, reply_count, anonymous_nickname
		 FROM posts
		 WHERE deleted_at IS NULL
		   AND ($1 = 0 OR id < $1)
		   AND NOT (author_id = ANY($2))
		 ORDER BY id DESC
		 LIMIT $3`,
		before, exclude, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

// GetRecentPosts returns the limit most recent non-deleted posts. Used
// to warm the fallback snapshot.
func (s *Source) GetRecentPosts(ctx context.Context, limit int32) ([]models.Post, error) {
	rows, err := s.pool.Query(
		ctx,
		`SELECT id, author_id, content, created_at, like_count, reply_count, anonymous_nickname
		 FROM posts
		 WHERE deleted_at IS NULL
		 ORDER BY id DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

func scanPosts(rows pgx.Rows) ([]models.Post, error) {
	posts := make([]models.Post, 0)
	for rows.Next() {
		var post models.Post
		var createdAt pgtype.Timestamp
		var nickname pgtype.Text
		err := rows.Scan(
			&post.ID,
			&post.AuthorID,
			&post.Content,
			&createdAt,
			&post.LikeCount,
			&post.ReplyCount,
			&nickname,
		)
		if err != nil {
			return nil, err
		}
		post.CreatedAt = createdAt.Time
		post.AnonymousNickname = nickname.String
		posts = append(posts, post)
	}
	return posts, rows.Err()
}
