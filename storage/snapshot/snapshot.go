package snapshot

import (
	"sort"
	"sync"

	"faithfeed/storage/models"
)

// Snapshot is the in-process fallback content source: a bounded,
// newest-first copy of the most recent posts. All paging state lives in
// the caller's cursor, so concurrent readers only share the RWMutex.
type Snapshot struct {
	mu      sync.RWMutex
	posts   []models.Post // descending by id
	maxSize int
}

func New(maxSize int) *Snapshot {
	return &Snapshot{
		posts:   make([]models.Post, 0, maxSize),
		maxSize: maxSize,
	}
}

// AddPost inserts a post keeping descending id order. An existing post
// with the same id is replaced.
func (s *Snapshot) AddPost(post models.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := sort.Search(len(s.posts), func(i int) bool {
		return s.posts[i].ID <= post.ID
	})
	if i < len(s.posts) && s.posts[i].ID == post.ID {
		s.posts[i] = post
		return
	}
	s.posts = append(s.posts, models.Post{})
	copy(s.posts[i+1:], s.posts[i:])
	s.posts[i] = post

	if len(s.posts) > s.maxSize {
		s.posts = s.posts[:s.maxSize]
	}
}

func (s *Snapshot) RemovePost(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.posts = append(s.posts[:i], s.posts[i+1:]...)
}

// UpdateCounters applies like/reply counter deltas, flooring at zero.
func (s *Snapshot) UpdateCounters(id int64, likeDelta, replyDelta int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.posts[i].LikeCount = max(0, s.posts[i].LikeCount+likeDelta)
	s.posts[i].ReplyCount = max(0, s.posts[i].ReplyCount+replyDelta)
}

// Replace swaps in a freshly fetched post set, e.g. after a warm-up
// read from the primary source.
func (s *Snapshot) Replace(posts []models.Post) {
	sorted := make([]models.Post, len(posts))
	copy(sorted, posts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ID > sorted[j].ID
	})
	if len(sorted) > s.maxSize {
		sorted = sorted[:s.maxSize]
	}

	s.mu.Lock()
	s.posts = sorted
	s.mu.Unlock()
}

// Window returns a copy of up to n most recent posts.
func (s *Snapshot) Window(n int) []models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n > len(s.posts) {
		n = len(s.posts)
	}
	window := make([]models.Post, n)
	copy(window, s.posts[:n])
	return window
}

func (s *Snapshot) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts)
}

func (s *Snapshot) indexOf(id int64) int {
	i := sort.Search(len(s.posts), func(i int) bool {
		return s.posts[i].ID <= id
	})
	if i < len(s.posts) && s.posts[i].ID == id {
		return i
	}
	return -1
}
