package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"faithfeed/feeds"
	"faithfeed/recommend"
	"faithfeed/storage/models"
)

type stubPrimary struct {
	posts []models.Post
}

func (s *stubPrimary) GetPostsBefore(_ context.Context, before int64, _ []int64, limit int32) ([]models.Post, error) {
	result := make([]models.Post, 0, limit)
	for _, post := range s.posts {
		if before > 0 && post.ID >= before {
			continue
		}
		result = append(result, post)
		if len(result) == int(limit) {
			break
		}
	}
	return result, nil
}

type stubPrayers struct {
	pool    []models.PrayerRequest
	history []models.PrayerRequest
}

func (s *stubPrayers) GetOpenPrayerRequests(context.Context) ([]models.PrayerRequest, error) {
	return s.pool, nil
}

func (s *stubPrayers) GetUserPrayerHistory(context.Context, int64) ([]models.PrayerRequest, error) {
	return s.history, nil
}

func (s *stubPrayers) GetPrayerProfile(_ context.Context, userID int64) (models.PrayerProfile, error) {
	return models.PrayerProfile{UserID: userID}, nil
}

func newTestServer(n int) *Server {
	posts := make([]models.Post, n)
	for i := 0; i < n; i++ {
		id := int64(n - i)
		posts[i] = models.Post{ID: id, AuthorID: 1, CreatedAt: time.Unix(1704067200+id, 0)}
	}
	feed := feeds.NewFeed(&stubPrimary{posts: posts}, nil, nil, true, 0)
	return NewServer(feed, &stubPrayers{}, "0", 1000)
}

func TestGetFeedHandler(t *testing.T) {
	s := newTestServer(40)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantItems  int
		wantCursor bool
	}{
		{"default limit", "/feed", http.StatusOK, feeds.DefaultLimit, true},
		{"explicit limit", "/feed?limit=10", http.StatusOK, 10, true},
		{"unparsable limit falls back", "/feed?limit=banana", http.StatusOK, feeds.DefaultLimit, true},
		{"invalid cursor", "/feed?cursor=banana", http.StatusBadRequest, 0, false},
		{"valid cursor", "/feed?cursor=11&limit=10", http.StatusOK, 10, true},
		{"last page", "/feed?cursor=6&limit=10", http.StatusOK, 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			s.getFeed(recorder, httptest.NewRequest(http.MethodGet, tt.target, nil))

			if recorder.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", recorder.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var page feeds.Page
			if err := json.Unmarshal(recorder.Body.Bytes(), &page); err != nil {
				t.Fatalf("invalid response body: %v", err)
			}
			if len(page.Items) != tt.wantItems {
				t.Errorf("items = %d, want %d", len(page.Items), tt.wantItems)
			}
			if (page.NextCursor != nil) != tt.wantCursor {
				t.Errorf("nextCursor presence = %v, want %v", page.NextCursor != nil, tt.wantCursor)
			}
		})
	}
}

func TestGetAdviceFeedHandlerRanksPage(t *testing.T) {
	posts := []models.Post{
		{ID: 3, AuthorID: 1, CreatedAt: time.Unix(1704067300, 0)},
		{ID: 2, AuthorID: 1, LikeCount: 500, ReplyCount: 100, CreatedAt: time.Unix(1704067300, 0)},
		{ID: 1, AuthorID: 1, CreatedAt: time.Unix(1704067300, 0)},
	}
	feed := feeds.NewFeed(&stubPrimary{posts: posts}, nil, nil, true, 0)
	s := NewServer(feed, &stubPrayers{}, "0", 1000)

	recorder := httptest.NewRecorder()
	s.getAdviceFeed(recorder, httptest.NewRequest(http.MethodGet, "/feed/advice", nil))

	var page feeds.Page
	if err := json.Unmarshal(recorder.Body.Bytes(), &page); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(page.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(page.Items))
	}
	if page.Items[0].ID != 2 {
		t.Errorf("most engaged post should rank first, got id %d", page.Items[0].ID)
	}
}

func TestGetPrayerRecommendationsHandler(t *testing.T) {
	prayers := &stubPrayers{
		pool: []models.PrayerRequest{
			{ID: 1, AuthorID: 7, Content: "praying for healing after surgery", PrayerCount: 1},
			{ID: 2, AuthorID: 42, Content: "own request must be excluded", PrayerCount: 1},
		},
		history: []models.PrayerRequest{
			{AuthorID: 42, Content: "my healing journey", CreatedAt: time.Now()},
		},
	}
	feed := feeds.NewFeed(&stubPrimary{}, nil, nil, true, 0)
	s := NewServer(feed, prayers, "0", 1000)

	recorder := httptest.NewRecorder()
	s.getPrayerRecommendations(recorder, httptest.NewRequest(http.MethodGet, "/prayers/recommendations?user=42", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}

	var body struct {
		Items []recommend.MatchResult `json:"items"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(body.Items) != 1 {
		t.Fatalf("got %d items, want the user's own request filtered out", len(body.Items))
	}
	if body.Items[0].Request.ID != 1 {
		t.Errorf("recommended id = %d, want 1", body.Items[0].Request.ID)
	}

	missing := httptest.NewRecorder()
	s.getPrayerRecommendations(missing, httptest.NewRequest(http.MethodGet, "/prayers/recommendations", nil))
	if missing.Code != http.StatusBadRequest {
		t.Errorf("missing user param: status = %d, want 400", missing.Code)
	}
}
