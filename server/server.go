package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"faithfeed/feeds"
	"faithfeed/monitoring/middleware"
	"faithfeed/recommend"
	"faithfeed/storage/models"
	"faithfeed/utils"
)

// PrayerSource supplies the recommendation pool and the viewer's own
// history and profile.
type PrayerSource interface {
	GetOpenPrayerRequests(ctx context.Context) ([]models.PrayerRequest, error)
	GetUserPrayerHistory(ctx context.Context, userID int64) ([]models.PrayerRequest, error)
	GetPrayerProfile(ctx context.Context, userID int64) (models.PrayerProfile, error)
}

type Server struct {
	feed               *feeds.Feed
	prayers            PrayerSource
	port               string
	rateLimitPerMinute int
}

func NewServer(feed *feeds.Feed, prayers PrayerSource, port string, rateLimitPerMinute int) *Server {
	return &Server{
		feed:               feed,
		prayers:            prayers,
		port:               port,
		rateLimitPerMinute: rateLimitPerMinute,
	}
}

func (s *Server) Run() {
	mux := http.NewServeMux()
	mux.HandleFunc("/feed", s.getFeed)
	mux.HandleFunc("/feed/advice", s.getAdviceFeed)
	mux.HandleFunc("/prayers/recommendations", s.getPrayerRecommendations)
	mux.HandleFunc("/healthz", s.getHealthz)
	mux.Handle("/metrics", promhttp.Handler())

	handler := middleware.NewServerMiddleware(
		newRateLimitMiddleware(mux, s.rateLimitPerMinute),
	)

	srv := &http.Server{
		Addr:    ":" + s.port,
		Handler: handler,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Printf("error starting server: %s\n", err)
			os.Exit(1)
		}
	}()

	// Block until a shutdown signal, then drain in-flight requests.
	<-quit
	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Forced server shutdown: %v", err)
	}
}

func (s *Server) getFeed(w http.ResponseWriter, r *http.Request) {
	page, ok := s.assemblePage(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(utils.ToJson(page))
}

// getAdviceFeed serves the same assembled page reordered by hot score,
// so engaged recent advice surfaces ahead of strict id order.
func (s *Server) getAdviceFeed(w http.ResponseWriter, r *http.Request) {
	page, ok := s.assemblePage(w, r)
	if !ok {
		return
	}
	page.Items = feeds.RankByHotScore(page.Items)
	w.Header().Set("Content-Type", "application/json")
	w.Write(utils.ToJson(page))
}

func (s *Server) assemblePage(w http.ResponseWriter, r *http.Request) (feeds.Page, bool) {
	queryParams := r.URL.Query()

	viewerID := parseOptionalID(getQueryItem(queryParams, "viewer"))
	cursor := getQueryItem(queryParams, "cursor")

	// An unparsable limit silently falls back to the default; a bad
	// cursor is the one client error this endpoint surfaces.
	limit := utils.IntFromString(getQueryItem(queryParams, "limit"), feeds.DefaultLimit)

	page, err := s.feed.GetFeed(r.Context(), viewerID, cursor, limit)
	if err != nil {
		if errors.Is(err, feeds.ErrInvalidCursor) {
			sendError(w, http.StatusBadRequest, "invalid cursor param")
		} else {
			log.Errorf("Error assembling feed: %v", err)
			sendError(w, http.StatusInternalServerError, "internal error")
		}
		return feeds.Page{}, false
	}
	return page, true
}

func (s *Server) getPrayerRecommendations(w http.ResponseWriter, r *http.Request) {
	queryParams := r.URL.Query()

	userID := parseOptionalID(getQueryItem(queryParams, "user"))
	if userID == 0 {
		sendError(w, http.StatusBadRequest, "invalid user param")
		return
	}
	limit := utils.IntFromString(getQueryItem(queryParams, "limit"), recommend.DefaultLimit)

	ctx := r.Context()
	pool, err := s.prayers.GetOpenPrayerRequests(ctx)
	if err != nil {
		log.Errorf("Error retrieving prayer pool: %v", err)
		pool = make([]models.PrayerRequest, 0)
	}
	history, err := s.prayers.GetUserPrayerHistory(ctx, userID)
	if err != nil {
		log.Errorf("Error retrieving prayer history for user %d: %v", userID, err)
	}
	profile, err := s.prayers.GetPrayerProfile(ctx, userID)
	if err != nil {
		log.Errorf("Error retrieving prayer profile for user %d: %v", userID, err)
	}

	// The pool must not contain the user's own requests.
	candidates := make([]models.PrayerRequest, 0, len(pool))
	for _, request := range pool {
		if request.AuthorID != userID {
			candidates = append(candidates, request)
		}
	}

	userCtx := recommend.BuildUserContext(history, profile, time.Now())
	results := recommend.Recommend(userCtx, candidates, limit)

	w.Header().Set("Content-Type", "application/json")
	w.Write(utils.ToJson(map[string]any{"items": results}))
}

func (s *Server) getHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(utils.ToJson(map[string]string{"status": "ok"}))
}

func parseOptionalID(value string) int64 {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}
