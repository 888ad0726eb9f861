package main

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"faithfeed/config"
	"faithfeed/feeds"
	"faithfeed/ingest"
	"faithfeed/server"
	"faithfeed/storage"
	"faithfeed/storage/cache"
	"faithfeed/storage/db"
	"faithfeed/storage/snapshot"
	"faithfeed/tasks"
	"faithfeed/utils"
)

func runBackgroundTasks(
	cfg config.Config,
	source *db.Source,
	contentSnapshot *snapshot.Snapshot,
	blocksCache *cache.BlocksCache,
) {
	// Snapshot warm-up and periodic refresh from the primary source
	go utils.Recoverer(math.MaxInt, 1, func() {
		tasks.RefreshSnapshot(source, contentSnapshot, cfg.FallbackWindow)
	})

	// Content event consumer
	if cfg.IngestURL != "" {
		ingestURL, err := url.Parse(cfg.IngestURL)
		if err != nil {
			log.Errorf("Invalid ingest URL %q: %v", cfg.IngestURL, err)
			return
		}
		go utils.Recoverer(math.MaxInt, 2, func() {
			for {
				subscription := ingest.NewSubscription(
					"faithfeed",
					*ingestURL,
					source,
					contentSnapshot,
					blocksCache,
				)
				if subscription == nil {
					time.Sleep(30 * time.Second)
					continue
				}
				subscription.Run()
			}
		})
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, reading from environment")
	}
	cfg := config.Load()

	logLevel, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = log.WarnLevel
	}
	log.SetLevel(logLevel)

	ctx := context.Background()
	connectionPool, err := pgxpool.New(
		ctx,
		fmt.Sprintf(
			"user=%s password=%s dbname=%s sslmode=disable host=%s port=%s",
			cfg.DBUsername,
			cfg.DBPassword,
			cfg.DBName,
			cfg.DBHost,
			cfg.DBPort,
		),
	)
	if err != nil {
		panic(err)
	}
	source := db.New(connectionPool)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: "", // no password set
		DB:       0,  // use default DB
	})
	blocksCache := cache.NewBlocksCache(
		redisClient,
		time.Duration(cfg.BlocksCacheMinutes)*time.Minute,
	)

	contentSnapshot := snapshot.New(cfg.FallbackWindow)
	blockDirectory := storage.NewBlockDirectory(source, blocksCache)

	feed := feeds.NewFeed(
		source,
		contentSnapshot,
		blockDirectory,
		cfg.PrimaryEnabled,
		cfg.FallbackWindow,
	)

	s := server.NewServer(feed, source, cfg.Port, cfg.RateLimitPerMinute)

	runBackgroundTasks(cfg, source, contentSnapshot, blocksCache)

	s.Run()
}
