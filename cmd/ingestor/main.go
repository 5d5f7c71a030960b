package main

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"flex_reviews/internal/adapters/hostaway"
	"flex_reviews/internal/adapters/observability"
	redisad "flex_reviews/internal/adapters/redis"
	"flex_reviews/internal/app"
	"flex_reviews/internal/domain"
	"flex_reviews/internal/shared"
	mysqlrepo "flex_reviews/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("base", cfg.HostawayBase).
		Strs("channels", cfg.Channels).
		Int("workers", cfg.Workers).
		Int("reviews", cfg.ReviewCount).
		Msg("ingestor starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	clients := make(map[string]domain.ChannelClient)
	for _, ch := range cfg.Channels {
		switch ch {
		case "hostaway":
			client, err := hostaway.New(cfg.HostawayBase, cfg.HostawayKey, 5)
			if err != nil {
				log.Fatal().Err(err).Msg("failed to initialize Hostaway client")
			}
			clients[ch] = client
		default:
			log.Warn().Str("channel", ch).Msg("no client implementation, skipping")
		}
	}

	ing := app.NewIngestionService(clients, repo, cache)
	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for ch := range clients {
		ch := ch

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, int64(1)); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(channel string) {
			defer wg.Done()
			defer sem.Release(int64(1))

			if err := ing.IngestChannel(ctx, channel, cfg.ReviewCount); err != nil {
				log.Warn().Str("channel", channel).Err(err).Msg("ingest failed")
				return
			}
			log.Info().Str("channel", channel).Msg("ingest ok")
		}(ch)
	}

	wg.Wait()
	log.Info().Msg("ingestion completed")
}
