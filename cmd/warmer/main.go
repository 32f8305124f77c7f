// Cache warmer: walks the room catalogue and pre-populates the Redis read
// cache (room details + review lists) so the first page views after a deploy
// don't all fan out to the booking API.
package main

import (
	"context"
	"sync"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"stayfront/internal/adapters/bookingapi"
	"stayfront/internal/adapters/observability"
	redisad "stayfront/internal/adapters/redis"
	"stayfront/internal/app"
	"stayfront/internal/shared"
)

func main() {
	ctx := context.Background()
	_ = godotenv.Load()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)
	log.Info().
		Str("api", cfg.APIBase).
		Int("workers", cfg.Workers).
		Msg("warmer starting")

	client, err := bookingapi.New(cfg.APIBase, cfg.APIRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize booking API client")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	reviews := app.NewReviewService(client, cache, cfg.CacheTTL)
	rooms := app.NewRoomService(client, reviews, cache, cfg.CacheTTL)

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	warmed := 0
	for page := 1; ; page++ {
		list, err := rooms.List(ctx, "all", page)
		if err != nil {
			log.Warn().Int("page", page).Err(err).Msg("list rooms failed")
			break
		}
		if len(list) == 0 {
			break
		}

		for _, room := range list {
			// acquire before launching the goroutine; release inside it
			if err := sem.Acquire(ctx, 1); err != nil {
				log.Fatal().Err(err).Msg("semaphore acquire failed")
			}

			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				defer sem.Release(1)

				if _, err := rooms.Page(ctx, id); err != nil {
					log.Warn().Str("room", id).Err(err).Msg("warm failed")
					return
				}
				log.Debug().Str("room", id).Msg("warm ok")
			}(room.ID)
		}
		warmed += len(list)
	}

	wg.Wait()
	log.Info().Int("rooms", warmed).Msg("warmup completed")
}
