package main

import (
	"net/http"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"stayfront/internal/adapters/bookingapi"
	server "stayfront/internal/adapters/http_server"
	"stayfront/internal/adapters/observability"
	redisad "stayfront/internal/adapters/redis"
	"stayfront/internal/app"
	"stayfront/internal/shared"
)

func main() {
	_ = godotenv.Load()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	client, err := bookingapi.New(cfg.APIBase, cfg.APIRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize booking API client")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	reviews := app.NewReviewService(client, cache, cfg.CacheTTL)
	rooms := app.NewRoomService(client, reviews, cache, cfg.CacheTTL)
	bookings := app.NewBookingService(client, client)

	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Bookings: bookings,
		Reviews:  reviews,
		Rooms:    rooms,
		API:      client,
	})

	log.Info().Str("addr", cfg.HTTPAddr).Str("api", cfg.APIBase).Msg("stayfront listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
