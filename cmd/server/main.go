package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/arashkm/vidhub/internal/auth"
	"github.com/arashkm/vidhub/internal/config"
	"github.com/arashkm/vidhub/internal/database"
	"github.com/arashkm/vidhub/internal/handler"
	"github.com/arashkm/vidhub/internal/middleware"
	"github.com/arashkm/vidhub/internal/queue"
	"github.com/arashkm/vidhub/internal/repository"
	"github.com/arashkm/vidhub/internal/router"
	queue_publisher "github.com/arashkm/vidhub/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	users := repository.NewUserRepo(db)
	videos := repository.NewVideoRepo(db)
	subs := repository.NewSubscriptionRepo(db)

	issuer := auth.Issuer{
		AccessSecret:  []byte(cfg.AccessSecret),
		RefreshSecret: []byte(cfg.RefreshSecret),
		AccessTTL:     cfg.AccessTTL(),
		RefreshTTL:    cfg.RefreshTTL(),
	}
	sessions := auth.NewSessionManager(users, issuer)

	uploader := config.NewUploader(cfg)
	if uploader == nil {
		log.Println("media storage disabled: no S3 bucket configured")
	}

	var events handler.EventPublisher
	if cfg.AMQPURL != "" {
		events = queue_publisher.New(cfg.AMQPURL)
		queue.StartActivityConsumer(cfg.AMQPURL)
	} else {
		log.Println("events disabled: no RabbitMQ URL configured")
	}

	rdb := config.NewRedisClient(cfg)
	if rdb == nil {
		log.Println("redis unavailable: rate limiting and response cache disabled")
	}

	// storage.Uploader is a *T; passing a typed nil through the MediaStore
	// interface would dodge the handlers' nil checks.
	var media handler.MediaStore
	if uploader != nil {
		media = uploader
	}

	h := router.Handlers{
		Auth:          handler.NewAuthHandler(cfg, sessions, users, media, events),
		Users:         handler.NewUserHandler(cfg, users, subs, videos, media),
		Videos:        handler.NewVideoHandler(videos, users, media, events),
		Subscriptions: handler.NewSubscriptionHandler(subs, users),
	}

	e := echo.New()
	gate := middleware.RequireAuth(issuer, users)
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	router.Register(e, h, gate, limiter, cache)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
