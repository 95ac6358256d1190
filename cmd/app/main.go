package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"travel-service/configs"
	"travel-service/internal/guide"
	"travel-service/internal/idem"
	"travel-service/internal/kafka"
	"travel-service/internal/live"
	"travel-service/internal/media"
	"travel-service/internal/notification"
	"travel-service/internal/post"
	"travel-service/internal/profile"
	"travel-service/internal/ratelimit"
	"travel-service/internal/shared/httpx"
	"travel-service/internal/shared/jwt"
	"travel-service/internal/shared/logging"
	"travel-service/internal/shared/mongox"
	"travel-service/internal/shared/otelx"
	"travel-service/internal/shared/redisx"
	"travel-service/internal/storage/s3"
	"travel-service/internal/user"
	"travel-service/internal/video"
)

func main() {
	cfg, err := configs.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("load config")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	httpx.ExposeInternal(cfg.IsDevelopment())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otelx.Init(ctx, otelx.Config{
		Endpoint:    cfg.OTEL.Endpoint,
		ServiceName: cfg.OTEL.ServiceName,
		Env:         cfg.Env,
		SampleRatio: cfg.OTEL.SampleRatio,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("init tracing")
	}

	// MongoDB
	mongoClient, db, err := mongox.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("connect mongo")
	}
	for name, ensure := range map[string]func(context.Context, *mongo.Database) error{
		"users":         user.EnsureIndexes,
		"profiles":      profile.EnsureIndexes,
		"posts":         post.EnsureIndexes,
		"guides":        guide.EnsureIndexes,
		"videos":        video.EnsureIndexes,
		"notifications": notification.EnsureIndexes,
	} {
		if err := ensure(ctx, db); err != nil {
			logging.Fatal().Err(err).Str("collection", name).Msg("ensure indexes")
		}
	}

	// Redis (optional)
	rdb, err := redisx.Open(ctx, cfg.Redis.Addr)
	if err != nil {
		logging.Fatal().Err(err).Msg("connect redis")
	}
	var (
		guard   idem.Store
		counter ratelimit.Counter
	)
	if rdb != nil {
		guard = idem.New(rdb)
		counter = ratelimit.NewRedisCounter(rdb)
	} else {
		logging.Warn().Msg("redis not configured: rate limiting and notification guard disabled")
	}

	// Kafka (optional)
	events := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)

	// Object storage (optional)
	var store media.Storage
	if cfg.S3.Endpoint != "" {
		st, err := s3.New(s3.Config{
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			UseSSL:    cfg.S3.UseSSL,
			Bucket:    cfg.S3.Bucket,
			PublicURL: cfg.S3.PublicURL,
		})
		if err != nil {
			logging.Fatal().Err(err).Msg("init object storage")
		}
		if err := st.EnsureBucket(ctx); err != nil {
			logging.Fatal().Err(err).Str("bucket", cfg.S3.Bucket).Msg("ensure bucket")
		}
		store = st
	} else {
		logging.Warn().Msg("object storage not configured: data URI uploads disabled")
	}

	hub := live.NewHub()
	tokens := jwt.NewSigner(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Wire repos & services
	profileRepo := profile.NewRepository(db)
	postRepo := post.NewRepository(db)
	guideRepo := guide.NewRepository(db)
	videoRepo := video.NewRepository(db)

	userSvc := user.NewService(user.NewRepository(db), tokens, profileRepo, events)
	mediaSvc := media.NewService(store)
	notifSvc := notification.NewService(notification.NewRepository(db), userSvc, postRepo, hub, guard)

	profileSvc := profile.NewService(profileRepo, userSvc, postRepo, guideRepo, videoRepo)

	a := &api{
		tokens:        tokens,
		limiter:       ratelimit.New(counter, cfg.RateLimit.Interactions, cfg.RateLimit.Window),
		live:          live.NewHandler(hub, tokens),
		users:         user.NewHandler(userSvc),
		profiles:      profile.NewHandler(profileSvc),
		posts:         post.NewHandler(post.NewService(postRepo, userSvc, notifSvc, mediaSvc, events)),
		guides:        guide.NewHandler(guide.NewService(guideRepo, userSvc, events)),
		videos:        video.NewHandler(video.NewService(videoRepo, userSvc, mediaSvc, events)),
		notifications: notification.NewHandler(notifSvc),
		media:         media.NewHandler(mediaSvc),
		ping:          func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
	}

	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           otelhttp.NewHandler(a.router(cfg), "http.server"),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		logging.Info().Str("addr", cfg.Server.Port).Str("env", cfg.Env).Msg("travel-service listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("http shutdown")
	}
	hub.Close()
	if err := events.Close(); err != nil {
		logging.Error().Err(err).Msg("close kafka writer")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("disconnect mongo")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("flush traces")
	}
}
