package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"campusevents/internal/api"
	"campusevents/internal/auth"
	"campusevents/internal/campus"
	"campusevents/internal/cloudinary"
	"campusevents/internal/config"
	"campusevents/internal/httpmiddleware"
	"campusevents/internal/logging"
	"campusevents/internal/mailer"
	"campusevents/internal/notify"
	"campusevents/internal/queue"
	"campusevents/internal/store"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.Env, cfg.LogLevel)

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

func runHTTP(cfg config.App, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	checks := map[string]api.HealthCheck{}

	var st campus.Store
	switch cfg.StoreBackend {
	case "memory":
		log.Warn().Msg("using in-memory store, data is lost on restart")
		st = campus.NewMemoryStore()
	default:
		m, err := store.NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return fmt.Errorf("mongo: %w", err)
		}
		defer func() { _ = m.Close(context.Background()) }()
		ms, err := campus.NewMongoStore(ctx, m.DB)
		if err != nil {
			return fmt.Errorf("mongo indexes: %w", err)
		}
		st = ms
		log.Info().Str("database", cfg.MongoDatabase).Msg("mongo connected")
	}

	var redisClient *store.Redis
	needRedis := cfg.QueueBackend == "redis" || cfg.RateLimitBackend == "redis"
	if needRedis {
		redisClient = store.NewRedis(cfg.RedisAddr)
		defer func() { _ = redisClient.Close() }()
		checks["redis"] = redisClient.Healthy
	}

	var q queue.Queue
	switch cfg.QueueBackend {
	case "redis":
		q = queue.NewRedisQueue(redisClient.Client, cfg.QueueKey)
	case "rabbitmq":
		rq, err := queue.NewRabbitQueue(cfg.RabbitMQURL, cfg.RabbitMQQueue, log)
		if err != nil {
			return fmt.Errorf("rabbitmq: %w", err)
		}
		defer rq.Close()
		q = rq
	default:
		mem := queue.NewInMemory(64)
		q = mem
		// Nothing outside this process can read an in-memory queue.
		m := mailer.New(mailerConfig(cfg), log)
		go func() {
			if err := notify.NewProcessor(m, log).Run(ctx, mem); err != nil {
				log.Error().Err(err).Msg("notice processor stopped")
			}
		}()
	}

	svc := campus.NewService(st, log, q)
	seed(ctx, svc, cfg, log)

	var limiter httpmiddleware.Limiter
	if cfg.RateLimitPerMin > 0 {
		if cfg.RateLimitBackend == "redis" {
			limiter = httpmiddleware.NewRedisWindow(redisClient.Client, cfg.RateLimitPerMin)
		} else {
			limiter = httpmiddleware.NewSimpleTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin)
		}
	}

	var uploader api.Uploader
	if cfg.CloudinaryEnabled() {
		uploader = cloudinary.New(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
		log.Info().Str("cloud", cfg.CloudinaryCloudName).Msg("cloudinary configured")
	} else {
		log.Info().Msg("cloudinary not configured, poster uploads disabled")
	}

	if !cfg.EnforceRoles {
		log.Warn().Msg("role enforcement is off, routes trust the caller")
	}

	r := api.NewRouter(api.Options{
		Service: svc,
		Logger:  log,
		Guard: auth.Guard{
			SigningKey: cfg.JWTSigningKey,
			Issuer:     cfg.JWTIssuer,
			Enforce:    cfg.EnforceRoles,
		},
		TokenTTL:  cfg.AccessTTL,
		Limiter:   limiter,
		Uploader:  uploader,
		Checks:    checks,
		StaticDir: cfg.StaticDir,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced shutdown")
	}
	log.Info().Msg("server exited")
	return nil
}

// seed creates the default admin and project metadata on first start.
func seed(ctx context.Context, svc *campus.Service, cfg config.App, log zerolog.Logger) {
	if _, err := svc.SeedAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Error().Err(err).Msg("seed admin")
	}
	if _, err := svc.SeedProjectMeta(ctx); err != nil {
		log.Error().Err(err).Msg("seed project metadata")
	}
}

func mailerConfig(cfg config.App) mailer.Config {
	return mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}
}
