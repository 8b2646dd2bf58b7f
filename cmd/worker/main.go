package main

import (
	"context"
	"os/signal"
	"syscall"

	"campusevents/internal/config"
	"campusevents/internal/logging"
	"campusevents/internal/mailer"
	"campusevents/internal/notify"
	"campusevents/internal/queue"
	"campusevents/internal/store"
)

// Worker consumes registration notices and mails confirmations.
func main() {
	cfg := config.Load()
	log := logging.New(cfg.Env, cfg.LogLevel).With().Str("service", "worker").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var q queue.Queue
	switch cfg.QueueBackend {
	case "redis":
		redisClient := store.NewRedis(cfg.RedisAddr)
		defer func() { _ = redisClient.Close() }()
		if !redisClient.Healthy(ctx) {
			log.Warn().Str("addr", cfg.RedisAddr).Msg("redis not reachable yet, consumer will retry")
		}
		q = queue.NewRedisQueue(redisClient.Client, cfg.QueueKey)
	case "rabbitmq":
		rq, err := queue.NewRabbitQueue(cfg.RabbitMQURL, cfg.RabbitMQQueue, log)
		if err != nil {
			log.Fatal().Err(err).Msg("rabbitmq connect failed")
		}
		defer rq.Close()
		q = rq
	default:
		log.Fatal().Str("backend", cfg.QueueBackend).Msg("the worker needs QUEUE_BACKEND=redis or rabbitmq; the memory queue is drained by the api process")
	}

	m := mailer.New(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}, log)
	if !m.Enabled() {
		log.Warn().Msg("SMTP_HOST not set, confirmations are logged only")
	}

	if err := notify.NewProcessor(m, log).Run(ctx, q); err != nil {
		log.Fatal().Err(err).Msg("worker failed")
	}
	log.Info().Msg("worker stopped")
}
