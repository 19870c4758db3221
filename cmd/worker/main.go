package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jokebox/jokebox/pkg/cache"
	"github.com/jokebox/jokebox/pkg/config"
	"github.com/jokebox/jokebox/pkg/events"
	"github.com/jokebox/jokebox/pkg/logger"
	jokeEvents "github.com/jokebox/jokebox/services/joke/domain/events"
)

var (
	jokesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jokebox_jokes_created_total",
		Help: "Total number of jokes submitted.",
	})
	jokeRatings = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jokebox_joke_ratings_total",
		Help: "Total number of ratings submitted, by star value.",
	}, []string{"stars"})
)

// The worker tails the jokes event stream and keeps Prometheus counters
// for submissions and ratings. It shares nothing with the API process
// except the database-backed event bus.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close() //nolint:errcheck

	databaseURL, err := config.ResolveDatabaseURL(ctx, cfg, redisClient)
	if err != nil {
		log.Error("failed to resolve database connection string", "error", err)
		os.Exit(1) //nolint:gocritic // intentional: startup failure
	}

	eventBus, err := events.NewEventBus(databaseURL, cfg.ServiceName, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	createdErrs, err := eventBus.Subscribe(ctx, jokeEvents.TopicJokeCreated, handleJokeCreated(log))
	if err != nil {
		log.Error("failed to subscribe", "topic", jokeEvents.TopicJokeCreated, "error", err)
		os.Exit(1) //nolint:gocritic
	}

	ratedErrs, err := eventBus.Subscribe(ctx, jokeEvents.TopicJokeRated, handleJokeRated(log))
	if err != nil {
		log.Error("failed to subscribe", "topic", jokeEvents.TopicJokeRated, "error", err)
		os.Exit(1) //nolint:gocritic
	}

	go drainErrors(ctx, log, jokeEvents.TopicJokeCreated, createdErrs)
	go drainErrors(ctx, log, jokeEvents.TopicJokeRated, ratedErrs)

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{
		Addr:              cfg.WorkerMetricsAddr,
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("worker metrics listening", "addr", metricsSrv.Addr)
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server error", "error", err)
		}
	}()

	log.Info("worker started", "env", cfg.Environment)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("metrics server forced shutdown", "error", err)
	}
	log.Info("worker stopped")
}

func handleJokeCreated(log logger.Logger) func(context.Context, *message.Message) error {
	return func(_ context.Context, msg *message.Message) error {
		var ev jokeEvents.JokeCreatedEvent
		if err := json.Unmarshal(msg.Payload, &ev); err != nil {
			// Malformed payloads are not retryable.
			log.Error("dropping malformed joke.created event", "message_id", msg.UUID, "error", err)
			return nil
		}
		jokesCreated.Inc()
		log.Info("joke created", "joke_id", ev.JokeID, "author", ev.Author)
		return nil
	}
}

func handleJokeRated(log logger.Logger) func(context.Context, *message.Message) error {
	return func(_ context.Context, msg *message.Message) error {
		var ev jokeEvents.JokeRatedEvent
		if err := json.Unmarshal(msg.Payload, &ev); err != nil {
			log.Error("dropping malformed joke.rated event", "message_id", msg.UUID, "error", err)
			return nil
		}
		jokeRatings.WithLabelValues(strconv.Itoa(ev.Stars)).Inc()
		log.Info("joke rated", "joke_id", ev.JokeID, "stars", ev.Stars)
		return nil
	}
}

func drainErrors(ctx context.Context, log logger.Logger, topic string, errs <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-errs:
			if !ok {
				return
			}
			log.Error("event handler failed after retries", "topic", topic, "error", err)
		}
	}
}
