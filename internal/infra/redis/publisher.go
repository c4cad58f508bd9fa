package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/aliskhannn/techquest/internal/domain/entities"
)

const publishTimeout = 2 * time.Second

type Config struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

// Publisher broadcasts engine events on a Redis channel as JSON envelopes.
type Publisher struct {
	rdb     *goredis.Client
	channel string
	logger  *zap.Logger
}

// NewPublisher connects to Redis and verifies the connection.
func NewPublisher(ctx context.Context, cfg Config, logger *zap.Logger) (*Publisher, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis address is required")
	}
	if cfg.Channel == "" {
		return nil, errors.New("redis channel is required")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Publisher{
		rdb:     rdb,
		channel: cfg.Channel,
		logger:  logger.With(zap.String("channel", cfg.Channel)),
	}, nil
}

// Notify publishes the event. Failures are logged and dropped.
func (p *Publisher) Notify(ctx context.Context, event entities.Event) {
	payload, err := entities.MarshalEvent(event)
	if err != nil {
		p.logger.Error("failed to encode event", zap.String("kind", string(event.Kind())), zap.Error(err))
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := p.rdb.Publish(pubCtx, p.channel, payload).Err(); err != nil {
		p.logger.Warn("failed to publish event",
			zap.String("kind", string(event.Kind())),
			zap.Int64("user_id", event.User()),
			zap.Error(err),
		)
	}
}

func (p *Publisher) Close() error {
	return p.rdb.Close()
}
