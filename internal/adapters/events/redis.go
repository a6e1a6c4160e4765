package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/redis/go-redis/v9"
)

// StreamMaxLen caps the event stream kept in Redis
const StreamMaxLen = 10_000

// RedisPublisher publishes events on Redis pub/sub channels and appends them
// to a capped stream "<prefix>:events" for late consumers.
type RedisPublisher struct {
	client *redis.Client
	prefix string
}

// DialRedis connects to the Redis server at url
func DialRedis(ctx context.Context, url, prefix string, log *slog.Logger) (*RedisPublisher, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Debug("connected to redis", "addr", opt.Addr)
	return NewRedisPublisher(client, prefix), nil
}

// NewRedisPublisher wraps an existing client
func NewRedisPublisher(client *redis.Client, prefix string) *RedisPublisher {
	return &RedisPublisher{client: client, prefix: prefix}
}

// StreamKey is the key of the capped event stream
func (p *RedisPublisher) StreamKey() string {
	return p.prefix + ":events"
}

func (p *RedisPublisher) Publish(ctx context.Context, e domain.Event) error {
	data, err := Encode(e)
	if err != nil {
		return err
	}

	pipe := p.client.TxPipeline()
	pipe.Publish(ctx, e.Subject(p.prefix), data)
	pipe.XAdd(ctx, &redis.XAddArgs{
		Stream: p.StreamKey(),
		MaxLen: StreamMaxLen,
		Approx: true,
		Values: map[string]any{"type": string(e.Type), "data": string(data)},
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish %s: %w", e.Type, err)
	}
	return nil
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
