package realtime

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const boardChannelPrefix = "board:"

var errSubscriptionClosed = errors.New("board channel subscription closed")

// RedisRelay shares board broadcasts across replicas through Redis pub/sub.
type RedisRelay struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisRelay(client *redis.Client, logger *zap.Logger) *RedisRelay {
	return &RedisRelay{client: client, logger: logger}
}

func BoardChannel(boardID string) string {
	return boardChannelPrefix + boardID
}

func (r *RedisRelay) Publish(ctx context.Context, boardID string, message []byte) error {
	if err := r.client.Publish(ctx, BoardChannel(boardID), message).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", BoardChannel(boardID), err)
	}
	return nil
}

// Run subscribes to every board channel, calls ready once the subscription is
// confirmed and hands messages to deliver until ctx ends or the channel closes.
func (r *RedisRelay) Run(ctx context.Context, ready func(), deliver func(boardID string, message []byte)) error {
	pubsub := r.client.PSubscribe(ctx, boardChannelPrefix+"*")
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to board channels: %w", err)
	}
	r.logger.Info("Subscribed to board channels", zap.String("pattern", boardChannelPrefix+"*"))
	ready()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return errSubscriptionClosed
			}
			deliver(strings.TrimPrefix(msg.Channel, boardChannelPrefix), []byte(msg.Payload))
		}
	}
}
