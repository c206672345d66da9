package docstore

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const changeChannel = "docstore:changes"

// RedisFeed propagates collection change notifications over a Redis pub/sub
// channel so every service instance re-delivers snapshots to its own
// subscribers. Messages carry the publisher's instance id; a feed ignores
// its own messages because the local hub was already notified.
type RedisFeed struct {
	client     *redis.Client
	logger     *zap.Logger
	instanceID string
	cancel     context.CancelFunc
}

// NewRedisFeed builds a feed over an existing redis client.
func NewRedisFeed(client *redis.Client, logger *zap.Logger) *RedisFeed {
	return &RedisFeed{
		client:     client,
		logger:     logger,
		instanceID: uuid.NewString(),
	}
}

// Broadcast publishes a change notification for the collection.
func (f *RedisFeed) Broadcast(ctx context.Context, collection string) error {
	return f.client.Publish(ctx, changeChannel, f.instanceID+"|"+collection).Err()
}

// Listen starts a goroutine invoking fn for every remote change.
func (f *RedisFeed) Listen(fn func(collection string)) {
	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel

	pubsub := f.client.Subscribe(ctx, changeChannel)
	go func() {
		defer pubsub.Close() //nolint:errcheck
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-pubsub.Channel():
				if !ok {
					return
				}
				origin, collection, found := strings.Cut(msg.Payload, "|")
				if !found {
					f.logger.Warn("malformed change message", zap.String("payload", msg.Payload))
					continue
				}
				if origin == f.instanceID {
					continue
				}
				fn(collection)
			}
		}
	}()
}

// Close stops the listener.
func (f *RedisFeed) Close() {
	if f.cancel != nil {
		f.cancel()
	}
}
