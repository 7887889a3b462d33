package realtime

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

const ChangesChannel = "healthconnect:appointments:changed"

// RedisNotifier carries change signals between API instances. Publish goes
// through redis; Run relays every received message to the local hub.
type RedisNotifier struct {
	rdb *redis.Client
	hub *Hub
	log zerolog.Logger
}

func NewRedisNotifier(rdb *redis.Client, hub *Hub, log zerolog.Logger) *RedisNotifier {
	return &RedisNotifier{rdb: rdb, hub: hub, log: log}
}

// Publish falls back to a local broadcast when redis is unreachable so this
// instance's subscribers still refresh.
func (n *RedisNotifier) Publish(ctx context.Context) error {
	if err := n.rdb.Publish(ctx, ChangesChannel, "changed").Err(); err != nil {
		n.hub.Broadcast()
		return err
	}
	return nil
}

// Run blocks until ctx is done.
func (n *RedisNotifier) Run(ctx context.Context) error {
	sub := n.rdb.Subscribe(ctx, ChangesChannel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-msgs:
			if !ok {
				return nil
			}
			n.hub.Broadcast()
		}
	}
}
