package repository

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SnapshotNotifier broadcasts committed revisions to other connected clients
// and listens for theirs, covering the "remote change notification" side of
// the persistence boundary.
type SnapshotNotifier struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

// NewSnapshotNotifier creates a notifier on the given pub/sub channel.
func NewSnapshotNotifier(client *redis.Client, channel string, logger *zap.Logger) *SnapshotNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotNotifier{client: client, channel: channel, logger: logger}
}

// Publish announces a committed revision. Failures are logged, not
// propagated; the document itself is already saved.
func (n *SnapshotNotifier) Publish(ctx context.Context, revision string) {
	if err := n.client.Publish(ctx, n.channel, revision).Err(); err != nil {
		n.logger.Warn("failed to publish snapshot revision", zap.Error(err))
	}
}

// Listen blocks consuming change notifications until the context is
// cancelled, invoking onChange with each foreign revision. Run it on its own
// goroutine.
func (n *SnapshotNotifier) Listen(ctx context.Context, onChange func(revision string)) {
	sub := n.client.Subscribe(ctx, n.channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			onChange(msg.Payload)
		}
	}
}
