package availability

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"stagepass/internal/shared/constants"
	"stagepass/pkg/logger"
)

// Feed delivers booked-seat updates for one event. Every message is a
// full-replacement snapshot of the booked identity set, never a delta.
type Feed interface {
	Publish(ctx context.Context, eventID string, bookedIDs []string) error
	Subscribe(ctx context.Context, eventID string) (<-chan []string, func(), error)
}

type redisFeed struct {
	client *redis.Client
}

// NewFeed builds a redis pub/sub backed Feed.
func NewFeed(client *redis.Client) Feed {
	return &redisFeed{client: client}
}

func (f *redisFeed) Publish(ctx context.Context, eventID string, bookedIDs []string) error {
	if bookedIDs == nil {
		bookedIDs = []string{}
	}
	payload, err := json.Marshal(bookedIDs)
	if err != nil {
		return fmt.Errorf("marshal booked set: %w", err)
	}
	if err := f.client.Publish(ctx, constants.BookingChannelKey(eventID), payload).Err(); err != nil {
		return fmt.Errorf("publish booked set: %w", err)
	}
	return nil
}

func (f *redisFeed) Subscribe(ctx context.Context, eventID string) (<-chan []string, func(), error) {
	sub := f.client.Subscribe(ctx, constants.BookingChannelKey(eventID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("subscribe booking feed: %w", err)
	}

	out := make(chan []string)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var booked []string
			if err := json.Unmarshal([]byte(msg.Payload), &booked); err != nil {
				logger.GetDefault().Warn("dropping malformed booking feed message",
					"event_id", eventID, "error", err)
				continue
			}
			select {
			case out <- booked:
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() { _ = sub.Close() }
	return out, cancel, nil
}
