package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"stagepass/internal/shared/constants"
)

// ChangePublisher announces event create/update/delete so listening
// clients can refresh their event lists.
type ChangePublisher interface {
	PublishEventChange(ctx context.Context, action, eventID string) error
}

type redisChangePublisher struct {
	client *redis.Client
}

func NewChangePublisher(client *redis.Client) ChangePublisher {
	return &redisChangePublisher{client: client}
}

type changeMessage struct {
	Action  string    `json:"action"`
	EventID string    `json:"event_id"`
	At      time.Time `json:"at"`
}

func (p *redisChangePublisher) PublishEventChange(ctx context.Context, action, eventID string) error {
	payload, err := json.Marshal(changeMessage{Action: action, EventID: eventID, At: time.Now().UTC()})
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, constants.EventChannelKey(), payload).Err()
}
