package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"stagepass/internal/shared/config"
	"stagepass/internal/users"
	"stagepass/pkg/logger"
)

// RecipientSource resolves the buyer's email address. Satisfied by the
// auth repository.
type RecipientSource interface {
	GetUserByID(ctx context.Context, id string) (*users.User, error)
}

// Consumer reads booking confirmations off the broker and mails them.
type Consumer struct {
	group      sarama.ConsumerGroup
	topics     []string
	sender     EmailSender
	recipients RecipientSource
	log        *logger.Logger
	cancel     context.CancelFunc
}

func NewConsumer(cfg *config.Config, sender EmailSender, recipients RecipientSource) (*Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = 30 * time.Second
	saramaConfig.Consumer.Group.Heartbeat.Interval = 3 * time.Second
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true

	group, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.Kafka.ConsumerGroup, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &Consumer{
		group:      group,
		topics:     []string{cfg.Kafka.BookingTopic},
		sender:     sender,
		recipients: recipients,
		log:        logger.GetDefault(),
	}, nil
}

// Start runs the consume loop until Stop is called. Errors are logged
// and the loop resumes; confirmations are best effort.
func (c *Consumer) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	go func() {
		for err := range c.group.Errors() {
			c.log.Warn("consumer group error", "error", err)
		}
	}()

	go func() {
		handler := &confirmationHandler{consumer: c}
		for {
			if err := c.group.Consume(ctx, c.topics, handler); err != nil {
				c.log.Warn("consume error", "error", err)
				time.Sleep(time.Second)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()
}

func (c *Consumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	return c.group.Close()
}

type confirmationHandler struct {
	consumer *Consumer
}

func (h *confirmationHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *confirmationHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *confirmationHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}
			if err := h.process(session.Context(), message); err != nil {
				h.consumer.log.Warn("failed to process booking confirmation",
					"topic", message.Topic, "offset", message.Offset, "error", err)
			}
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *confirmationHandler) process(ctx context.Context, message *sarama.ConsumerMessage) error {
	var confirmation BookingConfirmation
	if err := json.Unmarshal(message.Value, &confirmation); err != nil {
		return fmt.Errorf("malformed confirmation message: %w", err)
	}

	user, err := h.consumer.recipients.GetUserByID(ctx, confirmation.UserID.String())
	if err != nil {
		return fmt.Errorf("failed to resolve recipient: %w", err)
	}

	return h.consumer.sender.SendConfirmation(ctx, user.Email, &confirmation)
}
