package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"stagepass/internal/bookings"
	"stagepass/internal/shared/config"
	"stagepass/pkg/logger"
)

// Producer publishes booking confirmations to the broker. It satisfies
// the booking service's NotificationProducer.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

func NewProducer(cfg *config.Config) (*Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Timeout = 10 * time.Second
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Kafka.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &Producer{
		producer: producer,
		topic:    cfg.Kafka.BookingTopic,
		log:      logger.GetDefault(),
	}, nil
}

func (p *Producer) BookingConfirmed(ctx context.Context, booking *bookings.Booking) error {
	confirmation := &BookingConfirmation{
		BookingID:   booking.ID,
		UserID:      booking.UserID,
		EventID:     booking.EventID,
		EventName:   booking.EventName,
		EventDate:   booking.EventDate,
		TotalAmount: booking.TotalAmount,
		CommittedAt: booking.CreatedAt,
	}
	for _, a := range booking.Attendees {
		owed := a.UnitPrice
		if a.MemberVerified {
			owed = 0
		}
		confirmation.Attendees = append(confirmation.Attendees, ConfirmedAttendee{
			Name:           a.Name,
			SeatID:         a.SeatID,
			SeatLabel:      a.SeatLabel,
			AmountOwed:     owed,
			MemberVerified: a.MemberVerified,
		})
	}

	payload, err := confirmation.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal booking confirmation: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(confirmation.PartitionKey()),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("booking_id"), Value: []byte(booking.ID.String())},
			{Key: []byte("event_id"), Value: []byte(booking.EventID.String())},
		},
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to publish booking confirmation: %w", err)
	}

	p.log.Debug("booking confirmation published",
		"topic", p.topic, "partition", partition, "offset", offset,
		"booking_id", booking.ID.String())
	return nil
}

func (p *Producer) Close() error {
	return p.producer.Close()
}
