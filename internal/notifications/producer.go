package notifications

import (
	"context"
	"fmt"
	"time"

	"stagedoor/internal/shared/config"
	"stagedoor/pkg/logger"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// RetryProducer queues failed confirmation deliveries on Kafka for the
// out-of-band retry workers. It implements bookings.RetryPublisher.
type RetryProducer struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

// NewRetryProducer creates the Kafka producer for confirmation retries
func NewRetryProducer(cfg config.KafkaConfig, log *logger.Logger) (*RetryProducer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Timeout = 10 * time.Second
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1

	// Hash on booking ID so retries for one booking stay ordered
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &RetryProducer{
		producer: producer,
		topic:    cfg.ConfirmationTopic,
		log:      log,
	}, nil
}

func (p *RetryProducer) PublishConfirmationRetry(ctx context.Context, bookingID uuid.UUID, email, sms bool) error {
	retry := &ConfirmationRetry{
		BookingID:  bookingID,
		RetryEmail: email,
		RetrySMS:   sms,
		Attempt:    1,
		QueuedAt:   time.Now(),
	}
	return p.publish(retry)
}

func (p *RetryProducer) publish(retry *ConfirmationRetry) error {
	payload, err := retry.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal confirmation retry: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(retry.BookingID.String()),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("booking_id"), Value: []byte(retry.BookingID.String())},
			{Key: []byte("attempt"), Value: []byte(fmt.Sprintf("%d", retry.Attempt))},
		},
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to queue confirmation retry: %w", err)
	}

	p.log.Info("confirmation retry queued",
		"booking_id", retry.BookingID.String(),
		"attempt", retry.Attempt,
		"partition", partition,
		"offset", offset,
	)
	return nil
}

// Close closes the Kafka producer
func (p *RetryProducer) Close() error {
	if p.producer != nil {
		if err := p.producer.Close(); err != nil {
			return fmt.Errorf("failed to close Kafka producer: %w", err)
		}
	}
	return nil
}
