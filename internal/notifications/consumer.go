package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"stagedoor/internal/bookings"
	"stagedoor/internal/shared/apperrors"
	"stagedoor/internal/shared/config"
	"stagedoor/pkg/logger"

	"github.com/IBM/sarama"
)

// maxRetryAttempts bounds how many times a confirmation is redelivered
// before it is abandoned to the logs.
const maxRetryAttempts = 5

// RetryConsumer drains the confirmation retry topic and redelivers the
// failed channels out of band.
type RetryConsumer struct {
	consumerGroup sarama.ConsumerGroup
	topics        []string
	numWorkers    int
	dispatcher    *Dispatcher
	repo          bookings.Repository
	producer      *RetryProducer
	log           *logger.Logger
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}

// NewRetryConsumer creates the Kafka consumer group for confirmation retries
func NewRetryConsumer(cfg config.KafkaConfig, dispatcher *Dispatcher, repo bookings.Repository, producer *RetryProducer, log *logger.Logger) (*RetryConsumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = 30 * time.Second
	saramaConfig.Consumer.Group.Heartbeat.Interval = 3 * time.Second
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = 1 * time.Second

	consumerGroup, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.ConsumerGroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &RetryConsumer{
		consumerGroup: consumerGroup,
		topics:        []string{cfg.ConfirmationTopic},
		numWorkers:    cfg.NumWorkers,
		dispatcher:    dispatcher,
		repo:          repo,
		producer:      producer,
		log:           log,
	}, nil
}

// Start launches the consumer workers. They run until Stop is called or the
// parent context is cancelled.
func (c *RetryConsumer) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)

	go c.drainErrors()

	for i := 0; i < c.numWorkers; i++ {
		c.wg.Add(1)
		go func(workerID int) {
			defer c.wg.Done()
			c.runWorker(ctx, workerID)
		}(i)
	}

	c.log.Info("confirmation retry workers started", "workers", c.numWorkers, "topics", c.topics)
}

func (c *RetryConsumer) runWorker(ctx context.Context, workerID int) {
	handler := &retryHandler{consumer: c, workerID: workerID}
	for {
		select {
		case <-ctx.Done():
			return
		default:
			if err := c.consumerGroup.Consume(ctx, c.topics, handler); err != nil {
				if errors.Is(err, sarama.ErrClosedConsumerGroup) {
					return
				}
				c.log.WithError(err).Error("consumer worker error", "worker", workerID)
				time.Sleep(time.Second)
			}
		}
	}
}

func (c *RetryConsumer) drainErrors() {
	for err := range c.consumerGroup.Errors() {
		c.log.WithError(err).Error("consumer group error")
	}
}

// Stop shuts the workers down and closes the consumer group
func (c *RetryConsumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	if err := c.consumerGroup.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	return nil
}

type retryHandler struct {
	consumer *RetryConsumer
	workerID int
}

func (h *retryHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *retryHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *retryHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}
			if err := h.processMessage(session.Context(), message); err != nil {
				h.consumer.log.WithError(err).Error("failed to process confirmation retry", "worker", h.workerID)
			}
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *retryHandler) processMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	var retry ConfirmationRetry
	if err := json.Unmarshal(message.Value, &retry); err != nil {
		return fmt.Errorf("failed to unmarshal confirmation retry: %w", err)
	}

	c := h.consumer

	booking, err := c.repo.GetByID(ctx, retry.BookingID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.log.Warn("retry references unknown booking", "booking_id", retry.BookingID.String())
			return nil
		}
		return err
	}

	// The booking may have moved on while the retry sat in the queue
	if booking.ConfirmationSent || booking.IsRefunded() {
		return nil
	}

	msg, err := NewConfirmationMessage(booking, c.dispatcher.publicBaseURL)
	if err != nil {
		return err
	}

	emailOK := !retry.RetryEmail
	smsOK := !retry.RetrySMS

	if retry.RetryEmail {
		emailOK = c.dispatcher.sendEmail(ctx, booking, msg)
	}
	if retry.RetrySMS {
		smsOK = c.dispatcher.sendSMS(ctx, booking, msg)
	}

	if emailOK && smsOK {
		if err := c.repo.MarkConfirmationSent(ctx, booking.ID); err != nil {
			return err
		}
		c.log.Info("confirmation retry delivered",
			"booking_id", booking.ID.String(),
			"attempt", retry.Attempt,
		)
		return nil
	}

	if retry.Attempt >= maxRetryAttempts {
		c.log.Error("confirmation abandoned after max retries",
			"booking_id", booking.ID.String(),
			"attempts", retry.Attempt,
			"operational_alert", true,
		)
		return nil
	}

	return c.producer.publish(&ConfirmationRetry{
		BookingID:  retry.BookingID,
		RetryEmail: retry.RetryEmail && !emailOK,
		RetrySMS:   retry.RetrySMS && !smsOK,
		Attempt:    retry.Attempt + 1,
		QueuedAt:   time.Now(),
	})
}
