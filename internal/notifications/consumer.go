package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"
)

type Consumer interface {
	Start(ctx context.Context) error
	Stop() error
}

type ConsumerConfig struct {
	Brokers        []string
	GroupID        string
	Topics         []string
	SessionTimeout time.Duration
	Heartbeat      time.Duration
}

func DefaultConsumerConfig() *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:        []string{"localhost:9092"},
		GroupID:        "quickshow-notification-workers",
		Topics:         []string{"booking-notifications"},
		SessionTimeout: 30 * time.Second,
		Heartbeat:      3 * time.Second,
	}
}

// KafkaConsumer drains booking notifications and hands them to the sender.
type KafkaConsumer struct {
	consumerGroup sarama.ConsumerGroup
	config        *ConsumerConfig
	sender        Sender
	cancel        context.CancelFunc
}

// Sender delivers a notification to the user, typically by email.
type Sender interface {
	Send(ctx context.Context, notification *BookingNotification) error
}

func NewKafkaConsumer(config *ConsumerConfig, sender Sender) (Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = config.SessionTimeout
	saramaConfig.Consumer.Group.Heartbeat.Interval = config.Heartbeat
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = 1 * time.Second

	consumerGroup, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &KafkaConsumer{
		consumerGroup: consumerGroup,
		config:        config,
		sender:        sender,
	}, nil
}

func (c *KafkaConsumer) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)

	go func() {
		for err := range c.consumerGroup.Errors() {
			log.Printf("Notification consumer error: %v", err)
		}
	}()

	go func() {
		handler := &consumerGroupHandler{sender: c.sender}
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if err := c.consumerGroup.Consume(ctx, c.config.Topics, handler); err != nil {
					log.Printf("Error consuming notifications: %v", err)
					time.Sleep(time.Second)
				}
			}
		}
	}()

	log.Printf("Notification consumer started for topics: %v", c.config.Topics)
	return nil
}

func (c *KafkaConsumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	if err := c.consumerGroup.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	return nil
}

type consumerGroupHandler struct {
	sender Sender
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}

			var notification BookingNotification
			if err := json.Unmarshal(message.Value, &notification); err != nil {
				log.Printf("Skipping malformed notification at offset %d: %v", message.Offset, err)
				session.MarkMessage(message, "")
				continue
			}

			if err := h.sender.Send(session.Context(), &notification); err != nil {
				// Left unmarked so the group redelivers it.
				log.Printf("Error sending notification %s: %v", notification.ID, err)
				continue
			}
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

// LogSender writes notifications to the process log. Stands in for a real
// email integration in development.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, notification *BookingNotification) error {
	log.Printf("Notification %s for user %s: %s (booking %s, seats %v)",
		notification.Type, notification.UserID, notification.MovieTitle,
		notification.BookingID, notification.Seats)
	return nil
}
