package notifications

import (
	"context"
	"log"

	"quickshow/internal/bookings"
	"quickshow/internal/shared/config"
)

// Service publishes booking lifecycle notifications and runs the consumer
// workers. Implements bookings.Notifier. With the broker disabled every
// publish is a no-op, so the booking path never depends on Kafka being up.
type Service struct {
	producer Producer
	consumer Consumer
}

func NewService(cfg config.KafkaConfig) *Service {
	if !cfg.Enabled {
		log.Println("Notification broker disabled, booking notifications will not be published")
		return &Service{}
	}

	producerCfg := DefaultProducerConfig()
	producerCfg.Brokers = cfg.Brokers
	producerCfg.Topic = cfg.Topic

	producer, err := NewKafkaProducer(producerCfg)
	if err != nil {
		log.Printf("Failed to create notification producer, continuing without notifications: %v", err)
		return &Service{}
	}

	consumerCfg := DefaultConsumerConfig()
	consumerCfg.Brokers = cfg.Brokers
	consumerCfg.GroupID = cfg.GroupID
	consumerCfg.Topics = []string{cfg.Topic}

	consumer, err := NewKafkaConsumer(consumerCfg, LogSender{})
	if err != nil {
		log.Printf("Failed to create notification consumer: %v", err)
		consumer = nil
	}

	return &Service{producer: producer, consumer: consumer}
}

func (s *Service) Start(ctx context.Context) {
	if s.consumer != nil {
		if err := s.consumer.Start(ctx); err != nil {
			log.Printf("Failed to start notification consumer: %v", err)
		}
	}
}

func (s *Service) Stop() {
	if s.consumer != nil {
		if err := s.consumer.Stop(); err != nil {
			log.Printf("Error stopping notification consumer: %v", err)
		}
	}
	if s.producer != nil {
		if err := s.producer.Close(); err != nil {
			log.Printf("Error closing notification producer: %v", err)
		}
	}
}

func (s *Service) BookingCreated(ctx context.Context, booking *bookings.Booking) {
	s.publish(ctx, NotificationTypeBookingCreated, booking)
}

func (s *Service) PaymentConfirmed(ctx context.Context, booking *bookings.Booking) {
	s.publish(ctx, NotificationTypePaymentConfirmed, booking)
}

func (s *Service) BookingExpired(ctx context.Context, booking *bookings.Booking) {
	s.publish(ctx, NotificationTypeBookingExpired, booking)
}

func (s *Service) publish(ctx context.Context, notificationType NotificationType, booking *bookings.Booking) {
	if s.producer == nil {
		return
	}

	notification := NewBookingNotification(notificationType, booking.UserID, booking.ID, booking.ShowID, booking.BookedSeats, booking.Amount)
	if booking.Show != nil && booking.Show.Movie != nil {
		notification.MovieTitle = booking.Show.Movie.Title
	}

	if err := s.producer.Publish(ctx, notification); err != nil {
		// Never fail the booking path over a notification.
		log.Printf("Failed to publish %s notification for booking %s: %v", notificationType, booking.ID, err)
	}
}
