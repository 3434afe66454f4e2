package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"quickshow/internal/bookings"
	"quickshow/pkg/logger"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v79"
)

// BookingConfirmer marks a booking paid. Satisfied by the bookings service.
type BookingConfirmer interface {
	ConfirmPayment(ctx context.Context, bookingID uuid.UUID) error
}

type Service interface {
	// HandleEvent processes a verified webhook event. Event types the
	// backend does not act on are acknowledged without effect.
	HandleEvent(ctx context.Context, event stripe.Event) error
}

type service struct {
	sessions  SessionLookup
	confirmer BookingConfirmer
	logger    *logger.Logger
}

func NewService(sessions SessionLookup, confirmer BookingConfirmer) Service {
	return &service{
		sessions:  sessions,
		confirmer: confirmer,
		logger:    logger.GetDefault(),
	}
}

func (s *service) HandleEvent(ctx context.Context, event stripe.Event) error {
	switch event.Type {
	case "payment_intent.succeeded":
		return s.handlePaymentSucceeded(ctx, event)
	default:
		s.logger.Debug("ignoring payment event", "type", string(event.Type))
		return nil
	}
}

func (s *service) handlePaymentSucceeded(ctx context.Context, event stripe.Event) error {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return fmt.Errorf("failed to decode payment intent: %w", err)
	}

	bookingID, err := s.sessions.BookingIDForPaymentIntent(ctx, intent.ID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			// Payment for something this backend never sold. Acknowledge
			// so the processor stops retrying.
			s.logger.Warn("payment intent without checkout session", "payment_intent", intent.ID)
			return nil
		}
		return err
	}

	if err := s.confirmer.ConfirmPayment(ctx, bookingID); err != nil {
		if errors.Is(err, bookings.ErrBookingNotFound) {
			// The hold lapsed and the release worker already freed the
			// seats before the payment landed. Nothing left to confirm.
			s.logger.Warn("payment confirmed for released booking", "booking_id", bookingID.String())
			return nil
		}
		return fmt.Errorf("failed to confirm booking %s: %w", bookingID, err)
	}

	return nil
}
