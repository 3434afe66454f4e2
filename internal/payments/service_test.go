package payments

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"quickshow/internal/bookings"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v79"
)

type fakeSessions struct {
	bookingID uuid.UUID
	err       error
	lookups   []string
}

func (f *fakeSessions) BookingIDForPaymentIntent(ctx context.Context, paymentIntentID string) (uuid.UUID, error) {
	f.lookups = append(f.lookups, paymentIntentID)
	if f.err != nil {
		return uuid.Nil, f.err
	}
	return f.bookingID, nil
}

type fakeConfirmer struct {
	confirmed []uuid.UUID
	err       error
}

func (f *fakeConfirmer) ConfirmPayment(ctx context.Context, bookingID uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.confirmed = append(f.confirmed, bookingID)
	return nil
}

func paymentIntentEvent(t *testing.T, eventType, intentID string) stripe.Event {
	t.Helper()
	raw, err := json.Marshal(map[string]string{"id": intentID})
	if err != nil {
		t.Fatal(err)
	}
	return stripe.Event{
		ID:   "evt_test",
		Type: stripe.EventType(eventType),
		Data: &stripe.EventData{Raw: raw},
	}
}

func TestHandleEventConfirmsBooking(t *testing.T) {
	bookingID := uuid.New()
	sessions := &fakeSessions{bookingID: bookingID}
	confirmer := &fakeConfirmer{}
	svc := NewService(sessions, confirmer)

	event := paymentIntentEvent(t, "payment_intent.succeeded", "pi_123")
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}

	if len(sessions.lookups) != 1 || sessions.lookups[0] != "pi_123" {
		t.Errorf("lookups = %v, want [pi_123]", sessions.lookups)
	}
	if len(confirmer.confirmed) != 1 || confirmer.confirmed[0] != bookingID {
		t.Errorf("confirmed = %v, want [%s]", confirmer.confirmed, bookingID)
	}
}

func TestHandleEventIgnoresOtherTypes(t *testing.T) {
	sessions := &fakeSessions{}
	confirmer := &fakeConfirmer{}
	svc := NewService(sessions, confirmer)

	event := paymentIntentEvent(t, "payment_intent.created", "pi_123")
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}

	if len(sessions.lookups) != 0 {
		t.Error("unhandled event types must not trigger lookups")
	}
	if len(confirmer.confirmed) != 0 {
		t.Error("unhandled event types must not confirm bookings")
	}
}

func TestHandleEventAcksUnknownSession(t *testing.T) {
	sessions := &fakeSessions{err: ErrSessionNotFound}
	confirmer := &fakeConfirmer{}
	svc := NewService(sessions, confirmer)

	event := paymentIntentEvent(t, "payment_intent.succeeded", "pi_unknown")
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("unknown session must be acknowledged, got %v", err)
	}
	if len(confirmer.confirmed) != 0 {
		t.Error("nothing to confirm for an unknown session")
	}
}

func TestHandleEventAcksReleasedBooking(t *testing.T) {
	sessions := &fakeSessions{bookingID: uuid.New()}
	confirmer := &fakeConfirmer{err: bookings.ErrBookingNotFound}
	svc := NewService(sessions, confirmer)

	event := paymentIntentEvent(t, "payment_intent.succeeded", "pi_late")
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("released booking must be acknowledged, got %v", err)
	}
}

func TestHandleEventSurfacesLookupFailure(t *testing.T) {
	sessions := &fakeSessions{err: errors.New("stripe unavailable")}
	svc := NewService(sessions, &fakeConfirmer{})

	event := paymentIntentEvent(t, "payment_intent.succeeded", "pi_123")
	if err := svc.HandleEvent(context.Background(), event); err == nil {
		t.Fatal("transient lookup failures must surface so the event is redelivered")
	}
}
