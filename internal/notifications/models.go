package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// NotificationType identifies the booking lifecycle event being announced.
type NotificationType string

const (
	NotificationTypeBookingCreated   NotificationType = "BOOKING_CREATED"
	NotificationTypePaymentConfirmed NotificationType = "PAYMENT_CONFIRMED"
	NotificationTypeBookingExpired   NotificationType = "BOOKING_EXPIRED"
)

// BookingNotification is the message published per booking lifecycle event.
// Consumed by the email workers.
type BookingNotification struct {
	ID         uuid.UUID        `json:"id"`
	Type       NotificationType `json:"type"`
	UserID     string           `json:"user_id"`
	BookingID  uuid.UUID        `json:"booking_id"`
	ShowID     uuid.UUID        `json:"show_id"`
	MovieTitle string           `json:"movie_title,omitempty"`
	Seats      []string         `json:"seats"`
	Amount     float64          `json:"amount"`
	CreatedAt  time.Time        `json:"created_at"`
}

func NewBookingNotification(notificationType NotificationType, userID string, bookingID, showID uuid.UUID, seats []string, amount float64) *BookingNotification {
	return &BookingNotification{
		ID:        uuid.New(),
		Type:      notificationType,
		UserID:    userID,
		BookingID: bookingID,
		ShowID:    showID,
		Seats:     seats,
		Amount:    amount,
		CreatedAt: time.Now(),
	}
}

func (n *BookingNotification) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

// PartitionKey keeps one user's notifications in order on a single
// partition.
func (n *BookingNotification) PartitionKey() string {
	return n.UserID
}
