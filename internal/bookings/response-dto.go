package bookings

import "github.com/google/uuid"

// CreateBookingResponse returns the new booking id and the checkout link the
// client redirects to.
type CreateBookingResponse struct {
	BookingID  uuid.UUID `json:"bookingId"`
	PaymentURL string    `json:"url"`
}
