package bookings

// CreateBookingRequest holds seats on a show for the authenticated user.
type CreateBookingRequest struct {
	ShowID string   `json:"showId" binding:"required,uuid"`
	Seats  []string `json:"seats" binding:"required,min=1,max=10,dive,required"`
}
