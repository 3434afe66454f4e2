package bookings

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"quickshow/internal/shows"

	"github.com/google/uuid"
)

// Booking holds seats on a show for one user. Seats are held from creation;
// IsPaid flips once the payment webhook confirms, otherwise the release
// worker frees the seats after the hold window.
type Booking struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	UserID      string    `json:"user_id" gorm:"index;not null;size:64"`
	ShowID      uuid.UUID `json:"show_id" gorm:"type:uuid;index;not null"`
	BookedSeats SeatList  `json:"booked_seats" gorm:"type:jsonb;not null"`
	Amount      float64   `json:"amount" gorm:"not null;check:amount >= 0"`
	IsPaid      bool      `json:"is_paid" gorm:"not null;default:false"`
	IsBooked    bool      `json:"is_booked" gorm:"not null;default:false"`
	PaymentLink string    `json:"payment_link,omitempty"`

	Show *shows.Show `json:"show,omitempty" gorm:"foreignKey:ShowID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Booking) TableName() string {
	return "bookings"
}

// SeatList is the ordered seat labels a booking holds, stored as jsonb.
type SeatList []string

func (s SeatList) Value() (driver.Value, error) {
	if s == nil {
		s = SeatList{}
	}
	return json.Marshal(s)
}

func (s *SeatList) Scan(value interface{}) error {
	if value == nil {
		*s = SeatList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", value)
	}
}
