package shows

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"quickshow/internal/movies"

	"github.com/google/uuid"
)

// Show is a scheduled screening of a movie at a date-time and price, with a
// per-show occupancy map from seat label to the booking that holds it.
type Show struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	MovieID       string    `json:"movie_id" gorm:"index;not null;size:32"`
	ShowDateTime  time.Time `json:"show_date_time" gorm:"index;not null"`
	ShowPrice     float64   `json:"show_price" gorm:"not null;check:show_price >= 0"`
	OccupiedSeats SeatMap   `json:"occupied_seats" gorm:"type:jsonb"`

	Movie *movies.Movie `json:"movie,omitempty" gorm:"foreignKey:MovieID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Show) TableName() string {
	return "shows"
}

// SeatMap maps seat label to the holding booking's id. A label is present
// exactly while the seat is held or confirmed; absence means free.
type SeatMap map[string]uuid.UUID

// Taken returns the subset of labels already present in the map.
func (m SeatMap) Taken(labels []string) []string {
	var taken []string
	for _, label := range labels {
		if _, ok := m[label]; ok {
			taken = append(taken, label)
		}
	}
	return taken
}

// Assign writes every label into the map keyed to the booking.
func (m SeatMap) Assign(labels []string, bookingID uuid.UUID) {
	for _, label := range labels {
		m[label] = bookingID
	}
}

// Release removes every label from the map.
func (m SeatMap) Release(labels []string) {
	for _, label := range labels {
		delete(m, label)
	}
}

// Labels returns the occupied seat labels.
func (m SeatMap) Labels() []string {
	labels := make([]string, 0, len(m))
	for label := range m {
		labels = append(labels, label)
	}
	return labels
}

func (m SeatMap) Value() (driver.Value, error) {
	if m == nil {
		m = SeatMap{}
	}
	return json.Marshal(m)
}

func (m *SeatMap) Scan(value interface{}) error {
	if value == nil {
		*m = SeatMap{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", value)
	}
}
