package shows

import (
	"time"

	"quickshow/internal/movies"

	"github.com/google/uuid"
)

// ShowTimeEntry is one screening slot in a movie's schedule.
type ShowTimeEntry struct {
	Time   time.Time `json:"time"`
	ShowID uuid.UUID `json:"showId"`
}

// MovieShowtimes groups a movie's upcoming screenings by calendar date.
type MovieShowtimes struct {
	Movie    *movies.Movie              `json:"movie"`
	DateTime map[string][]ShowTimeEntry `json:"dateTime"`
}
