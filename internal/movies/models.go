package movies

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Movie is a cached copy of externally-sourced metadata, created lazily the
// first time a show references an unseen metadata-API movie id.
type Movie struct {
	ID               string     `json:"id" gorm:"primaryKey;size:32"` // metadata API id
	Title            string     `json:"title" gorm:"not null;size:255"`
	Overview         string     `json:"overview" gorm:"type:text"`
	PosterPath       string     `json:"poster_path" gorm:"size:500"`
	BackdropPath     string     `json:"backdrop_path" gorm:"size:500"`
	Genres           GenreList  `json:"genres" gorm:"type:jsonb"`
	Casts            CastList   `json:"casts" gorm:"type:jsonb"`
	ReleaseDate      string     `json:"release_date" gorm:"size:10"`
	OriginalLanguage string     `json:"original_language" gorm:"size:10"`
	Tagline          string     `json:"tagline" gorm:"size:500"`
	VoteAverage      float64    `json:"vote_average"`
	Runtime          int        `json:"runtime"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (Movie) TableName() string {
	return "movies"
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type CastMember struct {
	Name        string `json:"name"`
	ProfilePath string `json:"profile_path"`
}

// GenreList stores genres as a JSONB column.
type GenreList []Genre

func (g GenreList) Value() (driver.Value, error) {
	return json.Marshal(g)
}

func (g *GenreList) Scan(value interface{}) error {
	return scanJSON(value, g)
}

// CastList stores cast members as a JSONB column.
type CastList []CastMember

func (c CastList) Value() (driver.Value, error) {
	return json.Marshal(c)
}

func (c *CastList) Scan(value interface{}) error {
	return scanJSON(value, c)
}

func scanJSON(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", value)
	}
}
