package database

import (
	"quickshow/internal/bookings"
	"quickshow/internal/movies"
	"quickshow/internal/shows"
	"quickshow/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&movies.Movie{},
		&shows.Show{},
		&bookings.Booking{},
	)
}
