package users

import "time"

// User mirrors the identity provider's user record. The primary key is the
// provider-issued id, so lifecycle events can be applied idempotently.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:64"`
	Name      string    `json:"name" gorm:"not null;size:255"`
	Email     string    `json:"email" gorm:"index;not null;size:255"`
	Image     string    `json:"image" gorm:"size:500"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
