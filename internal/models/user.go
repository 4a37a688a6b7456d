// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents a registered member of the Bookswap application.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"unique;not null" json:"username"`
	Email     string    `gorm:"unique;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Books     []Book    `gorm:"foreignKey:OwnerID" json:"books,omitempty"`
}

// PublicUser is the directory representation of a user, stripped of
// private fields.
type PublicUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Location string `json:"location"`
}

// Public returns the directory representation of the user.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Location: u.Location}
}
