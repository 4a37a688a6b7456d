// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Book represents a book listed for trading. Ownership is a mutable
// foreign key: accepting a trade reassigns OwnerID.
type Book struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OwnerID     uint      `gorm:"not null;index" json:"owner_id"`
	Owner       User      `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Book) TableName() string {
	return "books"
}

// BookListing is a book joined with its current owner's public identity,
// as returned by the catalog and proposal-candidate endpoints.
type BookListing struct {
	ID          uint      `json:"id"`
	OwnerID     uint      `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Username    string    `json:"username"`
	Location    string    `json:"location,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
