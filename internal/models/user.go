package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a user in the application. Accounts are created and managed
// by the identity provider; the hub only maintains the presence columns.
type User struct {
	gorm.Model
	FirstName string     `gorm:"not null" json:"first_name"`
	LastName  string     `gorm:"not null" json:"last_name"`
	Email     string     `gorm:"unique;not null" json:"email"`
	IsOnline  bool       `gorm:"default:false" json:"is_online"`
	LastSeen  *time.Time `json:"last_seen"`
}
