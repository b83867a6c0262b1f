package models

import "gorm.io/gorm"

// User is the account that owns the shopping list. A single admin user is
// seeded from config on first run.
type User struct {
	gorm.Model
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"` // bcrypt hash, never serialised
}
