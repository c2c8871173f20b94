package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the account record. PasswordHash is empty for accounts created
// through the identity provider (no local password exists for them).
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string         `gorm:"size:150;not null;uniqueIndex" json:"username"`
	Email        string         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	FirstName    string         `gorm:"size:150" json:"first_name"`
	LastName     string         `gorm:"size:150" json:"last_name"`
	PhoneNumber  string         `gorm:"size:15" json:"phone_number"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	AuthProvider string         `gorm:"size:50;default:'local'" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// HasUsablePassword reports whether local credential login is possible.
func (u *User) HasUsablePassword() bool {
	return u.PasswordHash != ""
}
