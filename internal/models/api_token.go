package models

import (
	"time"

	"github.com/google/uuid"
)

// APIToken is the single long-lived opaque bearer credential for a user.
// The key is stored as issued so repeated logins return the same token;
// rotation is not implemented.
type APIToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Key       string    `gorm:"size:64;not null;uniqueIndex" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
}
