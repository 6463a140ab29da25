package models

import (
	"time"

	"github.com/google/uuid"
)

// User mirrors the account record managed by the auth provider. The server
// never creates or mutates passwords; it only reads this table to attach
// companies, memberships and notifications to an identity.
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email    string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	FullName string    `gorm:"type:varchar(255)" json:"full_name"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
