package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification types.
const (
	NotifInvitationReceived = "invitation_received"
	NotifInvitationAccepted = "invitation_accepted"
	NotifInvitationDeclined = "invitation_declined"
)

type Notification struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	Type      string    `gorm:"type:varchar(50);not null" json:"type"`
	CompanyID uuid.UUID `gorm:"type:uuid" json:"company_id"`
	Message   string    `gorm:"type:text" json:"message"`
	Read      bool      `gorm:"default:false" json:"read"`

	User    *User    `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	Company *Company `gorm:"foreignKey:CompanyID;references:ID" json:"company,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
