package models

import (
	"time"

	"github.com/google/uuid"
)

// Invitation statuses. A pending invitation past ExpiresAt is treated as
// expired regardless of its stored status.
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationDeclined = "declined"
	InvitationRevoked  = "revoked"
)

// Invitation is an email-scoped, token-bearing, time-limited offer to access
// one company. Accepting converts it into a CompanyShare (and a CompanyMember
// when a role was offered).
type Invitation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`

	Email   string `gorm:"type:varchar(255);not null;index" json:"email"`
	Role    string `gorm:"type:varchar(50)" json:"role"`
	Message string `gorm:"type:text" json:"message"`
	Token   string `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	Status  string `gorm:"type:varchar(20);default:'pending'" json:"status"`

	InvitedBy uuid.UUID `gorm:"type:uuid;not null" json:"invited_by"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`

	Company *Company `gorm:"foreignKey:CompanyID;references:ID" json:"company,omitempty"`
	Inviter *User    `gorm:"foreignKey:InvitedBy;references:ID" json:"inviter,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Invitation) TableName() string {
	return "invitations"
}

// Expired reports whether the invitation can no longer be accepted.
func (i *Invitation) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
