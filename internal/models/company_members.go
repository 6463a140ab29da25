package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Member roles, from strongest to weakest.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
	RoleViewer = "viewer"
)

// CompanyMember binds a registered user to a company with a role. This is the
// in-app collaborator mechanism, distinct from the email-based CompanyShare.
type CompanyMember struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_company_user" json:"company_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_company_user" json:"user_id"`
	Role      string    `gorm:"type:varchar(50);default:'member'" json:"role"`
	InvitedBy uuid.UUID `gorm:"type:uuid" json:"invited_by"`

	Company *Company `gorm:"foreignKey:CompanyID;references:ID" json:"company,omitempty"`
	User    *User    `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (CompanyMember) TableName() string {
	return "company_members"
}

// CanView reports whether the role may read the company sheet and documents.
// Every role can.
func (m *CompanyMember) CanView() bool {
	switch m.Role {
	case RoleOwner, RoleAdmin, RoleMember, RoleViewer:
		return true
	}
	return false
}

// CanDownload reports whether the role may download document contents.
// Viewers see metadata only.
func (m *CompanyMember) CanDownload() bool {
	switch m.Role {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	}
	return false
}

// CanManage reports whether the role may invite, revoke and edit the company.
func (m *CompanyMember) CanManage() bool {
	return m.Role == RoleOwner || m.Role == RoleAdmin
}
