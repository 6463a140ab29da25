package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Share permissions. Stored comma-joined in the permissions column.
const (
	PermViewCompany       = "view_company"
	PermViewDocuments     = "view_documents"
	PermDownloadDocuments = "download_documents"
)

// CompanyShare is a realized access grant: either email-scoped (from an
// accepted invitation) or a public link (empty email). The token is what the
// anonymous link holder presents.
type CompanyShare struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`

	Email       string `gorm:"type:varchar(255);index" json:"email"`
	Token       string `gorm:"type:varchar(64);uniqueIndex;not null" json:"token"`
	Permissions string `gorm:"type:varchar(255)" json:"permissions"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`

	CreatedBy uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`

	Company *Company `gorm:"foreignKey:CompanyID;references:ID" json:"company,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CompanyShare) TableName() string {
	return "company_shares"
}

// HasPermission reports whether the share grants the given permission.
func (s *CompanyShare) HasPermission(perm string) bool {
	for _, p := range strings.Split(s.Permissions, ",") {
		if strings.TrimSpace(p) == perm {
			return true
		}
	}
	return false
}

// JoinPermissions builds the stored permissions column value.
func JoinPermissions(perms ...string) string {
	return strings.Join(perms, ",")
}
