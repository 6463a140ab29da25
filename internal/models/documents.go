package models

import (
	"time"

	"github.com/google/uuid"
)

// Document categories used to group files on a company sheet.
const (
	CategoryKbis      = "kbis"
	CategoryRib       = "rib"
	CategoryInsurance = "assurance"
	CategoryDocuments = "documents"
)

// Document is the metadata row for one stored file. FilePath is relative to
// the fixed documents/ storage root; every row is expected to have a backing
// object at exactly storage.ObjectKey(FilePath).
type Document struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`

	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	FilePath    string `gorm:"type:varchar(512);not null;uniqueIndex" json:"file_path"`
	FileSize    int64  `json:"file_size"`
	ContentType string `gorm:"type:varchar(255)" json:"content_type"`
	Category    string `gorm:"type:varchar(50);default:'documents'" json:"category"`
	IsPublic    bool   `gorm:"default:false" json:"is_public"`

	UploadedBy uuid.UUID `gorm:"type:uuid" json:"uploaded_by"`

	Company *Company `gorm:"foreignKey:CompanyID;references:ID" json:"company,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Document) TableName() string {
	return "documents"
}
