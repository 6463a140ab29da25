package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Company is the tenant entity: one identity sheet (fiche) per company,
// owned by exactly one user.
type Company struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`

	Name  string `gorm:"type:varchar(255);not null" json:"name"`
	Siren string `gorm:"type:varchar(9)" json:"siren"`
	Siret string `gorm:"type:varchar(14)" json:"siret"`

	Address    string `gorm:"type:varchar(255)" json:"address"`
	PostalCode string `gorm:"type:varchar(10)" json:"postal_code"`
	City       string `gorm:"type:varchar(100)" json:"city"`
	Country    string `gorm:"type:varchar(100)" json:"country"`

	Email   string `gorm:"type:varchar(255)" json:"email"`
	Phone   string `gorm:"type:varchar(30)" json:"phone"`
	Website string `gorm:"type:varchar(255)" json:"website"`
	LogoURL string `gorm:"type:varchar(512)" json:"logo_url"`

	// RIB
	IBAN string `gorm:"type:varchar(34)" json:"iban"`
	BIC  string `gorm:"type:varchar(11)" json:"bic"`

	PaymentTerms string `gorm:"type:varchar(255)" json:"payment_terms"`
	Description  string `gorm:"type:text" json:"description"`

	Owner *User `gorm:"foreignKey:OwnerID;references:ID" json:"owner,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Company) TableName() string {
	return "companies"
}
