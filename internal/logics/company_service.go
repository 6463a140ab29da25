package logics

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fiich/fiich-server/internal/models"
)

// CompanyService manages company identity sheets.
type CompanyService struct {
	db *gorm.DB
}

func NewCompanyService(db *gorm.DB) *CompanyService {
	return &CompanyService{db: db}
}

// Create inserts the company and its owner membership in one transaction.
func (s *CompanyService) Create(ctx context.Context, company *models.Company) error {
	if company.ID == uuid.Nil {
		company.ID = uuid.New()
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(company).Error; err != nil {
			return fmt.Errorf("failed to create company: %w", err)
		}
		owner := models.CompanyMember{
			ID:        uuid.New(),
			CompanyID: company.ID,
			UserID:    company.OwnerID,
			Role:      models.RoleOwner,
		}
		if err := tx.Create(&owner).Error; err != nil {
			return fmt.Errorf("failed to create owner membership: %w", err)
		}
		return nil
	})
}

func (s *CompanyService) Get(ctx context.Context, companyID uuid.UUID) (*models.Company, error) {
	var company models.Company
	if err := s.db.WithContext(ctx).First(&company, "id = ?", companyID).Error; err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return &company, nil
}

// ListForUser returns companies the user owns or is a member of.
func (s *CompanyService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Company, error) {
	var companies []models.Company
	err := s.db.WithContext(ctx).
		Distinct("companies.*").
		Joins("LEFT JOIN company_members ON company_members.company_id = companies.id AND company_members.deleted_at IS NULL").
		Where("companies.owner_id = ? OR company_members.user_id = ?", userID, userID).
		Find(&companies).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, nil
}

// Update saves the mutable sheet fields.
func (s *CompanyService) Update(ctx context.Context, company *models.Company) error {
	if err := s.db.WithContext(ctx).Save(company).Error; err != nil {
		return fmt.Errorf("failed to update company: %w", err)
	}
	return nil
}

// Delete soft-deletes the company. Only reachable by the owner; documents and
// shares stay behind for the reconcile command and audits.
func (s *CompanyService) Delete(ctx context.Context, companyID uuid.UUID) error {
	if err := s.db.WithContext(ctx).Delete(&models.Company{}, "id = ?", companyID).Error; err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}
	return nil
}
