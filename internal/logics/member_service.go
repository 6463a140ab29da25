package logics

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fiich/fiich-server/internal/models"
)

var (
	ErrLastOwner     = errors.New("cannot remove or demote the company owner")
	ErrAlreadyMember = errors.New("user is already a member of this company")
)

// MemberService manages role bindings between users and companies.
type MemberService struct {
	db *gorm.DB
}

func NewMemberService(db *gorm.DB) *MemberService {
	return &MemberService{db: db}
}

func (s *MemberService) List(ctx context.Context, companyID uuid.UUID) ([]models.CompanyMember, error) {
	var members []models.CompanyMember
	if err := s.db.WithContext(ctx).
		Preload("User").
		Where("company_id = ?", companyID).
		Find(&members).Error; err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

func (s *MemberService) Get(ctx context.Context, companyID, userID uuid.UUID) (*models.CompanyMember, error) {
	var member models.CompanyMember
	if err := s.db.WithContext(ctx).
		First(&member, "company_id = ? AND user_id = ?", companyID, userID).Error; err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return &member, nil
}

// Add creates a role binding. Duplicate bindings are rejected.
func (s *MemberService) Add(ctx context.Context, companyID, userID, invitedBy uuid.UUID, role string) (*models.CompanyMember, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.CompanyMember{}).
		Where("company_id = ? AND user_id = ?", companyID, userID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if count > 0 {
		return nil, ErrAlreadyMember
	}

	member := models.CompanyMember{
		ID:        uuid.New(),
		CompanyID: companyID,
		UserID:    userID,
		Role:      role,
		InvitedBy: invitedBy,
	}
	if err := s.db.WithContext(ctx).Create(&member).Error; err != nil {
		return nil, fmt.Errorf("failed to create membership: %w", err)
	}
	return &member, nil
}

// UpdateRole changes a member's role. The owner binding is immutable.
func (s *MemberService) UpdateRole(ctx context.Context, companyID, userID uuid.UUID, role string) error {
	member, err := s.Get(ctx, companyID, userID)
	if err != nil {
		return err
	}
	if member.Role == models.RoleOwner {
		return ErrLastOwner
	}
	if err := s.db.WithContext(ctx).Model(member).Update("role", role).Error; err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	return nil
}

// Remove deletes a member binding. The owner cannot be removed.
func (s *MemberService) Remove(ctx context.Context, companyID, userID uuid.UUID) error {
	member, err := s.Get(ctx, companyID, userID)
	if err != nil {
		return err
	}
	if member.Role == models.RoleOwner {
		return ErrLastOwner
	}
	if err := s.db.WithContext(ctx).Delete(member).Error; err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}
