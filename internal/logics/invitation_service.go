package logics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fiich/fiich-server/internal/models"
)

const (
	invitationTTL         = 7 * 24 * time.Hour
	invitationTokenLength = 32
)

var (
	ErrInvitationExpired     = errors.New("invitation has expired")
	ErrInvitationNotPending  = errors.New("invitation is no longer pending")
	ErrInvitationEmailNoSend = errors.New("invitation created but email delivery failed")
)

// InvitationMailer delivers invitation emails. utils.EmailService is the
// production implementation.
type InvitationMailer interface {
	SendInvitationEmail(to, companyName, inviterName, message, inviteURL string) error
}

// InvitationService manages the email invitation lifecycle: create, accept
// (conversion into a CompanyShare and optionally a CompanyMember), decline,
// revoke.
type InvitationService struct {
	db           *gorm.DB
	mailer       InvitationMailer
	shares       *ShareService
	members      *MemberService
	notification *NotificationService
	logger       *zap.Logger
	baseURL      string
}

func NewInvitationService(db *gorm.DB, mailer InvitationMailer, shares *ShareService, members *MemberService, notification *NotificationService, logger *zap.Logger, baseURL string) *InvitationService {
	return &InvitationService{
		db:           db,
		mailer:       mailer,
		shares:       shares,
		members:      members,
		notification: notification,
		logger:       logger,
		baseURL:      baseURL,
	}
}

// CreateInput carries one invitation request. Role is empty for plain sheet
// shares and a member role for collaborator invites.
type CreateInput struct {
	CompanyID uuid.UUID
	Email     string
	Role      string
	Message   string
	InvitedBy uuid.UUID
}

// Create inserts the invitation, sends the email and writes a notification
// for the invitee when they already have an account. A failed email leaves
// the invitation in place (the operator can resend) and is reported with
// ErrInvitationEmailNoSend.
func (s *InvitationService) Create(ctx context.Context, in CreateInput) (*models.Invitation, error) {
	var company models.Company
	if err := s.db.WithContext(ctx).First(&company, "id = ?", in.CompanyID).Error; err != nil {
		return nil, fmt.Errorf("failed to load company: %w", err)
	}
	var inviter models.User
	if err := s.db.WithContext(ctx).First(&inviter, "id = ?", in.InvitedBy).Error; err != nil {
		return nil, fmt.Errorf("failed to load inviter: %w", err)
	}

	token, err := gonanoid.New(invitationTokenLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate invitation token: %w", err)
	}

	inv := models.Invitation{
		ID:        uuid.New(),
		CompanyID: in.CompanyID,
		Email:     in.Email,
		Role:      in.Role,
		Message:   in.Message,
		Token:     token,
		Status:    models.InvitationPending,
		InvitedBy: in.InvitedBy,
		ExpiresAt: time.Now().Add(invitationTTL),
	}
	if err := s.db.WithContext(ctx).Create(&inv).Error; err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	if err := s.notification.NotifyEmail(ctx, in.Email, in.CompanyID, models.NotifInvitationReceived,
		fmt.Sprintf("%s vous invite à consulter la fiche de %s", inviter.FullName, company.Name)); err != nil {
		s.logger.Warn("invitation notification failed", zap.Error(err))
	}

	inviteURL := fmt.Sprintf("%s/invitations/%s", s.baseURL, token)
	if err := s.mailer.SendInvitationEmail(in.Email, company.Name, inviter.FullName, in.Message, inviteURL); err != nil {
		s.logger.Error("invitation email delivery failed",
			zap.String("email", in.Email),
			zap.Error(err),
		)
		return &inv, fmt.Errorf("%w: %v", ErrInvitationEmailNoSend, err)
	}

	return &inv, nil
}

// GetByToken loads an invitation by its token.
func (s *InvitationService) GetByToken(ctx context.Context, token string) (*models.Invitation, error) {
	var inv models.Invitation
	if err := s.db.WithContext(ctx).First(&inv, "token = ?", token).Error; err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	return &inv, nil
}

// GetByID loads an invitation into dst.
func (s *InvitationService) GetByID(ctx context.Context, id uuid.UUID, dst *models.Invitation) error {
	if err := s.db.WithContext(ctx).First(dst, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to get invitation: %w", err)
	}
	return nil
}

// Accept converts a pending, unexpired invitation into a CompanyShare, plus a
// CompanyMember binding when a role was offered. Expired or already-settled
// invitations are rejected with no grace period.
func (s *InvitationService) Accept(ctx context.Context, token string, userID uuid.UUID) (*models.CompanyShare, error) {
	inv, err := s.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if inv.Status != models.InvitationPending {
		return nil, ErrInvitationNotPending
	}
	if inv.Expired(time.Now()) {
		return nil, ErrInvitationExpired
	}

	var share *models.CompanyShare
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		share, err = s.shares.CreateFromInvitation(ctx, tx, inv)
		if err != nil {
			return err
		}
		if inv.Role != "" {
			member := models.CompanyMember{
				ID:        uuid.New(),
				CompanyID: inv.CompanyID,
				UserID:    userID,
				Role:      inv.Role,
				InvitedBy: inv.InvitedBy,
			}
			if err := tx.Create(&member).Error; err != nil {
				return fmt.Errorf("failed to create membership: %w", err)
			}
		}
		if err := tx.Model(inv).Update("status", models.InvitationAccepted).Error; err != nil {
			return fmt.Errorf("failed to update invitation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.notification.NotifyUser(ctx, inv.InvitedBy, inv.CompanyID, models.NotifInvitationAccepted,
		fmt.Sprintf("%s a accepté votre invitation", inv.Email)); err != nil {
		s.logger.Warn("acceptance notification failed", zap.Error(err))
	}

	return share, nil
}

// Decline marks a pending invitation declined.
func (s *InvitationService) Decline(ctx context.Context, token string) error {
	inv, err := s.GetByToken(ctx, token)
	if err != nil {
		return err
	}
	if inv.Status != models.InvitationPending {
		return ErrInvitationNotPending
	}
	if err := s.db.WithContext(ctx).Model(inv).Update("status", models.InvitationDeclined).Error; err != nil {
		return fmt.Errorf("failed to decline invitation: %w", err)
	}

	if err := s.notification.NotifyUser(ctx, inv.InvitedBy, inv.CompanyID, models.NotifInvitationDeclined,
		fmt.Sprintf("%s a décliné votre invitation", inv.Email)); err != nil {
		s.logger.Warn("decline notification failed", zap.Error(err))
	}
	return nil
}

// Revoke withdraws a pending invitation.
func (s *InvitationService) Revoke(ctx context.Context, invitationID uuid.UUID) error {
	result := s.db.WithContext(ctx).Model(&models.Invitation{}).
		Where("id = ? AND status = ?", invitationID, models.InvitationPending).
		Update("status", models.InvitationRevoked)
	if result.Error != nil {
		return fmt.Errorf("failed to revoke invitation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrInvitationNotPending
	}
	return nil
}

// ListForCompany returns the invitations of one company, newest first.
func (s *InvitationService) ListForCompany(ctx context.Context, companyID uuid.UUID) ([]models.Invitation, error) {
	var invs []models.Invitation
	if err := s.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&invs).Error; err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	return invs, nil
}
