package logics

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fiich/fiich-server/internal/models"
)

// NotificationService writes and reads in-app notification rows. Creation is
// best effort from the callers' point of view: a failed notification never
// fails the operation that triggered it.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// NotifyUser creates a notification row for a registered user.
func (s *NotificationService) NotifyUser(ctx context.Context, userID, companyID uuid.UUID, notifType, message string) error {
	notif := models.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		CompanyID: companyID,
		Type:      notifType,
		Message:   message,
	}
	if err := s.db.WithContext(ctx).Create(&notif).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// NotifyEmail creates a notification for the user behind an email address,
// silently doing nothing when no account exists yet.
func (s *NotificationService) NotifyEmail(ctx context.Context, email string, companyID uuid.UUID, notifType, message string) error {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	return s.NotifyUser(ctx, user.ID, companyID, notifType, message)
}

func (s *NotificationService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	var notifs []models.Notification
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifs).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifs, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notifID uuid.UUID) error {
	result := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notifID, userID).
		Update("read", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("notification not found")
	}
	return nil
}
