package logics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fiich/fiich-server/internal/models"
)

const (
	shareTokenLength = 32
	shareCacheTTL    = 5 * time.Minute
	shareCachePrefix = "share:token:"
)

// ShareService manages CompanyShare grants and the public link flow. Token
// lookups on the unauthenticated share endpoint go through a Redis
// read-through cache; revocation invalidates it so a deactivated share denies
// with no grace period.
type ShareService struct {
	db     *gorm.DB
	cache  *redis.Client
	logger *zap.Logger
}

func NewShareService(db *gorm.DB, cache *redis.Client, logger *zap.Logger) *ShareService {
	return &ShareService{db: db, cache: cache, logger: logger}
}

// NewShareToken generates an opaque URL-safe share token.
func NewShareToken() (string, error) {
	return gonanoid.New(shareTokenLength)
}

// GenerateLink returns the public-link share for a company, creating one when
// none is active yet. Repeated calls hand back the same token.
func (s *ShareService) GenerateLink(ctx context.Context, companyID, createdBy uuid.UUID) (*models.CompanyShare, error) {
	var share models.CompanyShare
	err := s.db.WithContext(ctx).
		First(&share, "company_id = ? AND email = '' AND is_active = ?", companyID, true).Error
	if err == nil {
		return &share, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up share: %w", err)
	}

	token, err := NewShareToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate share token: %w", err)
	}
	share = models.CompanyShare{
		ID:        uuid.New(),
		CompanyID: companyID,
		Token:     token,
		Permissions: models.JoinPermissions(
			models.PermViewCompany,
			models.PermViewDocuments,
		),
		IsActive:  true,
		CreatedBy: createdBy,
	}
	if err := s.db.WithContext(ctx).Create(&share).Error; err != nil {
		return nil, fmt.Errorf("failed to create share: %w", err)
	}
	return &share, nil
}

// CreateFromInvitation materializes the email-scoped grant for an accepted
// invitation, including download rights. Runs inside the acceptance
// transaction.
func (s *ShareService) CreateFromInvitation(ctx context.Context, tx *gorm.DB, inv *models.Invitation) (*models.CompanyShare, error) {
	token, err := NewShareToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate share token: %w", err)
	}
	share := models.CompanyShare{
		ID:        uuid.New(),
		CompanyID: inv.CompanyID,
		Email:     inv.Email,
		Token:     token,
		Permissions: models.JoinPermissions(
			models.PermViewCompany,
			models.PermViewDocuments,
			models.PermDownloadDocuments,
		),
		IsActive:  true,
		CreatedBy: inv.InvitedBy,
	}
	if err := tx.WithContext(ctx).Create(&share).Error; err != nil {
		return nil, fmt.Errorf("failed to create share: %w", err)
	}
	return &share, nil
}

// GetByToken resolves a share token, cache first.
func (s *ShareService) GetByToken(ctx context.Context, token string) (*models.CompanyShare, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, shareCachePrefix+token).Result()
		if err == nil {
			var share models.CompanyShare
			if err := json.Unmarshal([]byte(cached), &share); err == nil {
				return &share, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("share cache read failed", zap.Error(err))
		}
	}

	var share models.CompanyShare
	if err := s.db.WithContext(ctx).First(&share, "token = ?", token).Error; err != nil {
		return nil, fmt.Errorf("failed to get share: %w", err)
	}

	if s.cache != nil {
		if payload, err := json.Marshal(&share); err == nil {
			if err := s.cache.Set(ctx, shareCachePrefix+token, payload, shareCacheTTL).Err(); err != nil {
				s.logger.Warn("share cache write failed", zap.Error(err))
			}
		}
	}
	return &share, nil
}

// GetByID loads a share by primary key.
func (s *ShareService) GetByID(ctx context.Context, shareID uuid.UUID) (*models.CompanyShare, error) {
	var share models.CompanyShare
	if err := s.db.WithContext(ctx).First(&share, "id = ?", shareID).Error; err != nil {
		return nil, fmt.Errorf("failed to get share: %w", err)
	}
	return &share, nil
}

// ListForCompany returns all shares of a company, active or not.
func (s *ShareService) ListForCompany(ctx context.Context, companyID uuid.UUID) ([]models.CompanyShare, error) {
	var shares []models.CompanyShare
	if err := s.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Find(&shares).Error; err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}
	return shares, nil
}

// Revoke deactivates a share and drops it from the cache immediately.
func (s *ShareService) Revoke(ctx context.Context, shareID uuid.UUID) error {
	var share models.CompanyShare
	if err := s.db.WithContext(ctx).First(&share, "id = ?", shareID).Error; err != nil {
		return fmt.Errorf("failed to get share: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&share).Update("is_active", false).Error; err != nil {
		return fmt.Errorf("failed to revoke share: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.Del(ctx, shareCachePrefix+share.Token).Err(); err != nil {
			s.logger.Warn("share cache invalidation failed", zap.Error(err))
		}
	}
	return nil
}
