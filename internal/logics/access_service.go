package logics

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fiich/fiich-server/internal/models"
)

// Action is a requested operation on a document or company sheet.
type Action string

const (
	ActionView     Action = "view"
	ActionDownload Action = "download"
	ActionManage   Action = "manage"
)

// Identity is the requesting party: an authenticated user, an anonymous
// bearer of a share token, or both.
type Identity struct {
	UserID     uuid.UUID
	ShareToken string
}

// Anonymous reports whether the identity carries no authenticated user.
func (id Identity) Anonymous() bool {
	return id.UserID == uuid.Nil
}

// Decision is an allow/deny outcome with the reason that produced it, so
// access checks stay auditable instead of collapsing into a bare boolean.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow(reason string) Decision { return Decision{Allowed: true, Reason: reason} }
func deny(reason string) Decision  { return Decision{Allowed: false, Reason: reason} }

// AccessService resolves whether an identity may perform an action on a
// company or one of its documents. Resolution order: owner, then member role,
// then share token; deny by default.
type AccessService struct {
	db *gorm.DB
}

func NewAccessService(db *gorm.DB) *AccessService {
	return &AccessService{db: db}
}

// ResolveDocument decides the action on a single document.
func (s *AccessService) ResolveDocument(ctx context.Context, documentID uuid.UUID, id Identity, action Action) (Decision, error) {
	var doc models.Document
	if err := s.db.WithContext(ctx).First(&doc, "id = ?", documentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return deny("document not found"), nil
		}
		return deny(""), fmt.Errorf("failed to load document: %w", err)
	}
	return s.resolve(ctx, doc.CompanyID, &doc, id, action)
}

// ResolveCompany decides the action on the company sheet itself.
func (s *AccessService) ResolveCompany(ctx context.Context, companyID uuid.UUID, id Identity, action Action) (Decision, error) {
	return s.resolve(ctx, companyID, nil, id, action)
}

func (s *AccessService) resolve(ctx context.Context, companyID uuid.UUID, doc *models.Document, id Identity, action Action) (Decision, error) {
	var company models.Company
	if err := s.db.WithContext(ctx).First(&company, "id = ?", companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return deny("company not found"), nil
		}
		return deny(""), fmt.Errorf("failed to load company: %w", err)
	}

	if !id.Anonymous() {
		if company.OwnerID == id.UserID {
			return allow("owner"), nil
		}

		var member models.CompanyMember
		err := s.db.WithContext(ctx).
			First(&member, "company_id = ? AND user_id = ?", companyID, id.UserID).Error
		switch {
		case err == nil:
			if memberAllows(&member, action) {
				return allow("member role=" + member.Role), nil
			}
			// A role too weak for the action does not stop a share token from
			// granting it below.
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return deny(""), fmt.Errorf("failed to load membership: %w", err)
		}
	}

	if id.ShareToken != "" {
		var share models.CompanyShare
		err := s.db.WithContext(ctx).
			First(&share, "token = ? AND company_id = ?", id.ShareToken, companyID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return deny("unknown share token"), nil
		case err != nil:
			return deny(""), fmt.Errorf("failed to load share: %w", err)
		}

		if !share.IsActive {
			return deny("share deactivated"), nil
		}
		// The public flag shortcuts view and download only; manage always
		// falls through to the permission check, which never grants it.
		if doc != nil && doc.IsPublic && action != ActionManage {
			return allow("share token, public document"), nil
		}
		if shareAllows(&share, action) {
			return allow("share token"), nil
		}
		return deny("share token lacks permission " + string(action)), nil
	}

	return deny("no grant"), nil
}

func memberAllows(m *models.CompanyMember, action Action) bool {
	switch action {
	case ActionView:
		return m.CanView()
	case ActionDownload:
		return m.CanDownload()
	case ActionManage:
		return m.CanManage()
	}
	return false
}

func shareAllows(share *models.CompanyShare, action Action) bool {
	switch action {
	case ActionView:
		return share.HasPermission(models.PermViewCompany) || share.HasPermission(models.PermViewDocuments)
	case ActionDownload:
		return share.HasPermission(models.PermDownloadDocuments)
	}
	// Shares never grant management.
	return false
}
