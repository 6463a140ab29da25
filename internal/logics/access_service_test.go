package logics

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fiich/fiich-server/internal/models"
)

func seedMember(t *testing.T, db *gorm.DB, companyID, userID uuid.UUID, role string) {
	t.Helper()
	member := models.CompanyMember{
		ID:        uuid.New(),
		CompanyID: companyID,
		UserID:    userID,
		Role:      role,
	}
	require.NoError(t, db.Create(&member).Error)
}

func seedShare(t *testing.T, db *gorm.DB, companyID, createdBy uuid.UUID, active bool, perms ...string) *models.CompanyShare {
	t.Helper()
	share := models.CompanyShare{
		ID:          uuid.New(),
		CompanyID:   companyID,
		Token:       uuid.NewString(),
		Permissions: models.JoinPermissions(perms...),
		IsActive:    active,
		CreatedBy:   createdBy,
	}
	require.NoError(t, db.Create(&share).Error)
	if !active {
		// The model tags is_active default:true and GORM's Create skips
		// zero-value fields with a default, so deactivation must be an
		// explicit update — the same way Revoke does it in production.
		require.NoError(t, db.Model(&share).Update("is_active", false).Error)
	}
	return &share
}

func seedDoc(t *testing.T, db *gorm.DB, companyID uuid.UUID, public bool) *models.Document {
	t.Helper()
	doc := models.Document{
		ID:        uuid.New(),
		CompanyID: companyID,
		Name:      "kbis.pdf",
		Category:  models.CategoryKbis,
		IsPublic:  public,
	}
	// FilePath carries uniqueIndex; embed the doc ID so repeated seeding
	// for the same company does not collide.
	doc.FilePath = companyID.String() + "/kbis/1700000000000-" + doc.ID.String() + "-kbis.pdf"
	require.NoError(t, db.Create(&doc).Error)
	return &doc
}

func TestAccessService_ResolveCompany(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewAccessService(db)

	owner := seedUser(t, db, "owner@dupont-btp.fr")
	company := seedCompany(t, db, owner.ID)

	t.Run("deny by default", func(t *testing.T) {
		stranger := seedUser(t, db, "stranger@example.fr")
		decision, err := svc.ResolveCompany(ctx, company.ID, Identity{UserID: stranger.ID}, ActionView)
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.Equal(t, "no grant", decision.Reason)
	})

	t.Run("anonymous without token is denied", func(t *testing.T) {
		decision, err := svc.ResolveCompany(ctx, company.ID, Identity{}, ActionView)
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
	})

	t.Run("owner may do everything", func(t *testing.T) {
		for _, action := range []Action{ActionView, ActionDownload, ActionManage} {
			decision, err := svc.ResolveCompany(ctx, company.ID, Identity{UserID: owner.ID}, action)
			require.NoError(t, err)
			assert.True(t, decision.Allowed, string(action))
			assert.Equal(t, "owner", decision.Reason)
		}
	})

	t.Run("unknown company is denied, not an error", func(t *testing.T) {
		decision, err := svc.ResolveCompany(ctx, uuid.New(), Identity{UserID: owner.ID}, ActionView)
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.Equal(t, "company not found", decision.Reason)
	})
}

func TestAccessService_MemberRoles(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewAccessService(db)

	owner := seedUser(t, db, "owner@dupont-btp.fr")
	company := seedCompany(t, db, owner.ID)

	cases := []struct {
		role        string
		canView     bool
		canDownload bool
		canManage   bool
	}{
		{models.RoleAdmin, true, true, true},
		{models.RoleMember, true, true, false},
		{models.RoleViewer, true, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.role, func(t *testing.T) {
			user := seedUser(t, db, tc.role+"@example.fr")
			seedMember(t, db, company.ID, user.ID, tc.role)
			id := Identity{UserID: user.ID}

			decision, err := svc.ResolveCompany(ctx, company.ID, id, ActionView)
			require.NoError(t, err)
			assert.Equal(t, tc.canView, decision.Allowed)

			decision, err = svc.ResolveCompany(ctx, company.ID, id, ActionDownload)
			require.NoError(t, err)
			assert.Equal(t, tc.canDownload, decision.Allowed)

			decision, err = svc.ResolveCompany(ctx, company.ID, id, ActionManage)
			require.NoError(t, err)
			assert.Equal(t, tc.canManage, decision.Allowed)
		})
	}
}

func TestAccessService_ShareToken(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewAccessService(db)

	owner := seedUser(t, db, "owner@dupont-btp.fr")
	company := seedCompany(t, db, owner.ID)

	t.Run("view-only share grants view, not download", func(t *testing.T) {
		share := seedShare(t, db, company.ID, owner.ID, true,
			models.PermViewCompany, models.PermViewDocuments)
		id := Identity{ShareToken: share.Token}

		decision, err := svc.ResolveCompany(ctx, company.ID, id, ActionView)
		require.NoError(t, err)
		assert.True(t, decision.Allowed)

		decision, err = svc.ResolveCompany(ctx, company.ID, id, ActionDownload)
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
	})

	t.Run("shares never grant manage", func(t *testing.T) {
		share := seedShare(t, db, company.ID, owner.ID, true,
			models.PermViewCompany, models.PermViewDocuments, models.PermDownloadDocuments)
		decision, err := svc.ResolveCompany(ctx, company.ID, Identity{ShareToken: share.Token}, ActionManage)
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
	})

	t.Run("deactivated share denies immediately", func(t *testing.T) {
		share := seedShare(t, db, company.ID, owner.ID, false,
			models.PermViewCompany, models.PermViewDocuments)
		decision, err := svc.ResolveCompany(ctx, company.ID, Identity{ShareToken: share.Token}, ActionView)
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.Equal(t, "share deactivated", decision.Reason)
	})

	t.Run("unknown token denies", func(t *testing.T) {
		decision, err := svc.ResolveCompany(ctx, company.ID, Identity{ShareToken: "nope"}, ActionView)
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
	})

	t.Run("foreign company token denies", func(t *testing.T) {
		other := seedCompany(t, db, owner.ID)
		share := seedShare(t, db, other.ID, owner.ID, true,
			models.PermViewCompany, models.PermViewDocuments)
		decision, err := svc.ResolveCompany(ctx, company.ID, Identity{ShareToken: share.Token}, ActionView)
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
	})
}

func TestAccessService_ResolveDocument(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewAccessService(db)

	owner := seedUser(t, db, "owner@dupont-btp.fr")
	company := seedCompany(t, db, owner.ID)

	t.Run("public document downloadable through active share", func(t *testing.T) {
		share := seedShare(t, db, company.ID, owner.ID, true,
			models.PermViewCompany, models.PermViewDocuments)
		doc := seedDoc(t, db, company.ID, true)

		decision, err := svc.ResolveDocument(ctx, doc.ID, Identity{ShareToken: share.Token}, ActionDownload)
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
	})

	t.Run("public flag never grants manage through a share", func(t *testing.T) {
		share := seedShare(t, db, company.ID, owner.ID, true,
			models.PermViewCompany, models.PermViewDocuments)
		doc := seedDoc(t, db, company.ID, true)

		decision, err := svc.ResolveDocument(ctx, doc.ID, Identity{ShareToken: share.Token}, ActionManage)
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
	})

	t.Run("public flag does not bypass a deactivated share", func(t *testing.T) {
		share := seedShare(t, db, company.ID, owner.ID, false,
			models.PermViewCompany, models.PermViewDocuments)
		doc := seedDoc(t, db, company.ID, true)

		decision, err := svc.ResolveDocument(ctx, doc.ID, Identity{ShareToken: share.Token}, ActionDownload)
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
	})

	t.Run("viewer role falls through to share token for download", func(t *testing.T) {
		viewer := seedUser(t, db, "viewer@example.fr")
		seedMember(t, db, company.ID, viewer.ID, models.RoleViewer)
		share := seedShare(t, db, company.ID, owner.ID, true,
			models.PermViewCompany, models.PermViewDocuments, models.PermDownloadDocuments)
		doc := seedDoc(t, db, company.ID, false)

		decision, err := svc.ResolveDocument(ctx, doc.ID,
			Identity{UserID: viewer.ID, ShareToken: share.Token}, ActionDownload)
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
	})

	t.Run("missing document denies", func(t *testing.T) {
		decision, err := svc.ResolveDocument(ctx, uuid.New(), Identity{UserID: owner.ID}, ActionView)
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.Equal(t, "document not found", decision.Reason)
	})
}
