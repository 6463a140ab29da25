package logics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fiich/fiich-server/internal/models"
)

func TestMemberService(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewMemberService(db)
	owner := seedUser(t, db, "owner@dupont-btp.fr")
	company := seedCompany(t, db, owner.ID)

	t.Run("add and list", func(t *testing.T) {
		user := seedUser(t, db, "collegue@dupont-btp.fr")
		member, err := svc.Add(ctx, company.ID, user.ID, owner.ID, models.RoleMember)
		require.NoError(t, err)
		assert.Equal(t, models.RoleMember, member.Role)

		members, err := svc.List(ctx, company.ID)
		require.NoError(t, err)
		assert.Len(t, members, 2) // owner binding plus the new member

		_, err = svc.Add(ctx, company.ID, user.ID, owner.ID, models.RoleViewer)
		assert.ErrorIs(t, err, ErrAlreadyMember)
	})

	t.Run("update role", func(t *testing.T) {
		user := seedUser(t, db, "viewer@dupont-btp.fr")
		_, err := svc.Add(ctx, company.ID, user.ID, owner.ID, models.RoleViewer)
		require.NoError(t, err)

		require.NoError(t, svc.UpdateRole(ctx, company.ID, user.ID, models.RoleAdmin))
		member, err := svc.Get(ctx, company.ID, user.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, member.Role)
	})

	t.Run("owner binding is immutable", func(t *testing.T) {
		assert.ErrorIs(t, svc.UpdateRole(ctx, company.ID, owner.ID, models.RoleViewer), ErrLastOwner)
		assert.ErrorIs(t, svc.Remove(ctx, company.ID, owner.ID), ErrLastOwner)
	})

	t.Run("remove", func(t *testing.T) {
		user := seedUser(t, db, "parti@dupont-btp.fr")
		_, err := svc.Add(ctx, company.ID, user.ID, owner.ID, models.RoleMember)
		require.NoError(t, err)

		require.NoError(t, svc.Remove(ctx, company.ID, user.ID))
		_, err = svc.Get(ctx, company.ID, user.ID)
		require.Error(t, err)
	})
}
