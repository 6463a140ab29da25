package logics

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fiich/fiich-server/internal/models"
	"github.com/fiich/fiich-server/internal/storage"
)

func TestDocumentService_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("success leaves one object and one row", func(t *testing.T) {
		db := newTestDB(t)
		store := newFakeObjectStore()
		svc := NewDocumentService(db, store, zap.NewNop())
		owner := seedUser(t, db, "owner@dupont-btp.fr")
		company := seedCompany(t, db, owner.ID)

		in := UploadInput{
			Name:        "kbis-2025.pdf",
			Category:    models.CategoryKbis,
			ContentType: "application/pdf",
			Size:        4,
			UploadedBy:  owner.ID,
		}
		doc, err := svc.Upload(ctx, company.ID, in, bytes.NewReader([]byte("%PDF")))
		require.NoError(t, err)
		require.NotNil(t, doc)

		assert.Equal(t, 1, store.count())
		assert.True(t, store.has(storage.ObjectKey(doc.FilePath)))

		var count int64
		require.NoError(t, db.Model(&models.Document{}).Count(&count).Error)
		assert.EqualValues(t, 1, count)

		assert.Equal(t, company.ID, doc.CompanyID)
		assert.Equal(t, models.CategoryKbis, doc.Category)
		assert.False(t, doc.IsPublic)
	})

	t.Run("unsupported content type is rejected before any write", func(t *testing.T) {
		db := newTestDB(t)
		store := newFakeObjectStore()
		svc := NewDocumentService(db, store, zap.NewNop())
		owner := seedUser(t, db, "owner@dupont-btp.fr")
		company := seedCompany(t, db, owner.ID)

		in := UploadInput{
			Name:        "script.sh",
			Category:    models.CategoryDocuments,
			ContentType: "application/x-sh",
			UploadedBy:  owner.ID,
		}
		_, err := svc.Upload(ctx, company.ID, in, bytes.NewReader([]byte("#!/bin/sh")))
		require.ErrorIs(t, err, ErrUnsupportedType)

		assert.Equal(t, 0, store.count())
		var count int64
		require.NoError(t, db.Model(&models.Document{}).Count(&count).Error)
		assert.EqualValues(t, 0, count)
	})

	t.Run("storage write failure inserts no row", func(t *testing.T) {
		db := newTestDB(t)
		store := newFakeObjectStore()
		store.failPut = errors.New("bucket unavailable")
		svc := NewDocumentService(db, store, zap.NewNop())
		owner := seedUser(t, db, "owner@dupont-btp.fr")
		company := seedCompany(t, db, owner.ID)

		in := UploadInput{
			Name:        "rib.pdf",
			Category:    models.CategoryRib,
			ContentType: "application/pdf",
			UploadedBy:  owner.ID,
		}
		_, err := svc.Upload(ctx, company.ID, in, bytes.NewReader([]byte("%PDF")))
		require.Error(t, err)

		var count int64
		require.NoError(t, db.Model(&models.Document{}).Count(&count).Error)
		assert.EqualValues(t, 0, count)
	})

	t.Run("unlistable object surfaces dedicated error, deletes nothing", func(t *testing.T) {
		db := newTestDB(t)
		store := newFakeObjectStore()
		store.hideOnList = true
		svc := NewDocumentService(db, store, zap.NewNop())
		owner := seedUser(t, db, "owner@dupont-btp.fr")
		company := seedCompany(t, db, owner.ID)

		in := UploadInput{
			Name:        "kbis.pdf",
			Category:    models.CategoryKbis,
			ContentType: "application/pdf",
			UploadedBy:  owner.ID,
		}
		_, err := svc.Upload(ctx, company.ID, in, bytes.NewReader([]byte("%PDF")))
		require.ErrorIs(t, err, ErrNotFoundAfterUpload)

		// The object was written and must not be removed: the listed state is
		// not trustworthy, so cleanup is left to the reconcile pass.
		assert.Equal(t, 1, store.count())
		assert.Empty(t, store.deleted)
		var count int64
		require.NoError(t, db.Model(&models.Document{}).Count(&count).Error)
		assert.EqualValues(t, 0, count)
	})

	t.Run("row insert failure triggers compensating delete", func(t *testing.T) {
		db := newTestDB(t)
		store := newFakeObjectStore()
		svc := NewDocumentService(db, store, zap.NewNop())
		owner := seedUser(t, db, "owner@dupont-btp.fr")
		company := seedCompany(t, db, owner.ID)

		// Break the metadata insert after storage is reachable.
		require.NoError(t, db.Migrator().DropTable(&models.Document{}))

		in := UploadInput{
			Name:        "assurance.pdf",
			Category:    models.CategoryInsurance,
			ContentType: "application/pdf",
			UploadedBy:  owner.ID,
		}
		_, err := svc.Upload(ctx, company.ID, in, bytes.NewReader([]byte("%PDF")))
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrNotFoundAfterUpload)

		assert.Equal(t, 0, store.count())
		require.Len(t, store.deleted, 1)
	})
}

func TestDocumentService_Delete(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	store := newFakeObjectStore()
	svc := NewDocumentService(db, store, zap.NewNop())
	owner := seedUser(t, db, "owner@dupont-btp.fr")
	company := seedCompany(t, db, owner.ID)

	doc, err := svc.Upload(ctx, company.ID, UploadInput{
		Name:        "kbis.pdf",
		Category:    models.CategoryKbis,
		ContentType: "application/pdf",
		UploadedBy:  owner.ID,
	}, bytes.NewReader([]byte("%PDF")))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, doc))

	assert.Equal(t, 0, store.count())
	var count int64
	require.NoError(t, db.Model(&models.Document{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestDocumentService_DownloadLink(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	store := newFakeObjectStore()
	svc := NewDocumentService(db, store, zap.NewNop())
	owner := seedUser(t, db, "owner@dupont-btp.fr")
	company := seedCompany(t, db, owner.ID)

	doc, err := svc.Upload(ctx, company.ID, UploadInput{
		Name:        "rib.pdf",
		Category:    models.CategoryRib,
		ContentType: "application/pdf",
		UploadedBy:  owner.ID,
	}, bytes.NewReader([]byte("%PDF")))
	require.NoError(t, err)

	url, err := svc.DownloadLink(ctx, doc)
	require.NoError(t, err)
	assert.Contains(t, url, storage.ObjectKey(doc.FilePath))
}
