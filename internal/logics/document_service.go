package logics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fiich/fiich-server/internal/models"
	"github.com/fiich/fiich-server/internal/storage"
)

// presignTTL matches the short-lived download links the frontend requests.
const presignTTL = 60 * time.Second

var (
	// ErrUnsupportedType is returned when an upload's content type is not on
	// the allow-list.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrNotFoundAfterUpload is returned when the object written in an upload
	// is not listable right afterwards. Distinct from a write failure: the
	// sequencer deletes nothing in that case.
	ErrNotFoundAfterUpload = errors.New("object not found after upload")
)

// allowedContentTypes is the upload allow-list: PDF, JPEG, PNG and the common
// Office formats.
var allowedContentTypes = map[string]struct{}{
	"application/pdf": {},
	"image/jpeg":      {},
	"image/png":       {},
	"application/msword":            {},
	"application/vnd.ms-excel":      {},
	"application/vnd.ms-powerpoint": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         {},
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": {},
}

// UploadInput carries the metadata accompanying an uploaded blob.
type UploadInput struct {
	Name        string
	Category    string
	ContentType string
	Size        int64
	IsPublic    bool
	UploadedBy  uuid.UUID
}

// DocumentService owns the document pipeline: upload sequencing, listing,
// download links and deletion. Storage and metadata are not transactional;
// the upload is a saga with a compensating delete.
type DocumentService struct {
	db     *gorm.DB
	store  storage.ObjectStore
	logger *zap.Logger
}

func NewDocumentService(db *gorm.DB, store storage.ObjectStore, logger *zap.Logger) *DocumentService {
	return &DocumentService{db: db, store: store, logger: logger}
}

// Upload writes the blob to storage at the canonical key, verifies it is
// listable, then inserts the metadata row. On a row-insert failure the object
// is deleted again so storage and metadata never diverge on a reported
// failure. Success leaves exactly one object and one row.
func (s *DocumentService) Upload(ctx context.Context, companyID uuid.UUID, in UploadInput, body io.Reader) (*models.Document, error) {
	if _, ok := allowedContentTypes[in.ContentType]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, in.ContentType)
	}

	filePath := storage.BuildFilePath(companyID, in.Category, in.Name, time.Now())
	key := storage.ObjectKey(filePath)

	if err := s.store.Put(ctx, key, in.ContentType, body); err != nil {
		return nil, fmt.Errorf("storage write failed: %w", err)
	}

	// The exact key must be listable before the row is inserted. When it is
	// not, the listed state cannot be trusted, so nothing is deleted and a
	// dedicated error is surfaced.
	listed, err := s.store.List(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("post-upload verification failed: %w", err)
	}
	found := false
	for _, obj := range listed {
		if obj.Key == key {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrNotFoundAfterUpload
	}

	doc := models.Document{
		ID:          uuid.New(),
		CompanyID:   companyID,
		Name:        in.Name,
		FilePath:    filePath,
		FileSize:    in.Size,
		ContentType: in.ContentType,
		Category:    storage.SanitizeCategory(in.Category),
		IsPublic:    in.IsPublic,
		UploadedBy:  in.UploadedBy,
	}
	if err := s.db.WithContext(ctx).Create(&doc).Error; err != nil {
		// Compensating delete. Best effort: a failure here leaves an orphaned
		// object for the reconcile command and is logged, not retried.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.logger.Error("compensating delete failed, orphaned object left in storage",
				zap.String("key", key),
				zap.Error(delErr),
			)
		}
		return nil, fmt.Errorf("failed to create document record: %w", err)
	}

	return &doc, nil
}

// Get retrieves a document by id.
func (s *DocumentService) Get(ctx context.Context, documentID uuid.UUID) (*models.Document, error) {
	var doc models.Document
	if err := s.db.WithContext(ctx).First(&doc, "id = ?", documentID).Error; err != nil {
		return nil, fmt.Errorf("failed to get document record: %w", err)
	}
	return &doc, nil
}

// ListByCompany retrieves all document rows of one company.
func (s *DocumentService) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Document, error) {
	var docs []models.Document
	if err := s.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to list documents for company %s: %w", companyID, err)
	}
	return docs, nil
}

// DownloadLink generates a short-lived presigned URL for the document.
func (s *DocumentService) DownloadLink(ctx context.Context, doc *models.Document) (string, error) {
	return s.store.PresignGet(ctx, storage.ObjectKey(doc.FilePath), presignTTL)
}

// SetPublic flips the document's public flag.
func (s *DocumentService) SetPublic(ctx context.Context, doc *models.Document, public bool) error {
	if err := s.db.WithContext(ctx).Model(doc).Update("is_public", public).Error; err != nil {
		return fmt.Errorf("failed to update document visibility: %w", err)
	}
	return nil
}

// Delete removes the storage object, then the metadata row. Either failure
// is surfaced; a failure between the two leaves an orphaned row that the
// reconcile command cleans up.
func (s *DocumentService) Delete(ctx context.Context, doc *models.Document) error {
	if err := s.store.Delete(ctx, storage.ObjectKey(doc.FilePath)); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	if err := s.db.WithContext(ctx).Delete(&models.Document{}, "id = ?", doc.ID).Error; err != nil {
		return fmt.Errorf("failed to delete document record: %w", err)
	}
	return nil
}
