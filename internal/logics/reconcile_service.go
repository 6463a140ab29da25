package logics

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fiich/fiich-server/internal/models"
	"github.com/fiich/fiich-server/internal/storage"
)

// ReconcileReport is the outcome of one scan: rows whose object is missing,
// objects no row references, and the count of matched pairs.
type ReconcileReport struct {
	OrphanRows    []models.Document
	OrphanObjects []storage.ObjectInfo
	Matched       int
}

// ReconcileService compares document rows against storage objects and cleans
// up divergence left behind by failed uploads or deletes. Matching is by
// canonical key only, never by prefix heuristics.
type ReconcileService struct {
	db     *gorm.DB
	store  storage.ObjectStore
	logger *zap.Logger
}

func NewReconcileService(db *gorm.DB, store storage.ObjectStore, logger *zap.Logger) *ReconcileService {
	return &ReconcileService{db: db, store: store, logger: logger}
}

// Scan lists document rows and storage objects for the scope (one company, or
// everything when companyID is nil) and reports orphans in both directions.
// Scanning mutates nothing, so it is safe to run at any time.
func (s *ReconcileService) Scan(ctx context.Context, companyID *uuid.UUID) (*ReconcileReport, error) {
	q := s.db.WithContext(ctx).Model(&models.Document{})
	prefix := storage.Root + "/"
	if companyID != nil {
		q = q.Where("company_id = ?", *companyID)
		prefix = storage.CompanyPrefix(*companyID)
	}

	var rows []models.Document
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list document rows: %w", err)
	}

	objects, err := s.store.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list storage objects: %w", err)
	}

	byKey := make(map[string]storage.ObjectInfo, len(objects))
	for _, obj := range objects {
		byKey[obj.Key] = obj
	}

	report := &ReconcileReport{}
	referenced := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		key := storage.ObjectKey(row.FilePath)
		referenced[key] = struct{}{}
		if _, ok := byKey[key]; ok {
			report.Matched++
		} else {
			report.OrphanRows = append(report.OrphanRows, row)
		}
	}
	for _, obj := range objects {
		if _, ok := referenced[obj.Key]; !ok {
			report.OrphanObjects = append(report.OrphanObjects, obj)
		}
	}

	s.logger.Info("reconcile scan finished",
		zap.Int("matched", report.Matched),
		zap.Int("orphan_rows", len(report.OrphanRows)),
		zap.Int("orphan_objects", len(report.OrphanObjects)),
	)
	return report, nil
}

// DeleteOrphanRows removes metadata rows that reference no object. Rows are
// safe to delete automatically: they point at nothing.
func (s *ReconcileService) DeleteOrphanRows(ctx context.Context, report *ReconcileReport) (int, error) {
	deleted := 0
	for _, row := range report.OrphanRows {
		if err := s.db.WithContext(ctx).Delete(&models.Document{}, "id = ?", row.ID).Error; err != nil {
			return deleted, fmt.Errorf("failed to delete orphaned row %s: %w", row.ID, err)
		}
		deleted++
		s.logger.Info("deleted orphaned document row",
			zap.String("id", row.ID.String()),
			zap.String("file_path", row.FilePath),
		)
	}
	return deleted, nil
}

// DeleteOrphanObjects removes objects no row references. An orphaned object
// may be an in-flight upload whose row is not committed yet, so this is a
// separately confirmed operation, never run by default.
func (s *ReconcileService) DeleteOrphanObjects(ctx context.Context, report *ReconcileReport) (int, error) {
	deleted := 0
	for _, obj := range report.OrphanObjects {
		if err := s.store.Delete(ctx, obj.Key); err != nil {
			return deleted, fmt.Errorf("failed to delete orphaned object %s: %w", obj.Key, err)
		}
		deleted++
		s.logger.Info("deleted orphaned object", zap.String("key", obj.Key))
	}
	return deleted, nil
}
