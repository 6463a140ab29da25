// Command reconcile scans document metadata against the storage bucket and
// reports rows without objects and objects without rows. Orphaned rows can be
// deleted automatically; orphaned objects are only deleted when explicitly
// requested, since an object without a row may be an upload still in flight.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fiich/fiich-server/configs"
	"github.com/fiich/fiich-server/internal/logics"
	"github.com/fiich/fiich-server/internal/repositories"
	"github.com/fiich/fiich-server/internal/storage"
)

func main() {
	var (
		configPath    string
		companyFlag   string
		deleteRows    bool
		deleteObjects bool
	)
	flag.StringVar(&configPath, "c", "", "Path to config file (short)")
	flag.StringVar(&configPath, "config", "", "Path to config file (long)")
	flag.StringVar(&companyFlag, "company", "", "Limit the scan to one company id")
	flag.BoolVar(&deleteRows, "delete-rows", false, "Delete metadata rows whose object is missing")
	flag.BoolVar(&deleteObjects, "delete-objects", false, "Delete objects no metadata row references")
	flag.Parse()

	configs.Init(&configPath)
	repositories.Init()

	var companyID *uuid.UUID
	if companyFlag != "" {
		id, err := uuid.Parse(companyFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -company value %q: %v\n", companyFlag, err)
			os.Exit(2)
		}
		companyID = &id
	}

	store := storage.NewS3Store(repositories.DBS.S3, configs.Configs.S3.BucketName)
	service := logics.NewReconcileService(repositories.DBS.Postgres, store, configs.Logger)

	ctx := context.Background()
	report, err := service.Scan(ctx, companyID)
	if err != nil {
		configs.Logger.Fatal("Reconcile scan failed", zap.Error(err))
	}

	fmt.Printf("matched: %d\n", report.Matched)
	fmt.Printf("orphaned rows: %d\n", len(report.OrphanRows))
	for _, row := range report.OrphanRows {
		fmt.Printf("  row %s  %s\n", row.ID, row.FilePath)
	}
	fmt.Printf("orphaned objects: %d\n", len(report.OrphanObjects))
	for _, obj := range report.OrphanObjects {
		fmt.Printf("  object %s  (%d bytes)\n", obj.Key, obj.Size)
	}

	if deleteRows {
		n, err := service.DeleteOrphanRows(ctx, report)
		if err != nil {
			configs.Logger.Fatal("Failed deleting orphaned rows", zap.Error(err), zap.Int("deleted", n))
		}
		fmt.Printf("deleted %d orphaned rows\n", n)
	}

	if deleteObjects {
		n, err := service.DeleteOrphanObjects(ctx, report)
		if err != nil {
			configs.Logger.Fatal("Failed deleting orphaned objects", zap.Error(err), zap.Int("deleted", n))
		}
		fmt.Printf("deleted %d orphaned objects\n", n)
	}
}
