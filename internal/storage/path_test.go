package storage_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/fiich/fiich-server/internal/storage"
)

func TestBuildFilePathRoundTrip(t *testing.T) {
	companyID := uuid.New()
	now := time.Now()

	cases := []struct {
		category string
		fileName string
	}{
		{"documents", "Kbis.pdf"},
		{"rib", "RIB entreprise.pdf"},
		{"assurance", "attestation-2025.PDF"},
		{"", "contrat.docx"},
	}

	for _, tc := range cases {
		t.Run(tc.category+"/"+tc.fileName, func(t *testing.T) {
			filePath := storage.BuildFilePath(companyID, tc.category, tc.fileName, now)
			key := storage.ObjectKey(filePath)

			// The key used to write must be the exact key found by listing:
			// inverting it gives back the stored file_path.
			back, ok := storage.FilePath(key)
			assert.True(t, ok)
			assert.Equal(t, filePath, back)
			assert.Equal(t, key, storage.ObjectKey(back))
		})
	}
}

func TestBuildFilePathShape(t *testing.T) {
	companyID := uuid.MustParse("feab1dd5-0000-0000-0000-000000000000")
	now := time.UnixMilli(1700000000000)

	filePath := storage.BuildFilePath(companyID, "documents", "Kbis.pdf", now)
	assert.Equal(t,
		fmt.Sprintf("%s/documents/1700000000000-Kbis.pdf", companyID),
		filePath)

	key := storage.ObjectKey(filePath)
	assert.Equal(t, "documents/"+filePath, key)
}

func TestFilePathRejectsForeignKeys(t *testing.T) {
	_, ok := storage.FilePath("avatars/abc.png")
	assert.False(t, ok)
}

func TestCompanyPrefix(t *testing.T) {
	companyID := uuid.New()
	prefix := storage.CompanyPrefix(companyID)
	assert.Equal(t, "documents/"+companyID.String()+"/", prefix)

	filePath := storage.BuildFilePath(companyID, "rib", "rib.pdf", time.Now())
	assert.Contains(t, storage.ObjectKey(filePath), prefix)
}

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"Kbis.pdf":                 "Kbis.pdf",
		"RIB entreprise.pdf":       "RIB_entreprise.pdf",
		"../../etc/passwd":         "passwd",
		"facture (août 2025).pdf":  "facture_aot_2025.pdf",
		"  ":                       "file",
		"...":                      "file",
		"rapport\\final\\v2.xlsx":  "v2.xlsx",
		"a&b=c?.png":               "abc.png",
	}
	for in, want := range cases {
		assert.Equal(t, want, storage.SanitizeFileName(in), "input %q", in)
	}
}

func TestSanitizeCategory(t *testing.T) {
	assert.Equal(t, "documents", storage.SanitizeCategory(""))
	assert.Equal(t, "documents", storage.SanitizeCategory("  "))
	assert.Equal(t, "kbis", storage.SanitizeCategory("KBIS"))
	assert.Equal(t, "mycat", storage.SanitizeCategory("my/cat"))
}
