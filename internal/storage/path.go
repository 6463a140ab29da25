package storage

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Root is the fixed prefix under which every document object lives inside the
// company-files bucket. Document.FilePath values are stored relative to it.
const Root = "documents"

var (
	unsafeChars  = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)
	categoryOnly = regexp.MustCompile(`[^a-z0-9_-]+`)
)

// BuildFilePath derives the canonical file_path for a new upload:
// {companyID}/{category}/{unixmilli}-{sanitizedFileName}, relative to Root.
// Every write, read, list and delete must go through this convention; path
// strings are never reassembled at call sites.
func BuildFilePath(companyID uuid.UUID, category, fileName string, now time.Time) string {
	return fmt.Sprintf("%s/%s/%d-%s",
		companyID.String(),
		SanitizeCategory(category),
		now.UnixMilli(),
		SanitizeFileName(fileName),
	)
}

// ObjectKey returns the full bucket key for a stored file_path.
func ObjectKey(filePath string) string {
	return Root + "/" + filePath
}

// FilePath inverts ObjectKey. ok is false when the key does not live under
// the documents root.
func FilePath(objectKey string) (string, bool) {
	return strings.CutPrefix(objectKey, Root+"/")
}

// CompanyPrefix returns the list prefix covering every object of one company.
func CompanyPrefix(companyID uuid.UUID) string {
	return Root + "/" + companyID.String() + "/"
}

// SanitizeFileName makes an original file name safe to embed in an object
// key: path components are dropped, whitespace becomes underscores and any
// remaining unsafe rune is removed. A name reduced to nothing becomes "file".
func SanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")
	if name == "" {
		return "file"
	}
	return name
}

// SanitizeCategory normalizes a category tag to a single lowercase path
// segment, defaulting to "documents".
func SanitizeCategory(category string) string {
	category = categoryOnly.ReplaceAllString(strings.ToLower(strings.TrimSpace(category)), "")
	if category == "" {
		return "documents"
	}
	return category
}
