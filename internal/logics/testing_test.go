package logics

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fiich/fiich-server/internal/models"
	"github.com/fiich/fiich-server/internal/storage"
)

// newTestDB opens a per-test in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.CompanyMember{},
		&models.Document{},
		&models.Invitation{},
		&models.CompanyShare{},
		&models.Notification{},
	)
	require.NoError(t, err)
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := models.User{ID: uuid.New(), Email: email, FullName: "Jean Dupont"}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedCompany(t *testing.T, db *gorm.DB, ownerID uuid.UUID) *models.Company {
	t.Helper()
	company := models.Company{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Name:    "Dupont BTP",
		Siren:   "732829320",
		Siret:   "73282932000074",
	}
	require.NoError(t, db.Create(&company).Error)
	member := models.CompanyMember{
		ID:        uuid.New(),
		CompanyID: company.ID,
		UserID:    ownerID,
		Role:      models.RoleOwner,
	}
	require.NoError(t, db.Create(&member).Error)
	return &company
}

// fakeObjectStore is an in-memory ObjectStore with failure injection.
type fakeObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte

	failPut    error
	failList   error
	failDelete error
	// hideOnList makes List omit every stored object, simulating a bucket
	// whose read path disagrees with its write path.
	hideOnList bool

	deleted []string
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string][]byte{}}
}

func (f *fakeObjectStore) Put(_ context.Context, key, _ string, body io.Reader) error {
	if f.failPut != nil {
		return f.failPut
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return nil
}

func (f *fakeObjectStore) List(_ context.Context, prefix string) ([]storage.ObjectInfo, error) {
	if f.failList != nil {
		return nil, f.failList
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hideOnList {
		return nil, nil
	}
	var infos []storage.ObjectInfo
	for key, data := range f.objects {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			infos = append(infos, storage.ObjectInfo{Key: key, Size: int64(len(data))})
		}
	}
	return infos, nil
}

func (f *fakeObjectStore) Delete(_ context.Context, key string) error {
	if f.failDelete != nil {
		return f.failDelete
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeObjectStore) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://files.example.test/" + key, nil
}

func (f *fakeObjectStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

func (f *fakeObjectStore) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

// fakeMailer records invitation emails instead of sending them.
type fakeMailer struct {
	sent []string
	fail error
}

func (m *fakeMailer) SendInvitationEmail(to, _, _, _, _ string) error {
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, to)
	return nil
}

var _ storage.ObjectStore = (*fakeObjectStore)(nil)
