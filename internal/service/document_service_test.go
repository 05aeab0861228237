package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-service-market/internal/apperr"
	"go-service-market/internal/domain"
	"go-service-market/internal/repo"
	"go-service-market/internal/storage"
)

func newDocumentService(t *testing.T) (*DocumentService, *gorm.DB, string) {
	t.Helper()
	db := newTestDB(t)
	root := t.TempDir()
	store, err := storage.NewLocalStore(root, "http://localhost/uploads")
	require.NoError(t, err)
	return NewDocumentService(db, store, zap.NewNop(), 10), db, root
}

func seedProfile(t *testing.T, db *gorm.DB, email string) *domain.ProviderProfile {
	t.Helper()
	u := seedUser(t, db, email)
	p, err := NewProfileService(db).CreateProfile(context.Background(), CreateProfileInput{UserID: u.ID})
	require.NoError(t, err)
	return p
}

func newFileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("document", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	return form.File["document"][0]
}

func TestUploadRecordsActingRecruiter(t *testing.T) {
	svc, db, _ := newDocumentService(t)
	p := seedProfile(t, db, "prov@example.com")
	recUser, rec := seedRecruiter(t, db, "rec@example.com")

	fh := newFileHeader(t, "id-scan.pdf", []byte("pdf"))
	doc, err := svc.Upload(context.Background(),
		claimsFor(recUser.ID.String(), domain.RoleRecruiter), p.ID, "id_card", fh)
	require.NoError(t, err)

	// uploaded_by 记的是猎头行 id，不是账号 id
	require.NotNil(t, doc.UploadedBy)
	require.Equal(t, rec.ID, *doc.UploadedBy)
	require.NotEqual(t, recUser.ID, *doc.UploadedBy)
}

func TestUploadWithoutRecruiterRowLeavesUploaderEmpty(t *testing.T) {
	svc, db, _ := newDocumentService(t)
	p := seedProfile(t, db, "prov@example.com")
	admin := seedUser(t, db, "admin@example.com")

	fh := newFileHeader(t, "license.pdf", []byte("pdf"))
	doc, err := svc.Upload(context.Background(),
		claimsFor(admin.ID.String(), domain.RoleAdministrator), p.ID, "license", fh)
	require.NoError(t, err)
	require.Nil(t, doc.UploadedBy)
}

func TestDeleteDocumentRemovesStoredObject(t *testing.T) {
	svc, db, root := newDocumentService(t)
	p := seedProfile(t, db, "prov@example.com")
	recUser, _ := seedRecruiter(t, db, "rec@example.com")

	// 直接落一份对象 + 元数据，模拟已上传状态
	key := "providers/" + p.ID.String() + "/doc.pdf"
	full := filepath.Join(root, key)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte("pdf"), 0o644))

	docs, err := repo.NewDocumentRepo(db).InsertBatch(context.Background(), []domain.ProviderDocument{{
		ProviderID:   p.ID,
		DocumentType: "id_card",
		StorageKey:   key,
		FileURL:      "http://localhost/uploads/" + key,
		FileName:     "doc.pdf",
	}})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), claimsFor(recUser.ID.String(), domain.RoleRecruiter), p.ID, docs[0].ID)
	require.NoError(t, err)

	_, statErr := os.Stat(full)
	require.True(t, os.IsNotExist(statErr))

	remaining, err := svc.List(context.Background(), p.ID)
	require.NoError(t, err)
	require.Empty(t, remaining)
}

func TestDeleteDocumentScopedToProvider(t *testing.T) {
	svc, db, _ := newDocumentService(t)
	p1 := seedProfile(t, db, "p1@example.com")
	p2 := seedProfile(t, db, "p2@example.com")
	recUser, _ := seedRecruiter(t, db, "rec@example.com")

	docs, err := repo.NewDocumentRepo(db).InsertBatch(context.Background(), []domain.ProviderDocument{{
		ProviderID:   p1.ID,
		DocumentType: "license",
		FileURL:      "https://cdn.example.com/license.pdf",
	}})
	require.NoError(t, err)

	// 拿别人的 provider id 删不到
	err = svc.Delete(context.Background(), claimsFor(recUser.ID.String(), domain.RoleRecruiter), p2.ID, docs[0].ID)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apperr.CodeDocumentNotFound, ae.Code)

	// 外链文档（无 StorageKey）正常删
	err = svc.Delete(context.Background(), claimsFor(recUser.ID.String(), domain.RoleRecruiter), p1.ID, docs[0].ID)
	require.NoError(t, err)
}

func TestDeleteDocumentMissing(t *testing.T) {
	svc, db, _ := newDocumentService(t)
	p := seedProfile(t, db, "prov@example.com")

	err := svc.Delete(context.Background(), claimsFor(uuid.NewString()), p.ID, uuid.New())
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apperr.CodeDocumentNotFound, ae.Code)
}

func TestInsertBatchEmptyIsNoop(t *testing.T) {
	_, db, _ := newDocumentService(t)
	out, err := repo.NewDocumentRepo(db).InsertBatch(context.Background(), nil)
	require.NoError(t, err)
	require.NotNil(t, out)
	require.Empty(t, out)
}

func TestListDocumentsUnknownProfile(t *testing.T) {
	svc, _, _ := newDocumentService(t)
	_, err := svc.List(context.Background(), uuid.New())
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apperr.CodeProfileNotFound, ae.Code)
}
