package service

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"path"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-service-market/internal/apperr"
	"go-service-market/internal/core/auth"
	"go-service-market/internal/domain"
	"go-service-market/internal/repo"
	"go-service-market/internal/storage"
)

type DocumentService struct {
	db          *gorm.DB
	store       storage.Store
	log         *zap.Logger
	maxUploadMB int64
}

func NewDocumentService(db *gorm.DB, store storage.Store, log *zap.Logger, maxUploadMB int64) *DocumentService {
	return &DocumentService{db: db, store: store, log: log, maxUploadMB: maxUploadMB}
}

// requireProfile 画像必须存在且未归档
func (s *DocumentService) requireProfile(ctx context.Context, providerID uuid.UUID) (*domain.ProviderProfile, error) {
	p, err := repo.NewProfileRepo(s.db).FindByID(ctx, providerID)
	if err != nil {
		return nil, apperr.Internal("lookup profile failed", err)
	}
	if p == nil || p.ArchivedAt != nil {
		return nil, apperr.NotFound(apperr.CodeProfileNotFound, "provider profile not found")
	}
	return p, nil
}

// actingRecruiter 操作者对应的猎头行；管理员没有猎头行时返回 nil
func (s *DocumentService) actingRecruiter(ctx context.Context, claims *auth.Claims) (*domain.Recruiter, error) {
	uid, err := uuid.Parse(claims.UID)
	if err != nil {
		return nil, apperr.Unauthorized(apperr.CodeInvalidToken, "invalid token subject")
	}
	rec, err := repo.NewRecruiterRepo(s.db).FindByUserID(ctx, uid)
	if err != nil {
		return nil, apperr.Internal("lookup recruiter failed", err)
	}
	return rec, nil
}

// Upload 先写对象存储再落元数据。元数据写失败时对象不回收，
// 残留文件靠离线清理任务兜底。
func (s *DocumentService) Upload(ctx context.Context, claims *auth.Claims, providerID uuid.UUID, docType string, fh *multipart.FileHeader) (*domain.ProviderDocument, error) {
	if _, err := s.requireProfile(ctx, providerID); err != nil {
		return nil, err
	}
	if docType == "" {
		return nil, apperr.BadRequest("documentType is required")
	}
	// uploaded_by 外键指向猎头行，入库前先解析操作者
	rec, err := s.actingRecruiter(ctx, claims)
	if err != nil {
		return nil, err
	}
	if s.maxUploadMB > 0 && fh.Size > s.maxUploadMB<<20 {
		return nil, apperr.BadRequest("file exceeds upload size limit")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apperr.BadRequest("unreadable upload")
	}
	defer f.Close()

	key := storage.ObjectKey("providers/"+providerID.String(), fh.Filename)
	obj, err := s.store.Save(ctx, key, io.Reader(f), fh.Size, fh.Header.Get("Content-Type"))
	if err != nil {
		return nil, apperr.Internal("store file failed", err)
	}

	doc := domain.ProviderDocument{
		ProviderID:   providerID,
		DocumentType: docType,
		StorageKey:   obj.Key,
		FileURL:      obj.URL,
		FileName:     path.Base(fh.Filename),
		MimeType:     fh.Header.Get("Content-Type"),
		FileSize:     obj.Size,
	}
	if rec != nil {
		doc.UploadedBy = &rec.ID
	}
	if err := s.db.WithContext(ctx).Create(&doc).Error; err != nil {
		s.log.Warn("document metadata insert failed, stored object orphaned",
			zap.String("key", obj.Key), zap.Error(err))
		return nil, apperr.Internal("save document failed", err)
	}

	s.appendUploadEvent(ctx, rec, providerID, &doc)
	return &doc, nil
}

func (s *DocumentService) List(ctx context.Context, providerID uuid.UUID) ([]domain.ProviderDocument, error) {
	if _, err := s.requireProfile(ctx, providerID); err != nil {
		return nil, err
	}
	docs, err := repo.NewDocumentRepo(s.db).ListByProvider(ctx, providerID)
	if err != nil {
		return nil, apperr.Internal("list documents failed", err)
	}
	return docs, nil
}

// Delete 先删行再删对象；StorageKey 为空说明是外链，只删行
func (s *DocumentService) Delete(ctx context.Context, claims *auth.Claims, providerID, docID uuid.UUID) error {
	if _, err := s.requireProfile(ctx, providerID); err != nil {
		return err
	}
	doc, err := repo.NewDocumentRepo(s.db).DeleteScoped(ctx, providerID, docID)
	if err != nil {
		return apperr.Internal("delete document failed", err)
	}
	if doc == nil {
		return apperr.NotFound(apperr.CodeDocumentNotFound, "document not found")
	}
	if doc.StorageKey != "" {
		if err := s.store.Delete(ctx, doc.StorageKey); err != nil {
			// 行已删，对象删除失败只记日志
			s.log.Warn("stored object delete failed", zap.String("key", doc.StorageKey), zap.Error(err))
		}
	}

	// 审计事件只是旁路，解析失败不影响删除结果
	rec, _ := s.actingRecruiter(ctx, claims)
	s.appendDocEvent(ctx, rec, providerID, domain.EventDocumentDeleted, map[string]any{
		"documentId": docID.String(),
		"fileName":   doc.FileName,
	})
	return nil
}

func (s *DocumentService) appendUploadEvent(ctx context.Context, rec *domain.Recruiter, providerID uuid.UUID, doc *domain.ProviderDocument) {
	s.appendDocEvent(ctx, rec, providerID, domain.EventDocumentUploaded, map[string]any{
		"documentId":   doc.ID.String(),
		"documentType": doc.DocumentType,
		"fileName":     doc.FileName,
	})
}

// appendDocEvent 审计事件挂在操作者的猎头行上；操作者不是猎头就跳过
func (s *DocumentService) appendDocEvent(ctx context.Context, rec *domain.Recruiter, providerID uuid.UUID, eventType string, fields map[string]any) {
	if rec == nil {
		return
	}
	fields["providerId"] = providerID.String()
	meta, _ := json.Marshal(fields)
	if err := repo.NewEventRepo(s.db).Append(ctx, &domain.RecruiterEvent{
		RecruiterID: rec.ID,
		EventType:   eventType,
		Metadata:    meta,
	}); err != nil {
		s.log.Warn("append audit event failed", zap.Error(err))
	}
}
