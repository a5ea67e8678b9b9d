package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/wdg-platform/filestore/internal/models"
	"github.com/wdg-platform/filestore/internal/repositories"
	"github.com/wdg-platform/filestore/internal/storage"
)

// Options carries the workflow configuration; it is passed explicitly at
// construction so the services hold no ambient global state.
type Options struct {
	Bucket        string
	DefaultExpiry time.Duration
	DefaultTenant string
	DefaultModule string
}

// FileDescriptor describes one file a client wants an upload URL for.
type FileDescriptor struct {
	OriginalFileName string
	SizeBytes        int64
	ContentType      string
	Description      string
}

// UploadRequest asks for presigned upload URLs for a batch of files that all
// share one owning reference.
type UploadRequest struct {
	Files     []FileDescriptor
	RefType   string
	RefID     string
	Tenant    string
	Module    string
	Expiry    time.Duration
	CreatedBy string
	CompanyID string
}

// UploadURLItem is the per-file response to an upload-URL request.
type UploadURLItem struct {
	FileID           uuid.UUID `json:"fileId"`
	ObjectKey        string    `json:"objectKey"`
	StoredFileName   string    `json:"storedFileName"`
	OriginalFileName string    `json:"originalFileName"`
	SizeBytes        int64     `json:"sizeBytes"`
	ContentType      string    `json:"contentType"`
	UploadURL        string    `json:"uploadUrl"`
	StorageProvider  string    `json:"storageProvider"`
}

// FinalizeFile identifies one staged object the client has finished
// uploading.
type FinalizeFile struct {
	FileID      uuid.UUID
	ObjectKey   string
	SizeBytes   int64
	ContentType string
}

// FinalizeRequest promotes a batch of staged objects and marks their records
// uploaded.
type FinalizeRequest struct {
	Files   []FinalizeFile
	RefType string
	RefID   string
	Tenant  string
	Module  string
}

// UploadService orchestrates the two-phase upload lifecycle: issue presigned
// URLs against the staging zone with optimistic PENDING pre-registration,
// then promote staged objects to the permanent zone and flip their records
// to UPLOADED.
type UploadService struct {
	store    storage.ObjectStorage
	keys     *storage.KeyBuilder
	promoter *storage.Promoter
	repo     repositories.FileMetadataStore
	opts     Options
}

func NewUploadService(store storage.ObjectStorage, repo repositories.FileMetadataStore, opts Options) *UploadService {
	return &UploadService{
		store:    store,
		keys:     storage.NewKeyBuilder(),
		promoter: storage.NewPromoter(store),
		repo:     repo,
		opts:     opts,
	}
}

// RequestUploadURLs builds a staging-zone key and a presigned PUT URL per
// file, then pre-registers all records as PENDING in one transaction. If any
// URL issuance fails the whole batch is aborted and nothing is persisted.
func (s *UploadService) RequestUploadURLs(ctx context.Context, req UploadRequest) ([]UploadURLItem, error) {
	if len(req.Files) == 0 {
		return nil, newValidationError("no files provided")
	}
	for i, f := range req.Files {
		if f.OriginalFileName == "" {
			return nil, newValidationError("file %d: original file name is required", i)
		}
		if f.SizeBytes <= 0 {
			return nil, newValidationError("file %q: size must be positive", f.OriginalFileName)
		}
		if f.ContentType == "" {
			return nil, newValidationError("file %q: content type is required", f.OriginalFileName)
		}
	}

	tenant, module := s.tenantModule(req.Tenant, req.Module)
	expiry := req.Expiry
	if expiry <= 0 {
		expiry = s.opts.DefaultExpiry
	}

	items := make([]UploadURLItem, len(req.Files))

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range req.Files {
		i, f := i, f
		g.Go(func() error {
			key, storedName, err := s.keys.BuildKey(storage.ZoneTemp, tenant, module, f.OriginalFileName)
			if err != nil {
				return err
			}
			url, err := s.store.GenerateUploadURL(gctx, key, f.SizeBytes, f.ContentType, expiry)
			if err != nil {
				return err
			}
			items[i] = UploadURLItem{
				FileID:           uuid.New(),
				ObjectKey:        key,
				StoredFileName:   storedName,
				OriginalFileName: f.OriginalFileName,
				SizeBytes:        f.SizeBytes,
				ContentType:      f.ContentType,
				UploadURL:        url,
				StorageProvider:  models.StorageProviderS3,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	records := make([]*models.FileRecord, len(items))
	for i, item := range items {
		records[i] = &models.FileRecord{
			FileID:           item.FileID,
			ObjectKey:        item.ObjectKey,
			OriginalFileName: item.OriginalFileName,
			StoredFileName:   item.StoredFileName,
			ContentType:      item.ContentType,
			SizeBytes:        item.SizeBytes,
			Description:      req.Files[i].Description,
			RefType:          req.RefType,
			RefID:            req.RefID,
			StorageProvider:  models.StorageProviderS3,
			UploadStatus:     models.UploadStatusPending,
			CreatedBy:        req.CreatedBy,
			CompanyID:        req.CompanyID,
		}
	}
	if err := s.repo.BulkCreate(ctx, records); err != nil {
		return nil, err
	}

	return items, nil
}

// FinalizeUpload promotes each staged object to the permanent zone and marks
// the matching record UPLOADED. Promotion outcomes are reported per file; a
// mix of successes and failures comes back as a PartialBatchError, never as a
// single boolean.
func (s *UploadService) FinalizeUpload(ctx context.Context, req FinalizeRequest) ([]FileResult, error) {
	if len(req.Files) == 0 {
		return nil, newValidationError("no files provided")
	}

	tenant, module := s.tenantModule(req.Tenant, req.Module)
	srcPrefix := storage.ZonePrefix(storage.ZoneTemp, tenant, module)
	dstPrefix := storage.ZonePrefix(storage.ZonePermanent, tenant, module)

	names := make([]string, len(req.Files))
	for i, f := range req.Files {
		if f.FileID == uuid.Nil {
			return nil, newValidationError("file %d: fileId is required", i)
		}
		if !strings.HasPrefix(f.ObjectKey, srcPrefix) {
			return nil, newValidationError("file %q: key is not rooted at %q", f.ObjectKey, srcPrefix)
		}
		names[i] = storage.LastSegment(f.ObjectKey)
	}

	promoted := s.promoter.Promote(ctx, s.opts.Bucket, srcPrefix, dstPrefix, names)

	results := make([]FileResult, len(req.Files))
	var updates []repositories.FileUpdate
	failed := 0
	for i, f := range req.Files {
		res := promoted[i]
		if res.Err != nil {
			failed++
			results[i] = FileResult{
				FileID:    f.FileID,
				ObjectKey: f.ObjectKey,
				Status:    models.UploadStatusFailed,
				Error:     res.Err.Error(),
			}
			continue
		}
		results[i] = FileResult{
			FileID:    f.FileID,
			ObjectKey: res.DestKey,
			Status:    models.UploadStatusUploaded,
		}
		updates = append(updates, repositories.FileUpdate{
			FileID: f.FileID,
			Fields: map[string]any{
				"object_key":       res.DestKey,
				"stored_file_name": res.Name,
				"size_bytes":       f.SizeBytes,
				"content_type":     f.ContentType,
				"ref_type":         req.RefType,
				"ref_id":           req.RefID,
				"upload_status":    models.UploadStatusUploaded,
			},
		})
	}

	if len(updates) > 0 {
		if _, err := s.repo.UpsertByFileID(ctx, updates); err != nil {
			return results, err
		}
	}

	if failed > 0 {
		return results, &PartialBatchError{Results: results}
	}
	return results, nil
}

// IssueDownloadURL mints a presigned GET URL, defaulting bucket and expiry
// from configuration when the caller omits them.
func (s *UploadService) IssueDownloadURL(ctx context.Context, key, bucket string, expiry time.Duration) (string, error) {
	if key == "" {
		return "", newValidationError("object key is required")
	}
	if expiry <= 0 {
		expiry = s.opts.DefaultExpiry
	}
	return s.store.GenerateDownloadURL(ctx, bucket, key, expiry)
}

// IssueDeleteURL mints a presigned DELETE URL for key.
func (s *UploadService) IssueDeleteURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if key == "" {
		return "", newValidationError("object key is required")
	}
	if expiry <= 0 {
		expiry = s.opts.DefaultExpiry
	}
	return s.store.GenerateDeleteURL(ctx, key, expiry)
}

// ListByReference returns all non-deleted records owned by the given
// application entity, oldest first.
func (s *UploadService) ListByReference(ctx context.Context, refType, refID string) ([]models.FileRecord, error) {
	if refType == "" {
		return nil, newValidationError("refType is required")
	}
	return s.repo.FindByReference(ctx, refType, refID, false)
}

func (s *UploadService) tenantModule(tenant, module string) (string, string) {
	if tenant == "" {
		tenant = s.opts.DefaultTenant
	}
	if module == "" {
		module = s.opts.DefaultModule
	}
	return tenant, module
}
