package services

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"github.com/wdg-platform/filestore/internal/repositories"
	"github.com/wdg-platform/filestore/internal/storage"
)

// DeleteService removes a stored object and its metadata record. The order
// is strict: the object must be confirmed gone from storage before the
// record is touched. A crash in between leaves an orphaned object with
// metadata, which is detectable and re-deletable, instead of an invisible
// storage leak.
type DeleteService struct {
	store  storage.ObjectStorage
	repo   repositories.FileMetadataStore
	bucket string
}

func NewDeleteService(store storage.ObjectStorage, repo repositories.FileMetadataStore, opts Options) *DeleteService {
	return &DeleteService{store: store, repo: repo, bucket: opts.Bucket}
}

// DeleteFile looks the record up by id and object key, deletes the object
// from storage, and only then soft-deletes the record.
func (s *DeleteService) DeleteFile(ctx context.Context, id uuid.UUID, objectKey string) error {
	if objectKey == "" {
		return newValidationError("object key is required")
	}

	record, err := s.repo.GetByIDAndKey(ctx, id, objectKey)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return &NotFoundError{ID: id, ObjectKey: objectKey}
		}
		return err
	}

	if err := s.store.DeleteObject(ctx, s.bucket, record.ObjectKey); err != nil {
		// Metadata stays untouched so the delete can be retried.
		return err
	}

	if err := s.repo.SoftDelete(ctx, record.ID); err != nil {
		// The object is already gone; log loudly, the record now points at
		// nothing and needs a retried metadata delete.
		log.Printf("object %s deleted but metadata soft-delete failed: %v", record.ObjectKey, err)
		return err
	}
	return nil
}
