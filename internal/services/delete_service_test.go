package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wdg-platform/filestore/internal/models"
)

func seedRecord(repo *fakeRepo, objectKey string) *models.FileRecord {
	rec := &models.FileRecord{
		ID:           uuid.New(),
		FileID:       uuid.New(),
		ObjectKey:    objectKey,
		UploadStatus: models.UploadStatusUploaded,
		CreatedAt:    time.Now(),
	}
	repo.records[rec.FileID] = rec
	repo.order = append(repo.order, rec.FileID)
	return rec
}

func TestDeleteFileSuccess(t *testing.T) {
	store := newFakeStore()
	repo := newFakeRepo()
	svc := NewDeleteService(store, repo, testOptions())

	rec := seedRecord(repo, "uploaded/public/generic/a.pdf")
	store.put(rec.ObjectKey)

	if err := svc.DeleteFile(context.Background(), rec.ID, rec.ObjectKey); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.has(rec.ObjectKey) {
		t.Fatalf("object still present after delete")
	}
	if !repo.byFileID(rec.FileID).Deleted {
		t.Fatalf("record not soft-deleted")
	}
}

func TestDeleteFileStorageFailureLeavesMetadata(t *testing.T) {
	store := newFakeStore()
	repo := newFakeRepo()
	svc := NewDeleteService(store, repo, testOptions())

	rec := seedRecord(repo, "uploaded/public/generic/a.pdf")
	store.put(rec.ObjectKey)
	store.deleteErrOn = "a.pdf"

	if err := svc.DeleteFile(context.Background(), rec.ID, rec.ObjectKey); err == nil {
		t.Fatalf("expected storage failure")
	}
	if repo.byFileID(rec.FileID).Deleted {
		t.Fatalf("metadata deleted despite failed storage delete")
	}
}

func TestDeleteFileNotFound(t *testing.T) {
	svc := NewDeleteService(newFakeStore(), newFakeRepo(), testOptions())

	err := svc.DeleteFile(context.Background(), uuid.New(), "uploaded/public/generic/missing.pdf")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestDeleteFileRequiresKey(t *testing.T) {
	svc := NewDeleteService(newFakeStore(), newFakeRepo(), testOptions())

	err := svc.DeleteFile(context.Background(), uuid.New(), "")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
