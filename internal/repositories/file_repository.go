package repositories

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wdg-platform/filestore/internal/models"
)

// UpsertResult tags what happened to one record during an upsert.
type UpsertResult string

const (
	UpsertCreated UpsertResult = "CREATED"
	UpsertUpdated UpsertResult = "UPDATED"
)

// FileUpdate is one upsert payload: the natural key plus the columns to set.
// Fields are validated against the table schema before anything is written.
type FileUpdate struct {
	FileID uuid.UUID
	Fields map[string]any
}

// ConflictError reports an upsert payload that does not fit the metadata
// schema. It names every offending field so the caller can fix its payload.
type ConflictError struct {
	Fields []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("metadata conflict: unknown fields: %s", strings.Join(e.Fields, ", "))
}

// ErrRecordNotFound is returned when a lookup matches no row.
var ErrRecordNotFound = gorm.ErrRecordNotFound

// FileMetadataStore is the repository contract for file records. Every
// multi-row mutation runs inside a single transaction.
type FileMetadataStore interface {
	BulkCreate(ctx context.Context, records []*models.FileRecord) error
	UpsertByFileID(ctx context.Context, updates []FileUpdate) (map[uuid.UUID]UpsertResult, error)
	FindByReference(ctx context.Context, refType, refID string, includeDeleted bool) ([]models.FileRecord, error)
	GetByIDAndKey(ctx context.Context, id uuid.UUID, objectKey string) (models.FileRecord, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// Columns an upsert payload is allowed to touch. The primary key and the
// timestamp columns are managed by the store itself.
var upsertableColumns = map[string]bool{
	"file_id":            true,
	"object_key":         true,
	"original_file_name": true,
	"stored_file_name":   true,
	"content_type":       true,
	"size_bytes":         true,
	"description":        true,
	"ref_type":           true,
	"ref_id":             true,
	"storage_provider":   true,
	"upload_status":      true,
	"deleted":            true,
	"created_by":         true,
	"company_id":         true,
}

type fileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) FileMetadataStore {
	return &fileRepository{db: db}
}

// BulkCreate inserts all records in one transaction; on any failure nothing
// is persisted.
func (r *fileRepository) BulkCreate(ctx context.Context, records []*models.FileRecord) error {
	if len(records) == 0 {
		return errors.New("no records to create")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&records).Error
	})
}

// UpsertByFileID partitions the payloads into updates (file_id already
// present) and creates, and applies both sets inside one transaction. The
// returned map tags each file_id with what happened to it.
func (r *fileRepository) UpsertByFileID(ctx context.Context, updates []FileUpdate) (map[uuid.UUID]UpsertResult, error) {
	if len(updates) == 0 {
		return nil, errors.New("no records to upsert")
	}
	if err := validateUpsertFields(updates); err != nil {
		return nil, err
	}

	fileIDs := make([]uuid.UUID, 0, len(updates))
	for _, u := range updates {
		fileIDs = append(fileIDs, u.FileID)
	}

	outcome := make(map[uuid.UUID]UpsertResult, len(updates))
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []models.FileRecord
		if err := tx.Where("file_id IN ?", fileIDs).Find(&existing).Error; err != nil {
			return err
		}
		known := make(map[uuid.UUID]bool, len(existing))
		for _, rec := range existing {
			known[rec.FileID] = true
		}

		for _, u := range updates {
			if known[u.FileID] {
				res := tx.Model(&models.FileRecord{}).
					Where("file_id = ?", u.FileID).
					Updates(u.Fields)
				if res.Error != nil {
					return res.Error
				}
				outcome[u.FileID] = UpsertUpdated
				continue
			}

			fields := make(map[string]any, len(u.Fields)+1)
			for k, v := range u.Fields {
				fields[k] = v
			}
			fields["file_id"] = u.FileID
			if err := tx.Model(&models.FileRecord{}).Create(fields).Error; err != nil {
				return err
			}
			outcome[u.FileID] = UpsertCreated
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

func (r *fileRepository) FindByReference(ctx context.Context, refType, refID string, includeDeleted bool) ([]models.FileRecord, error) {
	q := r.db.WithContext(ctx).
		Where("ref_type = ? AND ref_id = ?", refType, refID).
		Order("created_at ASC")
	if !includeDeleted {
		q = q.Where("deleted = ?", false)
	}

	var records []models.FileRecord
	if err := q.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *fileRepository) GetByIDAndKey(ctx context.Context, id uuid.UUID, objectKey string) (models.FileRecord, error) {
	var record models.FileRecord
	err := r.db.WithContext(ctx).
		Where("id = ? AND object_key = ? AND deleted = ?", id, objectKey, false).
		First(&record).Error
	return record, err
}

// SoftDelete flags the record as deleted. Callers sequence this after the
// storage-side object is confirmed gone.
func (r *fileRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.FileRecord{}).
		Where("id = ?", id).
		Update("deleted", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// validateUpsertFields rejects any payload naming a column the schema does
// not allow an upsert to touch.
func validateUpsertFields(updates []FileUpdate) error {
	seen := map[string]bool{}
	for _, u := range updates {
		for field := range u.Fields {
			if !upsertableColumns[field] {
				seen[field] = true
			}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	offending := make([]string, 0, len(seen))
	for field := range seen {
		offending = append(offending, field)
	}
	sort.Strings(offending)
	return &ConflictError{Fields: offending}
}
