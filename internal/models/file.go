package models

import (
	"time"

	"github.com/google/uuid"
)

// Storage providers a record's object may live on.
const (
	StorageProviderS3 = "S3"
)

// Upload lifecycle states. A record only ever moves PENDING -> UPLOADED
// or PENDING -> FAILED.
const (
	UploadStatusPending  = "PENDING"
	UploadStatusUploaded = "UPLOADED"
	UploadStatusFailed   = "FAILED"
)

// FileRecord tracks one stored object and its owning application entity.
// FileID is the natural key: it stays stable while ObjectKey changes as the
// object moves from the staging zone to its permanent location.
type FileRecord struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	FileID           uuid.UUID `json:"fileId" gorm:"type:uuid;uniqueIndex;not null"`
	ObjectKey        string    `json:"objectKey" gorm:"size:1024;index"`
	OriginalFileName string    `json:"originalFileName" gorm:"size:255"`
	StoredFileName   string    `json:"storedFileName" gorm:"size:255"`
	ContentType      string    `json:"contentType" gorm:"size:255"`
	SizeBytes        int64     `json:"sizeBytes"`
	Description      string    `json:"description,omitempty" gorm:"type:text"`
	RefType          string    `json:"refType" gorm:"size:100;index:idx_file_storage_ref"`
	RefID            string    `json:"refId" gorm:"size:100;index:idx_file_storage_ref"`
	StorageProvider  string    `json:"storageProvider" gorm:"size:50;default:S3"`
	UploadStatus     string    `json:"uploadStatus" gorm:"size:50;default:PENDING"`
	Deleted          bool      `json:"deleted" gorm:"default:false"`
	CreatedBy        string    `json:"createdBy,omitempty" gorm:"size:100"`
	CompanyID        string    `json:"companyId,omitempty" gorm:"size:100"`
	CreatedAt        time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt        time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (FileRecord) TableName() string {
	return "file_storage"
}
