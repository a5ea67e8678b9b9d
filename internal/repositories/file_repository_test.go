package repositories

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestValidateUpsertFieldsAcceptsSchemaColumns(t *testing.T) {
	err := validateUpsertFields([]FileUpdate{{
		FileID: uuid.New(),
		Fields: map[string]any{
			"object_key":    "uploaded/public/generic/a.pdf",
			"upload_status": "UPLOADED",
			"size_bytes":    int64(10),
		},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateUpsertFieldsRejectsUnknownColumns(t *testing.T) {
	err := validateUpsertFields([]FileUpdate{
		{
			FileID: uuid.New(),
			Fields: map[string]any{"object_key": "a", "thumbnail_url": "t.png"},
		},
		{
			FileID: uuid.New(),
			Fields: map[string]any{"checksum": "abc"},
		},
	})

	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if len(conflict.Fields) != 2 {
		t.Fatalf("expected both offending fields reported, got %v", conflict.Fields)
	}
	// Sorted, so the report is stable across runs.
	if conflict.Fields[0] != "checksum" || conflict.Fields[1] != "thumbnail_url" {
		t.Fatalf("unexpected field report: %v", conflict.Fields)
	}
}

func TestValidateUpsertFieldsRejectsManagedColumns(t *testing.T) {
	err := validateUpsertFields([]FileUpdate{{
		FileID: uuid.New(),
		Fields: map[string]any{"id": uuid.New(), "created_at": "now"},
	}})
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError for managed columns, got %v", err)
	}
}
