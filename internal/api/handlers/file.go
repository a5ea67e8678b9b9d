package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/wdg-platform/filestore/internal/api/middleware"
	"github.com/wdg-platform/filestore/internal/repositories"
	"github.com/wdg-platform/filestore/internal/services"
	"github.com/wdg-platform/filestore/internal/storage"
	"github.com/wdg-platform/filestore/internal/utils"
)

// FileHandler exposes the file-storage workflows over HTTP.
type FileHandler struct {
	Uploads *services.UploadService
	Deletes *services.DeleteService
}

func NewFileHandler(uploads *services.UploadService, deletes *services.DeleteService) *FileHandler {
	return &FileHandler{Uploads: uploads, Deletes: deletes}
}

type fileDescriptorInput struct {
	OriginalFileName string `json:"originalFileName"`
	SizeBytes        int64  `json:"sizeBytes"`
	ContentType      string `json:"contentType"`
	Description      string `json:"description"`
}

type presignUploadInput struct {
	Files         []fileDescriptorInput `json:"files"`
	RefType       string                `json:"refType"`
	RefID         string                `json:"refId"`
	Tenant        string                `json:"tenant"`
	Module        string                `json:"module"`
	ExpirySeconds int                   `json:"expirySeconds"`
	CompanyID     string                `json:"companyId"`
}

// POST /files/presign-upload
// PresignUpload godoc
// @Summary Request presigned upload URLs
// @Description Builds a staging-zone key and presigned PUT URL per file and pre-registers PENDING metadata records.
// @Tags Files
// @Accept json
// @Produce json
// @Param request body presignUploadInput true "Files and owning reference"
// @Success 200 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Router /api/v1/files/presign-upload [post]
func (h *FileHandler) PresignUpload(w http.ResponseWriter, r *http.Request) {
	var input presignUploadInput
	if !decodeJSON(w, r, &input) {
		return
	}

	req := services.UploadRequest{
		RefType:   input.RefType,
		RefID:     input.RefID,
		Tenant:    input.Tenant,
		Module:    input.Module,
		Expiry:    time.Duration(input.ExpirySeconds) * time.Second,
		CreatedBy: callerID(r),
		CompanyID: input.CompanyID,
	}
	for _, f := range input.Files {
		req.Files = append(req.Files, services.FileDescriptor{
			OriginalFileName: f.OriginalFileName,
			SizeBytes:        f.SizeBytes,
			ContentType:      f.ContentType,
			Description:      f.Description,
		})
	}

	items, err := h.Uploads.RequestUploadURLs(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Upload URLs generated successfully",
		Data:    map[string]any{"files": items},
	})
}

type finalizeFileInput struct {
	FileID      uuid.UUID `json:"fileId"`
	ObjectKey   string    `json:"objectKey"`
	SizeBytes   int64     `json:"sizeBytes"`
	ContentType string    `json:"contentType"`
}

type finalizeUploadInput struct {
	Files   []finalizeFileInput `json:"files"`
	RefType string              `json:"refType"`
	RefID   string              `json:"refId"`
	Tenant  string              `json:"tenant"`
	Module  string              `json:"module"`
}

// POST /files/finalize
// FinalizeUpload godoc
// @Summary Finalize uploaded files
// @Description Promotes staged objects to the permanent zone and marks their records UPLOADED. Partial success is reported per file.
// @Tags Files
// @Accept json
// @Produce json
// @Param request body finalizeUploadInput true "Staged files to promote"
// @Success 200 {object} utils.Payload
// @Failure 207 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Router /api/v1/files/finalize [post]
func (h *FileHandler) FinalizeUpload(w http.ResponseWriter, r *http.Request) {
	var input finalizeUploadInput
	if !decodeJSON(w, r, &input) {
		return
	}

	req := services.FinalizeRequest{
		RefType: input.RefType,
		RefID:   input.RefID,
		Tenant:  input.Tenant,
		Module:  input.Module,
	}
	for _, f := range input.Files {
		req.Files = append(req.Files, services.FinalizeFile{
			FileID:      f.FileID,
			ObjectKey:   f.ObjectKey,
			SizeBytes:   f.SizeBytes,
			ContentType: f.ContentType,
		})
	}

	results, err := h.Uploads.FinalizeUpload(r.Context(), req)
	if err != nil {
		var partial *services.PartialBatchError
		if errors.As(err, &partial) {
			utils.JSONResponse(w, http.StatusMultiStatus, utils.Payload{
				Success: false,
				Message: "Some files could not be finalized",
				Data:    map[string]any{"files": partial.Results},
			})
			return
		}
		writeServiceError(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Files finalized successfully",
		Data:    map[string]any{"files": results},
	})
}

type downloadURLInput struct {
	ObjectKey     string `json:"objectKey"`
	BucketName    string `json:"bucketName"`
	ExpirySeconds int    `json:"expirySeconds"`
}

// POST /files/download-url
// DownloadURL godoc
// @Summary Generate a presigned download URL
// @Tags Files
// @Accept json
// @Produce json
// @Param request body downloadURLInput true "Object key, optional bucket and expiry"
// @Success 200 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Router /api/v1/files/download-url [post]
func (h *FileHandler) DownloadURL(w http.ResponseWriter, r *http.Request) {
	var input downloadURLInput
	if !decodeJSON(w, r, &input) {
		return
	}

	url, err := h.Uploads.IssueDownloadURL(r.Context(), input.ObjectKey, input.BucketName,
		time.Duration(input.ExpirySeconds)*time.Second)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Presigned download URL generated successfully",
		Data: map[string]any{
			"objectKey":    input.ObjectKey,
			"presignedUrl": url,
		},
	})
}

type deleteURLInput struct {
	ObjectKey     string `json:"objectKey"`
	ExpirySeconds int    `json:"expirySeconds"`
}

// POST /files/delete-url
// DeleteURL godoc
// @Summary Generate a presigned delete URL
// @Tags Files
// @Accept json
// @Produce json
// @Param request body deleteURLInput true "Object key and optional expiry"
// @Success 200 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Router /api/v1/files/delete-url [post]
func (h *FileHandler) DeleteURL(w http.ResponseWriter, r *http.Request) {
	var input deleteURLInput
	if !decodeJSON(w, r, &input) {
		return
	}

	url, err := h.Uploads.IssueDeleteURL(r.Context(), input.ObjectKey,
		time.Duration(input.ExpirySeconds)*time.Second)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Presigned delete URL generated successfully",
		Data: map[string]any{
			"objectKey":    input.ObjectKey,
			"presignedUrl": url,
		},
	})
}

// GET /files/by-ref?ref_type=invoice&ref_id=42
// ListByReference godoc
// @Summary List files by owning reference
// @Tags Files
// @Produce json
// @Param ref_type query string true "Reference type"
// @Param ref_id query string false "Reference id"
// @Success 200 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Router /api/v1/files/by-ref [get]
func (h *FileHandler) ListByReference(w http.ResponseWriter, r *http.Request) {
	refType := r.URL.Query().Get("ref_type")
	refID := r.URL.Query().Get("ref_id")

	records, err := h.Uploads.ListByReference(r.Context(), refType, refID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Files retrieved successfully",
		Data:    map[string]any{"files": records},
	})
}

type deleteFileInput struct {
	ID        uuid.UUID `json:"id"`
	ObjectKey string    `json:"objectKey"`
}

// DELETE /files
// DeleteFile godoc
// @Summary Delete a file and its metadata
// @Description Deletes the object from storage first; the metadata record is only removed after the object is confirmed gone.
// @Tags Files
// @Accept json
// @Produce json
// @Param request body deleteFileInput true "Record id and object key"
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/v1/files [delete]
func (h *FileHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	var input deleteFileInput
	if !decodeJSON(w, r, &input) {
		return
	}

	if err := h.Deletes.DeleteFile(r.Context(), input.ID, input.ObjectKey); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "File deleted successfully",
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid input",
		})
		return false
	}
	return true
}

func callerID(r *http.Request) string {
	if id, ok := r.Context().Value(middleware.CallerIDKey).(string); ok {
		return id
	}
	return ""
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var (
		validation *services.ValidationError
		notFound   *services.NotFoundError
		conflict   *repositories.ConflictError
		provider   *storage.ProviderError
	)

	switch {
	case errors.As(err, &validation):
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: validation.Message,
		})
	case errors.As(err, &notFound):
		utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
			Success: false,
			Message: "File not found",
		})
	case errors.As(err, &conflict):
		utils.JSONResponse(w, http.StatusConflict, utils.Payload{
			Success: false,
			Message: conflict.Error(),
		})
	case errors.As(err, &provider):
		utils.JSONResponse(w, http.StatusBadGateway, utils.Payload{
			Success: false,
			Message: "Storage provider request failed",
		})
	default:
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Internal server error",
		})
	}
}
