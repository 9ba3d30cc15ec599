package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go-arsip/internal/model"
	"go-arsip/internal/pkg/auth"
	"go-arsip/internal/pkg/clientinfo"
	"go-arsip/internal/pkg/httputils"
	"go-arsip/internal/service"

	"github.com/gorilla/mux"
)

// Расширения, которые безопасно отдавать inline для предпросмотра
var previewableExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".pdf":  true,
	".txt":  true,
}

const maxUploadMemory = 32 << 20 // 32 MB в памяти, остальное на диск

type FileHandler struct {
	fileService     service.FileService
	activityService service.ActivityService
}

func NewFileHandler(fileService service.FileService, activityService service.ActivityService) *FileHandler {
	return &FileHandler{
		fileService:     fileService,
		activityService: activityService,
	}
}

func (h *FileHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/files", h.uploadFile).Methods("POST", "OPTIONS")
	router.HandleFunc("/files", h.listFiles).Methods("GET", "OPTIONS")
	router.HandleFunc("/files/{id}", h.getFile).Methods("GET", "OPTIONS")
	router.HandleFunc("/files/{id}", h.updateFile).Methods("PUT", "OPTIONS")
	router.HandleFunc("/files/{id}", h.deleteFile).Methods("DELETE", "OPTIONS")
	router.HandleFunc("/files/{id}/download", h.downloadFile).Methods("GET", "OPTIONS")
	router.HandleFunc("/files/{id}/preview", h.previewFile).Methods("GET", "OPTIONS")
	router.HandleFunc("/files/{id}/view", h.viewFile).Methods("POST", "OPTIONS")
	router.HandleFunc("/files/{id}/activities", h.fileActivities).Methods("GET", "OPTIONS")
}

// @Summary Upload file
// @Description Upload a file with metadata
// @ID upload-file
// @Accept mpfd
// @Produce json
// @Success 201 {object} model.FileRecord
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Param file formData file true "File content"
// @Param description formData string false "Description"
// @Param tags formData string false "Comma-separated tags"
// @Param category formData string false "Category name"
// @Router /files [post]
func (h *FileHandler) uploadFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	performer := currentPerformer(r)

	record, err := h.fileService.Upload(r.Context(), file, header.Size,
		header.Filename, performer,
		r.FormValue("description"), r.FormValue("tags"), r.FormValue("category"),
		header.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, service.ErrEmptyFile) {
			httputils.ResponseError(w, http.StatusBadRequest, "File is empty")
			return
		}
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to upload file")
		return
	}

	httputils.ResponseJSON(w, http.StatusCreated, record)
}

// @Summary List files
// @Description List active files, optionally filtered by search term, category and upload date range
// @ID list-files
// @Produce json
// @Success 200 {object} []model.FileRecord
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Param q query string false "Search term (name, description, tags)"
// @Param category query string false "Category name"
// @Param from query string false "Uploaded from (YYYY-MM-DD)"
// @Param to query string false "Uploaded to (YYYY-MM-DD)"
// @Router /files [get]
func (h *FileHandler) listFiles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	from, err := parseDateParam(query.Get("from"))
	if err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "Invalid 'from' date, expected YYYY-MM-DD")
		return
	}
	to, err := parseDateParam(query.Get("to"))
	if err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "Invalid 'to' date, expected YYYY-MM-DD")
		return
	}

	var records []*model.FileRecord
	if query.Get("q") == "" && query.Get("category") == "" && from == nil && to == nil {
		records, err = h.fileService.ListAll(r.Context())
	} else {
		records, err = h.fileService.Search(r.Context(), query.Get("q"), query.Get("category"), from, to)
	}
	if err != nil {
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to list files")
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, records)
}

// @Summary Get file
// @Description Get file metadata by id
// @ID get-file
// @Produce json
// @Success 200 {object} model.FileRecord
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Param id path int true "File ID"
// @Router /files/{id} [get]
func (h *FileHandler) getFile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	record, err := h.fileService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			httputils.ResponseError(w, http.StatusNotFound, "File not found")
			return
		}
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to load file")
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, record)
}

type UpdateFileRequest struct {
	Description string `json:"description"`
	Tags        string `json:"tags"`
	Category    string `json:"category"`
	IsPublic    bool   `json:"is_public"`
}

// @Summary Update file metadata
// @Description Update description, tags, category and visibility of a file
// @ID update-file
// @Accept json
// @Produce json
// @Success 200 {object} model.FileRecord
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Param id path int true "File ID"
// @Param updateData body UpdateFileRequest true "Fields to update"
// @Router /files/{id} [put]
func (h *FileHandler) updateFile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var request UpdateFileRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	r.Body.Close()

	record, err := h.fileService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			httputils.ResponseError(w, http.StatusNotFound, "File not found")
			return
		}
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to load file")
		return
	}

	record.Description = request.Description
	record.Tags = request.Tags
	if request.Category != "" {
		record.Category = request.Category
	}
	record.IsPublic = request.IsPublic
	record.ModifiedBy = currentPerformer(r)

	record, err = h.fileService.Update(r.Context(), record)
	if err != nil {
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to update file")
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, record)
}

type DeleteFileResponse struct {
	Deleted bool `json:"deleted"`
}

// @Summary Delete file
// @Description Soft-delete a file and schedule its content for removal
// @ID delete-file
// @Produce json
// @Success 200 {object} DeleteFileResponse
// @Failure 500 {object} response.ErrorResponse
// @Param id path int true "File ID"
// @Router /files/{id} [delete]
func (h *FileHandler) deleteFile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	deleted, err := h.fileService.Delete(r.Context(), id, currentPerformer(r),
		clientinfo.IP(r), clientinfo.UserAgent(r))
	if err != nil {
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to delete file")
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, DeleteFileResponse{Deleted: deleted})
}

// @Summary Download file
// @Description Download file content as attachment
// @ID download-file
// @Produce octet-stream
// @Success 200 {file} binary
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Param id path int true "File ID"
// @Router /files/{id}/download [get]
func (h *FileHandler) downloadFile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	record, content, err := h.fileService.Download(r.Context(), id, currentPerformer(r),
		clientinfo.IP(r), clientinfo.UserAgent(r))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			httputils.ResponseError(w, http.StatusNotFound, "File not found")
			return
		}
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to download file")
		return
	}
	defer content.Close()

	w.Header().Set("Content-Type", record.MimeType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", record.OriginalFileName))
	w.Header().Set("Content-Length", strconv.FormatInt(record.FileSize, 10))

	io.Copy(w, content)
}

// @Summary Preview file
// @Description Serve file content inline for previewable types
// @ID preview-file
// @Produce octet-stream
// @Success 200 {file} binary
// @Failure 404 {object} response.ErrorResponse
// @Failure 415 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Param id path int true "File ID"
// @Router /files/{id}/preview [get]
func (h *FileHandler) previewFile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	record, content, err := h.fileService.Open(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			httputils.ResponseError(w, http.StatusNotFound, "File not found")
			return
		}
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to open file")
		return
	}
	defer content.Close()

	if !previewableExtensions[record.FileExtension] {
		httputils.ResponseError(w, http.StatusUnsupportedMediaType, "File type is not previewable")
		return
	}

	w.Header().Set("Content-Type", record.MimeType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("inline; filename=%q", record.OriginalFileName))
	w.Header().Set("Cache-Control", "public, max-age=3600")

	io.Copy(w, content)
}

// @Summary Record view
// @Description Log a View activity for a file without serving its content
// @ID view-file
// @Produce json
// @Success 204 "No Content"
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Param id path int true "File ID"
// @Router /files/{id}/view [post]
func (h *FileHandler) viewFile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	record, err := h.fileService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			httputils.ResponseError(w, http.StatusNotFound, "File not found")
			return
		}
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to load file")
		return
	}

	err = h.activityService.Log(r.Context(), record.ID, model.ActivityView, currentPerformer(r),
		fmt.Sprintf("File '%s' viewed", record.OriginalFileName),
		clientinfo.IP(r), clientinfo.UserAgent(r))
	if err != nil {
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to record view")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary File activities
// @Description List the activity history of a single file, newest first
// @ID file-activities
// @Produce json
// @Success 200 {object} []model.FileActivity
// @Failure 500 {object} response.ErrorResponse
// @Param id path int true "File ID"
// @Router /files/{id}/activities [get]
func (h *FileHandler) fileActivities(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	activities, err := h.activityService.GetByFile(r.Context(), id)
	if err != nil {
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to load file activities")
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, activities)
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil || id < 1 {
		httputils.ResponseError(w, http.StatusBadRequest, "Failed to parse file ID")
		return 0, false
	}
	return uint(id), true
}

// currentPerformer берёт email из bearer-токена; анонимные запросы
// подписываются как Anonymous
func currentPerformer(r *http.Request) string {
	identity, err := auth.CurrentIdentity(r)
	if err != nil {
		return "Anonymous"
	}
	return identity
}

func parseDateParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
