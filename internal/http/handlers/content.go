package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/crownhub/crowns-be/internal/http/respond"
	"github.com/crownhub/crowns-be/internal/middleware"
	"github.com/crownhub/crowns-be/internal/service"
)

// ContentHandler accepts creator uploads and deletions.
type ContentHandler struct {
	content  *service.ContentService
	maxBytes int64
	log      logrus.FieldLogger
}

// NewContentHandler constructs the handler; uploads larger than maxBytes are refused.
func NewContentHandler(content *service.ContentService, maxBytes int64, log logrus.FieldLogger) *ContentHandler {
	return &ContentHandler{content: content, maxBytes: maxBytes, log: log}
}

// Register attaches content routes; callers must be authenticated.
func (h *ContentHandler) Register(r chi.Router) {
	r.Post("/content", h.handleUpload)
	r.Delete("/content/{id}", h.handleDelete)
}

func (h *ContentHandler) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respond.Error(w, http.StatusBadRequest, "expected a multipart upload within the size limit")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "select a file to upload")
		return
	}
	defer file.Close()

	item, err := h.content.Upload(r.Context(), middleware.PrincipalFrom(r.Context()), service.UploadInput{
		Filename:  header.Filename,
		MediaType: header.Header.Get("Content-Type"),
		Caption:   r.FormValue("caption"),
		Body:      file,
	})
	if err != nil {
		respondServiceError(w, h.log, err, "upload content")
		return
	}
	respond.JSON(w, http.StatusCreated, "content uploaded", item)
}

func (h *ContentHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	err := h.content.Delete(r.Context(), middleware.PrincipalFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, h.log, err, "delete content")
		return
	}
	respond.JSON(w, http.StatusOK, "content deleted", nil)
}
