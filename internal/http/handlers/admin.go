package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/crownhub/crowns-be/internal/http/respond"
	"github.com/crownhub/crowns-be/internal/service"
)

// AdminHandler serves the review queue and data exports.
type AdminHandler struct {
	admission *service.AdmissionController
	export    *service.ExportService
	log       logrus.FieldLogger
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(admission *service.AdmissionController, export *service.ExportService, log logrus.FieldLogger) *AdminHandler {
	return &AdminHandler{admission: admission, export: export, log: log}
}

// Register attaches admin routes; mount behind the admin key middleware.
func (h *AdminHandler) Register(r chi.Router) {
	r.Get("/pending", h.handlePending)
	r.Post("/creators/{id}/approve", h.handleApprove)
	r.Get("/export/{collection}", h.handleExport)
}

func (h *AdminHandler) handlePending(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.admission.PendingReviews(r.Context())
	if err != nil {
		respondServiceError(w, h.log, err, "list pending reviews")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", reviews)
}

func (h *AdminHandler) handleApprove(w http.ResponseWriter, r *http.Request) {
	acct, err := h.admission.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, h.log, err, "approve creator")
		return
	}
	respond.JSON(w, http.StatusOK, "creator approved", acct)
}

func (h *AdminHandler) handleExport(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	body, err := h.export.CSV(r.Context(), collection)
	if err != nil {
		respondServiceError(w, h.log, err, "export "+collection)
		return
	}
	respond.CSV(w, collection+".csv", body)
}
