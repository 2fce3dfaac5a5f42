package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/crownhub/crowns-be/internal/http/respond"
	"github.com/crownhub/crowns-be/internal/service"
)

// CreatorsHandler serves public creator browsing.
type CreatorsHandler struct {
	browse *service.BrowseService
	log    logrus.FieldLogger
}

// NewCreatorsHandler constructs the handler.
func NewCreatorsHandler(browse *service.BrowseService, log logrus.FieldLogger) *CreatorsHandler {
	return &CreatorsHandler{browse: browse, log: log}
}

// Register attaches browsing routes.
func (h *CreatorsHandler) Register(r chi.Router) {
	r.Get("/creators", h.handleLeaderboard)
	r.Get("/creators/{id}", h.handleProfile)
}

func (h *CreatorsHandler) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	cards, err := h.browse.Leaderboard(r.Context())
	if err != nil {
		respondServiceError(w, h.log, err, "list creators")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", cards)
}

func (h *CreatorsHandler) handleProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.browse.Profile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, h.log, err, "load creator")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", profile)
}
