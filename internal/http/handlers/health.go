package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/crownhub/crowns-be/internal/http/respond"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler returns uptime and storage reachability.
type HealthHandler struct {
	startedAt time.Time
	store     Pinger
	log       logrus.FieldLogger
}

// NewHealthHandler creates a health endpoint handler.
func NewHealthHandler(startedAt time.Time, store Pinger, log logrus.FieldLogger) *HealthHandler {
	return &HealthHandler{startedAt: startedAt, store: store, log: log}
}

// Register wires the handler into a router.
func (h *HealthHandler) Register(r chi.Router) {
	r.Get("/health", h.handle)
}

func (h *HealthHandler) handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	uptime := time.Since(h.startedAt).Truncate(time.Second).String()
	if err := h.store.Ping(ctx); err != nil {
		h.log.WithError(err).Warn("health: storage unreachable")
		respond.JSON(w, http.StatusServiceUnavailable, "storage unreachable", map[string]string{
			"status": "degraded",
			"uptime": uptime,
		})
		return
	}
	respond.JSON(w, http.StatusOK, "ok", map[string]string{
		"status": "ok",
		"uptime": uptime,
	})
}
