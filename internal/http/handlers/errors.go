package handlers

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/crownhub/crowns-be/internal/http/respond"
	"github.com/crownhub/crowns-be/internal/service"
)

// respondServiceError maps service errors onto HTTP statuses and surfaces their
// message. Anything unrecognised is logged and hidden behind a 500.
func respondServiceError(w http.ResponseWriter, log logrus.FieldLogger, err error, action string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrAuth):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrPermission):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrNotCreator),
		errors.Is(err, service.ErrNothingToWithdraw):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		log.WithError(err).Error(action)
		respond.Error(w, status, "failed to "+action)
		return
	}
	respond.Error(w, status, err.Error())
}
