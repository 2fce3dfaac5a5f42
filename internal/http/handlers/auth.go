package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/crownhub/crowns-be/internal/http/respond"
	"github.com/crownhub/crowns-be/internal/middleware"
	"github.com/crownhub/crowns-be/internal/models/dto"
	"github.com/crownhub/crowns-be/internal/service"
)

// AuthHandler owns sign-up and sign-in endpoints.
type AuthHandler struct {
	accounts  *service.AccountService
	admission *service.AdmissionController
	log       logrus.FieldLogger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(accounts *service.AccountService, admission *service.AdmissionController, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{accounts: accounts, admission: admission, log: log}
}

// Register attaches public auth routes to the router.
func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/register/fan", h.handleRegisterFan)
	r.Post("/register/creator", h.handleRegisterCreator)
	r.Post("/login", h.handleLogin)
}

// RegisterAuthenticated attaches routes that need a signed-in caller.
func (h *AuthHandler) RegisterAuthenticated(r chi.Router) {
	r.Get("/me", h.handleMe)
}

func (h *AuthHandler) handleRegisterFan(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterFanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	created, err := h.accounts.RegisterFan(r.Context(), service.RegisterFanInput{
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Password:    req.Password,
	})
	if err != nil {
		respondServiceError(w, h.log, err, "create account")
		return
	}
	respond.JSON(w, http.StatusCreated, "fan registered", created)
}

func (h *AuthHandler) handleRegisterCreator(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterCreatorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	created, err := h.admission.RegisterCreator(r.Context(), service.RegisterCreatorInput{
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Password:    req.Password,
		Age:         req.Age,
		Bank:        req.Bank,
	})
	if err != nil {
		respondServiceError(w, h.log, err, "create account")
		return
	}
	respond.JSON(w, http.StatusCreated, "application received; an administrator will review your account", created)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	token, acct, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, h.log, err, "log in")
		return
	}
	respond.JSON(w, http.StatusOK, "login successful", dto.LoginResponse{Token: token, Account: acct})
}

func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	acct, err := h.accounts.Account(r.Context(), middleware.PrincipalFrom(r.Context()))
	if err != nil {
		respondServiceError(w, h.log, err, "load account")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", acct)
}
