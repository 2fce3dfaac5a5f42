package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/crownhub/crowns-be/internal/http/respond"
	"github.com/crownhub/crowns-be/internal/middleware"
	"github.com/crownhub/crowns-be/internal/models/dto"
	"github.com/crownhub/crowns-be/internal/payments"
	"github.com/crownhub/crowns-be/internal/service"
)

const maxWebhookBytes = 64 << 10

// LedgerHandler exposes checkout, payment settlement and withdrawals.
type LedgerHandler struct {
	ledger   *service.LedgerService
	payments *service.PaymentService
	log      logrus.FieldLogger
}

// NewLedgerHandler constructs the handler.
func NewLedgerHandler(ledger *service.LedgerService, payments *service.PaymentService, log logrus.FieldLogger) *LedgerHandler {
	return &LedgerHandler{ledger: ledger, payments: payments, log: log}
}

// RegisterPublic attaches routes open to anonymous callers.
func (h *LedgerHandler) RegisterPublic(r chi.Router) {
	r.Post("/checkout", h.handleCheckout)
}

// RegisterWebhooks attaches the provider callback.
func (h *LedgerHandler) RegisterWebhooks(r chi.Router) {
	r.Post("/webhooks/payment", h.handlePaymentWebhook)
}

// RegisterAuthenticated attaches routes for signed-in creators.
func (h *LedgerHandler) RegisterAuthenticated(r chi.Router) {
	r.Post("/withdrawals", h.handleWithdraw)
	r.Get("/ledger", h.handleEvents)
}

func (h *LedgerHandler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req dto.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	link, err := h.payments.Checkout(r.Context(), req.CreatorID, req.Crowns)
	if err != nil {
		respondServiceError(w, h.log, err, "start checkout")
		return
	}
	respond.JSON(w, http.StatusOK, "redirect to checkout", dto.CheckoutResponse{URL: link})
}

func (h *LedgerHandler) handlePaymentWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "unreadable webhook body")
		return
	}
	event, err := h.payments.SettleWebhook(r.Context(), body, r.Header.Get(payments.SignatureHeader))
	if err != nil {
		respondServiceError(w, h.log, err, "settle payment")
		return
	}
	if event == nil {
		respond.JSON(w, http.StatusOK, "acknowledged", nil)
		return
	}
	respond.JSON(w, http.StatusOK, "payment recorded", event)
}

func (h *LedgerHandler) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	event, err := h.ledger.RequestWithdrawal(r.Context(), middleware.PrincipalFrom(r.Context()))
	if err != nil {
		respondServiceError(w, h.log, err, "request withdrawal")
		return
	}
	respond.JSON(w, http.StatusCreated, "withdrawal requested; an administrator will process the payout", dto.WithdrawalResponse{
		Penalty:     event.Penalty,
		FinalCrowns: event.FinalCrowns,
		Event:       event,
	})
}

func (h *LedgerHandler) handleEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.ledger.Events(r.Context(), middleware.PrincipalFrom(r.Context()))
	if err != nil {
		respondServiceError(w, h.log, err, "list ledger")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", events)
}
