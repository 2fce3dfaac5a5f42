package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/crownhub/crowns-be/internal/models"
	"github.com/crownhub/crowns-be/internal/models/dto"
	"github.com/crownhub/crowns-be/internal/payments"
	"github.com/crownhub/crowns-be/internal/storage"
)

// PaymentService sends fans to hosted checkout and settles signed provider callbacks.
type PaymentService struct {
	accounts storage.AccountStore
	ledger   *LedgerService
	links    payments.Links
	secret   string
	log      logrus.FieldLogger
}

// NewPaymentService constructs the service.
func NewPaymentService(accounts storage.AccountStore, ledger *LedgerService, links payments.Links, webhookSecret string, log logrus.FieldLogger) *PaymentService {
	return &PaymentService{accounts: accounts, ledger: ledger, links: links, secret: webhookSecret, log: log}
}

// Checkout returns the hosted payment page for buying crowns for a creator.
func (s *PaymentService) Checkout(ctx context.Context, creatorID string, crowns int64) (string, error) {
	if crowns <= 0 {
		return "", ErrInvalidAmount
	}
	acct, err := s.accounts.FindAccount(ctx, strings.TrimSpace(creatorID))
	if err != nil {
		return "", fromStorage(err, "creator")
	}
	if acct.Role != models.RoleCreator {
		return "", ErrNotCreator
	}
	link, ok := s.links.CheckoutURL(crowns, acct.ID)
	if !ok {
		return "", invalid("no checkout offered for %d crowns", crowns)
	}
	return link, nil
}

// SettleWebhook verifies the signature over body and records the purchase it reports.
// Unpaid sessions are acknowledged without touching the ledger. The session id is the
// idempotency key, so provider retries never credit twice.
func (s *PaymentService) SettleWebhook(ctx context.Context, body []byte, signature string) (*models.LedgerEvent, error) {
	if !payments.Verify(s.secret, body, signature) {
		return nil, fmt.Errorf("%w: bad webhook signature", ErrAuth)
	}
	var hook dto.PaymentWebhook
	if err := json.Unmarshal(body, &hook); err != nil {
		return nil, invalid("malformed webhook body")
	}
	if strings.TrimSpace(hook.SessionID) == "" {
		return nil, invalid("session_id is required")
	}
	if !hook.Paid {
		s.log.WithField("session_id", hook.SessionID).Info("unpaid checkout session ignored")
		return nil, nil
	}

	event, err := s.ledger.RecordPurchase(ctx, PurchaseInput{
		CreatorID: hook.CreatorID,
		FanID:     hook.FanID,
		Crowns:    hook.Crowns,
		RequestID: hook.SessionID,
	})
	if err != nil {
		return nil, err
	}
	return &event, nil
}
