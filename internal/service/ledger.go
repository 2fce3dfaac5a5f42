package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/crownhub/crowns-be/internal/metrics"
	"github.com/crownhub/crowns-be/internal/models"
	"github.com/crownhub/crowns-be/internal/policy"
	"github.com/crownhub/crowns-be/internal/storage"
)

// LedgerService records purchases and withdrawals and keeps creator balances.
type LedgerService struct {
	store  storage.LedgerStore
	policy policy.Policy
	log    logrus.FieldLogger
}

// NewLedgerService constructs the service.
func NewLedgerService(store storage.LedgerStore, p policy.Policy, log logrus.FieldLogger) *LedgerService {
	return &LedgerService{store: store, policy: p, log: log}
}

// PurchaseInput describes crowns bought for a creator. FanID is nil for anonymous buyers.
// A non-empty RequestID makes the purchase idempotent.
type PurchaseInput struct {
	CreatorID string
	FanID     *string
	Crowns    int64
	RequestID string
}

// RecordPurchase appends a purchase event and credits the creator in one serialized mutation.
func (s *LedgerService) RecordPurchase(ctx context.Context, in PurchaseInput) (models.LedgerEvent, error) {
	if in.Crowns <= 0 {
		return models.LedgerEvent{}, ErrInvalidAmount
	}
	creatorID := strings.TrimSpace(in.CreatorID)
	if creatorID == "" {
		return models.LedgerEvent{}, invalid("creator is required")
	}
	quote := s.policy.Quote(in.Crowns)

	replayed := true
	event, err := s.store.MutateAccount(ctx, creatorID, in.RequestID, func(acct *models.Account) (models.LedgerEvent, error) {
		replayed = false
		if acct.Role != models.RoleCreator {
			return models.LedgerEvent{}, ErrNotCreator
		}
		acct.Crowns += in.Crowns
		return models.LedgerEvent{
			Kind:           models.EventPurchase,
			CreatorID:      acct.ID,
			FanID:          in.FanID,
			Crowns:         in.Crowns,
			PriceUSD:       quote.Price,
			PlatformFeeUSD: quote.PlatformFee,
			CreatorUSD:     quote.CreatorPay,
			Status:         models.EventCompleted,
		}, nil
	})
	if err != nil {
		return models.LedgerEvent{}, fromStorage(err, "creator")
	}

	entry := s.log.WithFields(logrus.Fields{
		"event_id":   event.ID,
		"creator_id": creatorID,
		"crowns":     event.Crowns,
		"request_id": in.RequestID,
	})
	if replayed {
		entry.Info("purchase already recorded")
		return event, nil
	}
	metrics.RecordLedgerEvent(event.Kind, event.Crowns)
	entry.Info("purchase recorded")
	return event, nil
}

// RequestWithdrawal zeroes the caller's balance, applying the early-withdrawal penalty,
// and marks the account withdraw_requested.
func (s *LedgerService) RequestWithdrawal(ctx context.Context, caller models.Principal) (models.LedgerEvent, error) {
	if caller.Anonymous() {
		return models.LedgerEvent{}, ErrAuth
	}
	event, err := s.store.MutateAccount(ctx, caller.AccountID, "", func(acct *models.Account) (models.LedgerEvent, error) {
		if acct.Role != models.RoleCreator {
			return models.LedgerEvent{}, ErrNotCreator
		}
		if acct.Crowns <= 0 {
			return models.LedgerEvent{}, ErrNothingToWithdraw
		}
		balance := acct.Crowns
		penalty, final := s.policy.Penalty(balance)
		acct.Crowns = 0
		acct.Status = models.StatusWithdrawRequested
		return models.LedgerEvent{
			Kind:           models.EventWithdrawal,
			CreatorID:      acct.ID,
			Crowns:         balance,
			OriginalCrowns: balance,
			Penalty:        penalty,
			FinalCrowns:    final,
			Status:         models.EventRequested,
		}, nil
	})
	if err != nil {
		return models.LedgerEvent{}, fromStorage(err, "account")
	}

	metrics.RecordLedgerEvent(event.Kind, event.OriginalCrowns)
	s.log.WithFields(logrus.Fields{
		"event_id":     event.ID,
		"creator_id":   caller.AccountID,
		"original":     event.OriginalCrowns,
		"penalty":      event.Penalty,
		"final_crowns": event.FinalCrowns,
	}).Info("withdrawal requested")
	return event, nil
}

// Events lists the caller's own ledger history.
func (s *LedgerService) Events(ctx context.Context, caller models.Principal) ([]models.LedgerEvent, error) {
	if caller.Anonymous() {
		return nil, ErrAuth
	}
	return s.store.ListEvents(ctx, caller.AccountID)
}
