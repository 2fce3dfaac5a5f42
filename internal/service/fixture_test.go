package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/crownhub/crowns-be/internal/auth"
	"github.com/crownhub/crowns-be/internal/logging"
	"github.com/crownhub/crowns-be/internal/models"
	"github.com/crownhub/crowns-be/internal/policy"
	"github.com/crownhub/crowns-be/internal/storage/memory"
)

type fixture struct {
	store     *memory.Store
	accounts  *AccountService
	admission *AdmissionController
	ledger    *LedgerService
	seq       int
}

func newFixture(t *testing.T, p policy.Policy, strict bool) *fixture {
	t.Helper()
	store := memory.New()
	var mu sync.Mutex
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		clock = clock.Add(time.Second)
		return clock
	})
	log := logging.Discard()
	tokens := auth.NewTokenManager("test-secret", "crowns-test", time.Hour)
	return &fixture{
		store:     store,
		accounts:  NewAccountService(store, tokens, log),
		admission: NewAdmissionController(store, p, strict, log),
		ledger:    NewLedgerService(store, p, log),
	}
}

func (f *fixture) creatorInput() RegisterCreatorInput {
	f.seq++
	return RegisterCreatorInput{
		DisplayName: fmt.Sprintf("Creator %d", f.seq),
		Email:       fmt.Sprintf("creator%d@example.com", f.seq),
		Password:    "correct-horse",
		Age:         25,
		Bank:        "ES91 2100 0418 4502 0005 1332",
	}
}

func (f *fixture) activeCreator(t *testing.T) models.Account {
	t.Helper()
	acct, err := f.admission.RegisterCreator(context.Background(), f.creatorInput())
	require.NoError(t, err)
	acct, err = f.admission.Approve(context.Background(), acct.ID)
	require.NoError(t, err)
	return acct
}

func (f *fixture) fan(t *testing.T) models.Account {
	t.Helper()
	f.seq++
	acct, err := f.accounts.RegisterFan(context.Background(), RegisterFanInput{
		DisplayName: fmt.Sprintf("Fan %d", f.seq),
		Email:       fmt.Sprintf("fan%d@example.com", f.seq),
		Password:    "correct-horse",
	})
	require.NoError(t, err)
	return acct
}

func principal(a models.Account) models.Principal {
	return models.Principal{AccountID: a.ID, Role: a.Role}
}

// fundCreator credits crowns through the purchase path.
func (f *fixture) fundCreator(t *testing.T, creatorID string, crowns int64) {
	t.Helper()
	_, err := f.ledger.RecordPurchase(context.Background(), PurchaseInput{CreatorID: creatorID, Crowns: crowns})
	require.NoError(t, err)
}
