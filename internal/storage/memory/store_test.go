package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crownhub/crowns-be/internal/models"
	"github.com/crownhub/crowns-be/internal/storage"
)

func tickingStore() *Store {
	s := New()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time {
		now = now.Add(time.Second)
		return now
	})
	return s
}

func mustCreator(t *testing.T, s *Store, email string, crowns int64) models.Account {
	t.Helper()
	acct, err := s.CreateCreator(context.Background(), models.Account{
		DisplayName: email,
		Email:       email,
		Role:        models.RoleCreator,
		Status:      models.StatusActive,
		Crowns:      crowns,
	})
	require.NoError(t, err)
	return acct
}

func TestEmailUniqueIgnoresCase(t *testing.T) {
	s := tickingStore()
	ctx := context.Background()
	_, err := s.CreateAccount(ctx, models.Account{Email: "a@example.com", Role: models.RoleFan})
	require.NoError(t, err)

	_, err = s.CreateAccount(ctx, models.Account{Email: "A@Example.com", Role: models.RoleFan})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	found, err := s.FindAccountByEmail(ctx, "A@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", found.Email)
}

func TestLeaderboardOrder(t *testing.T) {
	s := tickingStore()
	ctx := context.Background()
	first := mustCreator(t, s, "first@example.com", 10)
	second := mustCreator(t, s, "second@example.com", 10)
	top := mustCreator(t, s, "top@example.com", 50)
	_, err := s.CreateCreator(ctx, models.Account{Email: "pending@example.com", Role: models.RoleCreator, Status: models.StatusPending})
	require.NoError(t, err)

	list, err := s.ListActiveCreators(ctx, 0)
	require.NoError(t, err)
	ids := make([]string, 0, len(list))
	for _, a := range list {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{top.ID, first.ID, second.ID}, ids)

	list, err = s.ListActiveCreators(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAdmitCreatorUsesLiveCount(t *testing.T) {
	s := tickingStore()
	ctx := context.Background()
	mustCreator(t, s, "one@example.com", 0)

	var seen int
	acct, err := s.AdmitCreator(ctx, models.Account{Email: "two@example.com", Role: models.RoleCreator},
		func(active int) string {
			seen = active
			return models.StatusWaitingList
		})
	require.NoError(t, err)
	assert.Equal(t, 1, seen)
	assert.Equal(t, models.StatusWaitingList, acct.Status)

	reviews, err := s.ListPendingReviews(ctx)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
}

func TestMutateAccount(t *testing.T) {
	s := tickingStore()
	ctx := context.Background()
	acct := mustCreator(t, s, "c@example.com", 5)

	add := func(delta int64) storage.MutateFunc {
		return func(a *models.Account) (models.LedgerEvent, error) {
			a.Crowns += delta
			return models.LedgerEvent{Kind: models.EventPurchase, CreatorID: a.ID, Crowns: delta}, nil
		}
	}

	first, err := s.MutateAccount(ctx, acct.ID, "req-1", add(10))
	require.NoError(t, err)
	replay, err := s.MutateAccount(ctx, acct.ID, "req-1", add(10))
	require.NoError(t, err)
	assert.Equal(t, first.ID, replay.ID)

	_, err = s.MutateAccount(ctx, acct.ID, "", add(-100))
	require.Error(t, err)

	boom := errors.New("boom")
	_, err = s.MutateAccount(ctx, acct.ID, "", func(a *models.Account) (models.LedgerEvent, error) {
		a.Crowns = 0
		return models.LedgerEvent{}, boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.MutateAccount(ctx, "missing", "", add(1))
	assert.ErrorIs(t, err, storage.ErrNotFound)

	got, err := s.FindAccount(ctx, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(15), got.Crowns)

	events, err := s.ListEvents(ctx, acct.ID)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestDumpCollection(t *testing.T) {
	s := tickingStore()
	ctx := context.Background()
	mustCreator(t, s, "c@example.com", 0)

	accounts, err := s.DumpCollection(ctx, storage.CollectionAccounts)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)

	events, err := s.DumpCollection(ctx, storage.CollectionLedgerEvents)
	require.NoError(t, err)
	assert.Empty(t, events)

	_, err = s.DumpCollection(ctx, "secrets")
	assert.ErrorIs(t, err, storage.ErrUnknownCollection)
}
