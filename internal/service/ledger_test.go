package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crownhub/crowns-be/internal/models"
	"github.com/crownhub/crowns-be/internal/policy"
)

func TestRecordPurchasePricesAndCredits(t *testing.T) {
	f := newFixture(t, policy.Default(), false)
	ctx := context.Background()
	creator := f.activeCreator(t)
	fan := f.fan(t)

	event, err := f.ledger.RecordPurchase(ctx, PurchaseInput{CreatorID: creator.ID, FanID: &fan.ID, Crowns: 10})
	require.NoError(t, err)
	assert.Equal(t, models.EventPurchase, event.Kind)
	assert.Equal(t, models.EventCompleted, event.Status)
	assert.Equal(t, int64(10), event.Crowns)
	require.NotNil(t, event.FanID)
	assert.Equal(t, fan.ID, *event.FanID)
	assert.True(t, event.PriceUSD.Equal(decimal.RequireFromString("15.0")))
	assert.True(t, event.PlatformFeeUSD.Equal(decimal.RequireFromString("5.0")))
	assert.True(t, event.CreatorUSD.Equal(decimal.RequireFromString("10.0")))

	acct, err := f.store.FindAccount(ctx, creator.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), acct.Crowns)
}

func TestRecordPurchaseAnonymous(t *testing.T) {
	f := newFixture(t, policy.Default(), false)
	creator := f.activeCreator(t)

	event, err := f.ledger.RecordPurchase(context.Background(), PurchaseInput{CreatorID: creator.ID, Crowns: 1})
	require.NoError(t, err)
	assert.Nil(t, event.FanID)
}

func TestRecordPurchaseRejects(t *testing.T) {
	f := newFixture(t, policy.Default(), false)
	ctx := context.Background()
	creator := f.activeCreator(t)
	fan := f.fan(t)

	_, err := f.ledger.RecordPurchase(ctx, PurchaseInput{CreatorID: creator.ID, Crowns: 0})
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = f.ledger.RecordPurchase(ctx, PurchaseInput{CreatorID: creator.ID, Crowns: -5})
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = f.ledger.RecordPurchase(ctx, PurchaseInput{CreatorID: "missing", Crowns: 5})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.ledger.RecordPurchase(ctx, PurchaseInput{CreatorID: fan.ID, Crowns: 5})
	assert.ErrorIs(t, err, ErrNotCreator)

	events, err := f.store.ListEvents(ctx, creator.ID)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestRecordPurchaseIdempotentByRequestID(t *testing.T) {
	f := newFixture(t, policy.Default(), false)
	ctx := context.Background()
	creator := f.activeCreator(t)

	first, err := f.ledger.RecordPurchase(ctx, PurchaseInput{CreatorID: creator.ID, Crowns: 7, RequestID: "cs_1"})
	require.NoError(t, err)
	again, err := f.ledger.RecordPurchase(ctx, PurchaseInput{CreatorID: creator.ID, Crowns: 7, RequestID: "cs_1"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	acct, err := f.store.FindAccount(ctx, creator.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), acct.Crowns)
}

func TestConcurrentPurchasesAddExactly(t *testing.T) {
	f := newFixture(t, policy.Default(), false)
	ctx := context.Background()
	creator := f.activeCreator(t)
	f.fundCreator(t, creator.ID, 100)

	const workers = 50
	var wg sync.WaitGroup
	var sum int64
	for i := 1; i <= workers; i++ {
		sum += int64(i)
		wg.Add(1)
		go func(amount int64) {
			defer wg.Done()
			_, err := f.ledger.RecordPurchase(ctx, PurchaseInput{
				CreatorID: creator.ID,
				Crowns:    amount,
				RequestID: fmt.Sprintf("req-%d", amount),
			})
			assert.NoError(t, err)
		}(int64(i))
	}
	wg.Wait()

	acct, err := f.store.FindAccount(ctx, creator.ID)
	require.NoError(t, err)
	assert.Equal(t, 100+sum, acct.Crowns)

	events, err := f.store.ListEvents(ctx, creator.ID)
	require.NoError(t, err)
	assert.Len(t, events, workers+1)
}

func TestWithdrawalPenalty(t *testing.T) {
	cases := []struct {
		balance, penalty, final int64
	}{
		{800_000, 400_000, 400_000},
		{1_200_000, 0, 1_200_000},
		{999_999, 499_999, 500_000},
	}
	for _, tc := range cases {
		f := newFixture(t, policy.Default(), false)
		ctx := context.Background()
		creator := f.activeCreator(t)
		f.fundCreator(t, creator.ID, tc.balance)

		event, err := f.ledger.RequestWithdrawal(ctx, principal(creator))
		require.NoError(t, err)
		assert.Equal(t, models.EventWithdrawal, event.Kind)
		assert.Equal(t, models.EventRequested, event.Status)
		assert.Equal(t, tc.balance, event.OriginalCrowns)
		assert.Equal(t, tc.penalty, event.Penalty)
		assert.Equal(t, tc.final, event.FinalCrowns)
		assert.Equal(t, tc.balance, event.Penalty+event.FinalCrowns)

		acct, err := f.store.FindAccount(ctx, creator.ID)
		require.NoError(t, err)
		assert.Zero(t, acct.Crowns)
		assert.Equal(t, models.StatusWithdrawRequested, acct.Status)
	}
}

func TestWithdrawalRejects(t *testing.T) {
	f := newFixture(t, policy.Default(), false)
	ctx := context.Background()
	creator := f.activeCreator(t)
	fan := f.fan(t)

	_, err := f.ledger.RequestWithdrawal(ctx, principal(fan))
	assert.ErrorIs(t, err, ErrNotCreator)
	_, err = f.ledger.RequestWithdrawal(ctx, principal(creator))
	assert.ErrorIs(t, err, ErrNothingToWithdraw)
	_, err = f.ledger.RequestWithdrawal(ctx, models.Principal{})
	assert.ErrorIs(t, err, ErrAuth)
	_, err = f.ledger.RequestWithdrawal(ctx, models.Principal{AccountID: "gone"})
	assert.ErrorIs(t, err, ErrNotFound)

	f.fundCreator(t, creator.ID, 10)
	_, err = f.ledger.RequestWithdrawal(ctx, principal(creator))
	require.NoError(t, err)
	_, err = f.ledger.RequestWithdrawal(ctx, principal(creator))
	assert.ErrorIs(t, err, ErrNothingToWithdraw)
}

func TestEventsNewestFirst(t *testing.T) {
	f := newFixture(t, policy.Default(), false)
	ctx := context.Background()
	creator := f.activeCreator(t)
	f.fundCreator(t, creator.ID, 4)
	_, err := f.ledger.RequestWithdrawal(ctx, principal(creator))
	require.NoError(t, err)

	events, err := f.ledger.Events(ctx, principal(creator))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, models.EventWithdrawal, events[0].Kind)
	assert.Equal(t, models.EventPurchase, events[1].Kind)
}
