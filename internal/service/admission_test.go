package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crownhub/crowns-be/internal/models"
	"github.com/crownhub/crowns-be/internal/policy"
	"github.com/crownhub/crowns-be/internal/storage"
)

func smallPolicy(capacity int) policy.Policy {
	p := policy.Default()
	p.Capacity = capacity
	return p
}

func TestRegisterCreatorBelowCapacityIsPending(t *testing.T) {
	f := newFixture(t, policy.Default(), false)
	ctx := context.Background()

	acct, err := f.admission.RegisterCreator(ctx, f.creatorInput())
	require.NoError(t, err)
	assert.Equal(t, models.RoleCreator, acct.Role)
	assert.Equal(t, models.StatusPending, acct.Status)
	assert.Equal(t, "1332", acct.BankMask)
	assert.Zero(t, acct.Crowns)
	assert.NotEmpty(t, acct.PasswordHash)
	assert.NotEqual(t, "correct-horse", acct.PasswordHash)

	reviews, err := f.admission.PendingReviews(ctx)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, acct.ID, reviews[0].AccountID)
	assert.Equal(t, models.StatusPending, reviews[0].Status)
	assert.Equal(t, "1332", reviews[0].BankMask)
}

func TestRegisterCreatorAtCapacityIsWaitlisted(t *testing.T) {
	for _, strict := range []bool{false, true} {
		f := newFixture(t, smallPolicy(2), strict)
		ctx := context.Background()
		f.activeCreator(t)

		acct, err := f.admission.RegisterCreator(ctx, f.creatorInput())
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, acct.Status, "strict=%v", strict)

		f.activeCreator(t)
		acct, err = f.admission.RegisterCreator(ctx, f.creatorInput())
		require.NoError(t, err)
		assert.Equal(t, models.StatusWaitingList, acct.Status, "strict=%v", strict)

		reviews, err := f.admission.PendingReviews(ctx)
		require.NoError(t, err)
		require.Len(t, reviews, 2, "approved creators leave the review queue")
		assert.Equal(t, models.StatusWaitingList, reviews[1].Status)
	}
}

func TestRegisterCreatorValidation(t *testing.T) {
	f := newFixture(t, policy.Default(), false)
	ctx := context.Background()

	cases := map[string]func(*RegisterCreatorInput){
		"underage":      func(in *RegisterCreatorInput) { in.Age = 17 },
		"missing age":   func(in *RegisterCreatorInput) { in.Age = 0 },
		"missing bank":  func(in *RegisterCreatorInput) { in.Bank = "  " },
		"missing name":  func(in *RegisterCreatorInput) { in.DisplayName = "" },
		"missing email": func(in *RegisterCreatorInput) { in.Email = "" },
		"bad email":     func(in *RegisterCreatorInput) { in.Email = "not-an-email" },
		"short pass":    func(in *RegisterCreatorInput) { in.Password = "short" },
	}
	for name, mutate := range cases {
		in := f.creatorInput()
		mutate(&in)
		_, err := f.admission.RegisterCreator(ctx, in)
		assert.ErrorIs(t, err, ErrValidation, name)
	}

	records, err := f.store.DumpCollection(ctx, storage.CollectionAccounts)
	require.NoError(t, err)
	assert.Empty(t, records, "no account is created on validation failure")
}

func TestRegisterCreatorDuplicateEmail(t *testing.T) {
	f := newFixture(t, policy.Default(), false)
	in := f.creatorInput()
	_, err := f.admission.RegisterCreator(context.Background(), in)
	require.NoError(t, err)
	_, err = f.admission.RegisterCreator(context.Background(), in)
	require.ErrorIs(t, err, ErrConflict)
}

func TestStrictAdmissionConcurrentRegistrations(t *testing.T) {
	f := newFixture(t, smallPolicy(1), true)
	inputs := make([]RegisterCreatorInput, 8)
	for i := range inputs {
		inputs[i] = f.creatorInput()
	}

	var wg sync.WaitGroup
	errs := make([]error, len(inputs))
	for i := range inputs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.admission.RegisterCreator(context.Background(), inputs[i])
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	reviews, err := f.admission.PendingReviews(context.Background())
	require.NoError(t, err)
	assert.Len(t, reviews, len(inputs))
	for _, r := range reviews {
		assert.Equal(t, models.StatusPending, r.Status)
	}
}

func TestApprove(t *testing.T) {
	f := newFixture(t, policy.Default(), false)
	ctx := context.Background()
	acct, err := f.admission.RegisterCreator(ctx, f.creatorInput())
	require.NoError(t, err)

	approved, err := f.admission.Approve(ctx, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, approved.Status)

	_, err = f.admission.Approve(ctx, acct.ID)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.admission.Approve(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	fan := f.fan(t)
	_, err = f.admission.Approve(ctx, fan.ID)
	assert.ErrorIs(t, err, ErrNotCreator)
}

func TestMaskBank(t *testing.T) {
	assert.Equal(t, "6789", maskBank("0123456789"))
	assert.Equal(t, "12", maskBank("12"))
}
