package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crownhub/crowns-be/internal/policy"
	"github.com/crownhub/crowns-be/internal/storage"
)

func TestExportCSV(t *testing.T) {
	f := newFixture(t, policy.Default(), false)
	ctx := context.Background()
	svc := NewExportService(f.store)

	_, err := svc.CSV(ctx, storage.CollectionLedgerEvents)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.CSV(ctx, "passwords")
	assert.ErrorIs(t, err, ErrValidation)

	creator := f.activeCreator(t)
	f.fundCreator(t, creator.ID, 3)

	out, err := svc.CSV(ctx, storage.CollectionAccounts)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "id,"))
	assert.NotContains(t, string(out), "$2a$")

	out, err = svc.CSV(ctx, storage.CollectionLedgerEvents)
	require.NoError(t, err)
	assert.Contains(t, string(out), "purchase")
}
