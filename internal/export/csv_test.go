package export

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crownhub/crowns-be/internal/models"
)

func TestCSVAccountsOmitsPasswordHash(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	out, err := CSV([]any{
		models.Account{ID: "a1", DisplayName: "Ana, the \"great\"", Email: "ana@example.com", PasswordHash: "secret-hash",
			Role: models.RoleCreator, Status: models.StatusActive, Crowns: 42, Age: 30, BankMask: "1234", CreatedAt: created},
		models.Account{ID: "a2", DisplayName: "Bo", Email: "bo@example.com", Role: models.RoleFan, Status: models.StatusActive, CreatedAt: created},
	})
	require.NoError(t, err)
	assert.NotContains(t, string(out), "secret-hash")

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"id", "age", "bank_mask", "created_at", "crowns", "display_name", "email", "role", "status"}, records[0])
	assert.Equal(t, "a1", records[1][0])
	assert.Equal(t, "Ana, the \"great\"", records[1][5])
	assert.Equal(t, "42", records[1][4])
	assert.Equal(t, "", records[2][2])
}

func TestCSVLedgerEvents(t *testing.T) {
	fan := "fan-1"
	out, err := CSV([]any{models.LedgerEvent{
		ID: "e1", Kind: models.EventPurchase, CreatorID: "c1", FanID: &fan, Crowns: 10,
		PriceUSD: decimal.RequireFromString("15"), PlatformFeeUSD: decimal.NewFromInt(5), CreatorUSD: decimal.NewFromInt(10),
		Status: models.EventCompleted,
	}})
	require.NoError(t, err)
	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	row := map[string]string{}
	for i, col := range records[0] {
		row[col] = records[1][i]
	}
	assert.Equal(t, "fan-1", row["fan_id"])
	assert.Equal(t, "15", row["price_usd"])
	assert.Equal(t, "completed", row["status"])
}

func TestCSVEmpty(t *testing.T) {
	_, err := CSV(nil)
	require.ErrorIs(t, err, ErrEmpty)
}
