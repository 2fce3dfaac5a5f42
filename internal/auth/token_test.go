package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crownhub/crowns-be/internal/models"
)

func TestGenerateAndParse(t *testing.T) {
	tm := NewTokenManager("secret", "crowns-test", time.Hour)
	token, err := tm.Generate(models.Account{ID: "acct-1", Role: models.RoleCreator})
	require.NoError(t, err)

	p, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "acct-1", p.AccountID)
	assert.Equal(t, models.RoleCreator, p.Role)
}

func TestParseRejectsForeignSecret(t *testing.T) {
	token, err := NewTokenManager("one", "crowns-test", time.Hour).Generate(models.Account{ID: "a"})
	require.NoError(t, err)

	_, err = NewTokenManager("two", "crowns-test", time.Hour).Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpired(t *testing.T) {
	tm := NewTokenManager("secret", "crowns-test", time.Minute)
	issued := time.Now().Add(-time.Hour)
	tm.now = func() time.Time { return issued }
	token, err := tm.Generate(models.Account{ID: "a"})
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter22!")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "hunter22!"))
	assert.False(t, CheckPassword(hash, "hunter23!"))
}
