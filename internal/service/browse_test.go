package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crownhub/crowns-be/internal/policy"
)

func TestLeaderboardOrdersActiveCreatorsByCrowns(t *testing.T) {
	f := newFixture(t, policy.Default(), false)
	ctx := context.Background()
	low := f.activeCreator(t)
	high := f.activeCreator(t)
	_, err := f.admission.RegisterCreator(ctx, f.creatorInput())
	require.NoError(t, err)
	f.fan(t)

	f.fundCreator(t, low.ID, 5)
	f.fundCreator(t, high.ID, 25_000)

	cards, err := NewBrowseService(f.store, f.store).Leaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, high.ID, cards[0].ID)
	assert.Equal(t, 3, cards[0].Progress)
	assert.Equal(t, low.ID, cards[1].ID)
	assert.Equal(t, int64(5), cards[1].Crowns)
}

func TestProfile(t *testing.T) {
	f := newFixture(t, policy.Default(), false)
	ctx := context.Background()
	creator := f.activeCreator(t)
	svc, _ := newContentService(t, f)
	for _, name := range []string{"one.png", "two.png"} {
		_, err := svc.Upload(ctx, principal(creator), UploadInput{Filename: name, Body: strings.NewReader(name)})
		require.NoError(t, err)
	}

	browse := NewBrowseService(f.store, f.store)
	profile, err := browse.Profile(ctx, creator.ID)
	require.NoError(t, err)
	assert.Equal(t, creator.DisplayName, profile.DisplayName)
	require.Len(t, profile.Content, 2)
	assert.True(t, strings.HasSuffix(profile.Content[0].MediaURL, "two.png"), "newest first")

	fan := f.fan(t)
	_, err = browse.Profile(ctx, fan.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = browse.Profile(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
