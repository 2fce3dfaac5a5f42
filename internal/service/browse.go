package service

import (
	"context"

	"github.com/crownhub/crowns-be/internal/models"
	"github.com/crownhub/crowns-be/internal/models/dto"
	"github.com/crownhub/crowns-be/internal/policy"
	"github.com/crownhub/crowns-be/internal/storage"
)

const (
	leaderboardLimit  = 100
	profileContentCap = 50
)

// BrowseService serves the public creator listings.
type BrowseService struct {
	accounts storage.AccountStore
	content  storage.ContentStore
}

// NewBrowseService constructs the service.
func NewBrowseService(accounts storage.AccountStore, content storage.ContentStore) *BrowseService {
	return &BrowseService{accounts: accounts, content: content}
}

// Leaderboard lists active creators by crowns, highest first.
func (s *BrowseService) Leaderboard(ctx context.Context) ([]dto.CreatorCard, error) {
	creators, err := s.accounts.ListActiveCreators(ctx, leaderboardLimit)
	if err != nil {
		return nil, err
	}
	cards := make([]dto.CreatorCard, 0, len(creators))
	for _, c := range creators {
		cards = append(cards, dto.CreatorCard{
			ID:          c.ID,
			DisplayName: c.DisplayName,
			Crowns:      c.Crowns,
			Progress:    policy.Progress(c.Crowns),
		})
	}
	return cards, nil
}

// Profile returns a creator's public view with their latest content.
func (s *BrowseService) Profile(ctx context.Context, id string) (dto.CreatorProfile, error) {
	acct, err := s.accounts.FindAccount(ctx, id)
	if err != nil {
		return dto.CreatorProfile{}, fromStorage(err, "creator")
	}
	if acct.Role != models.RoleCreator {
		return dto.CreatorProfile{}, fromStorage(storage.ErrNotFound, "creator")
	}
	items, err := s.content.ListContentByOwner(ctx, id, profileContentCap)
	if err != nil {
		return dto.CreatorProfile{}, err
	}
	if items == nil {
		items = []models.ContentItem{}
	}
	return dto.CreatorProfile{
		ID:          acct.ID,
		DisplayName: acct.DisplayName,
		Status:      acct.Status,
		Crowns:      acct.Crowns,
		Progress:    policy.Progress(acct.Crowns),
		Content:     items,
	}, nil
}
