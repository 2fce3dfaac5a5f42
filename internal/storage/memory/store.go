// Package memory provides an in-process Store used by tests and local development.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/crownhub/crowns-be/internal/models"
	"github.com/crownhub/crowns-be/internal/storage"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

// Store keeps every collection in maps guarded by a single mutex, which also
// serializes balance mutations.
type Store struct {
	mu       sync.Mutex
	now      func() time.Time
	accounts map[string]models.Account
	reviews  map[string]models.PendingReview
	content  map[string]models.ContentItem
	events   []models.LedgerEvent
	requests map[string]int
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		now:      time.Now,
		accounts: make(map[string]models.Account),
		reviews:  make(map[string]models.PendingReview),
		content:  make(map[string]models.ContentItem),
		requests: make(map[string]int),
	}
}

// SetClock replaces the timestamp source.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Close is a no-op.
func (s *Store) Close() {}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// CreateAccount inserts a new account.
func (s *Store) CreateAccount(_ context.Context, acct models.Account) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertAccount(acct)
}

// CreateCreator inserts the account and its pending-review mirror.
func (s *Store) CreateCreator(_ context.Context, acct models.Account) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertCreator(acct)
}

// AdmitCreator decides the status and inserts under the store lock.
func (s *Store) AdmitCreator(_ context.Context, acct models.Account, admit storage.AdmitFunc) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct.Status = admit(s.countActiveCreators())
	return s.insertCreator(acct)
}

func (s *Store) insertCreator(acct models.Account) (models.Account, error) {
	created, err := s.insertAccount(acct)
	if err != nil {
		return models.Account{}, err
	}
	s.reviews[created.ID] = models.ReviewFor(created)
	return created, nil
}

func (s *Store) insertAccount(acct models.Account) (models.Account, error) {
	email := strings.ToLower(acct.Email)
	for _, existing := range s.accounts {
		if strings.ToLower(existing.Email) == email {
			return models.Account{}, storage.ErrAlreadyExists
		}
	}
	if acct.ID == "" {
		acct.ID = uuid.NewString()
	}
	if _, ok := s.accounts[acct.ID]; ok {
		return models.Account{}, storage.ErrAlreadyExists
	}
	acct.CreatedAt = s.now().UTC()
	s.accounts[acct.ID] = acct
	return acct, nil
}

// CountActiveCreators counts creators with status active.
func (s *Store) CountActiveCreators(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countActiveCreators(), nil
}

func (s *Store) countActiveCreators() int {
	n := 0
	for _, acct := range s.accounts {
		if acct.IsActiveCreator() {
			n++
		}
	}
	return n
}

// FindAccount fetches an account by id.
func (s *Store) FindAccount(_ context.Context, id string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[id]
	if !ok {
		return models.Account{}, storage.ErrNotFound
	}
	return acct, nil
}

// FindAccountByEmail fetches an account by email, case-insensitively.
func (s *Store) FindAccountByEmail(_ context.Context, email string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acct := range s.accounts {
		if strings.EqualFold(acct.Email, email) {
			return acct, nil
		}
	}
	return models.Account{}, storage.ErrNotFound
}

// ListActiveCreators returns active creators ordered by crowns, highest first.
func (s *Store) ListActiveCreators(_ context.Context, limit int) ([]models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Account
	for _, acct := range s.accounts {
		if acct.IsActiveCreator() {
			out = append(out, acct)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Crowns != out[j].Crowns {
			return out[i].Crowns > out[j].Crowns
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ListPendingReviews returns pending reviews, oldest request first.
func (s *Store) ListPendingReviews(_ context.Context) ([]models.PendingReview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedReviews(), nil
}

func (s *Store) sortedReviews() []models.PendingReview {
	out := make([]models.PendingReview, 0, len(s.reviews))
	for _, r := range s.reviews {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RequestedAt.Before(out[j].RequestedAt) })
	return out
}

// ActivateCreator marks the creator active and drops its pending review.
func (s *Store) ActivateCreator(_ context.Context, id string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[id]
	if !ok {
		return models.Account{}, storage.ErrNotFound
	}
	acct.Status = models.StatusActive
	s.accounts[id] = acct
	delete(s.reviews, id)
	return acct, nil
}

// MutateAccount applies fn to the account while holding the store lock.
func (s *Store) MutateAccount(_ context.Context, accountID, requestID string, fn storage.MutateFunc) (models.LedgerEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if requestID != "" {
		if idx, ok := s.requests[requestID]; ok {
			return s.events[idx], nil
		}
	}
	acct, ok := s.accounts[accountID]
	if !ok {
		return models.LedgerEvent{}, storage.ErrNotFound
	}
	working := acct
	event, err := fn(&working)
	if err != nil {
		return models.LedgerEvent{}, err
	}
	if working.Crowns < 0 {
		return models.LedgerEvent{}, fmt.Errorf("account %s: negative crown balance", accountID)
	}
	acct.Crowns = working.Crowns
	acct.Status = working.Status
	s.accounts[accountID] = acct

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	event.RequestID = requestID
	event.CreatedAt = s.now().UTC()
	s.events = append(s.events, event)
	if requestID != "" {
		s.requests[requestID] = len(s.events) - 1
	}
	return event, nil
}

// ListEvents returns a creator's ledger events, newest first.
func (s *Store) ListEvents(_ context.Context, creatorID string) ([]models.LedgerEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.LedgerEvent
	for i := len(s.events) - 1; i >= 0; i-- {
		if s.events[i].CreatorID == creatorID {
			out = append(out, s.events[i])
		}
	}
	return out, nil
}

// CreateContent inserts a content record.
func (s *Store) CreateContent(_ context.Context, item models.ContentItem) (models.ContentItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if _, ok := s.content[item.ID]; ok {
		return models.ContentItem{}, storage.ErrAlreadyExists
	}
	item.CreatedAt = s.now().UTC()
	s.content[item.ID] = item
	return item, nil
}

// FindContent fetches a content record by id.
func (s *Store) FindContent(_ context.Context, id string) (models.ContentItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.content[id]
	if !ok {
		return models.ContentItem{}, storage.ErrNotFound
	}
	return item, nil
}

// DeleteContent removes a content record.
func (s *Store) DeleteContent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.content[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.content, id)
	return nil
}

// ListContentByOwner returns the owner's content, newest first.
func (s *Store) ListContentByOwner(_ context.Context, ownerID string, limit int) ([]models.ContentItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.sortedContent(func(item models.ContentItem) bool { return item.OwnerID == ownerID })
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) sortedContent(keep func(models.ContentItem) bool) []models.ContentItem {
	var out []models.ContentItem
	for _, item := range s.content {
		if keep(item) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// DumpCollection returns every record of the collection.
func (s *Store) DumpCollection(_ context.Context, collection string) ([]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []any
	switch collection {
	case storage.CollectionAccounts:
		accts := make([]models.Account, 0, len(s.accounts))
		for _, acct := range s.accounts {
			accts = append(accts, acct)
		}
		sort.Slice(accts, func(i, j int) bool {
			if accts[i].CreatedAt.Equal(accts[j].CreatedAt) {
				return accts[i].ID < accts[j].ID
			}
			return accts[i].CreatedAt.Before(accts[j].CreatedAt)
		})
		for _, acct := range accts {
			out = append(out, acct)
		}
	case storage.CollectionPendingReviews:
		for _, r := range s.sortedReviews() {
			out = append(out, r)
		}
	case storage.CollectionContent:
		for _, item := range s.sortedContent(func(models.ContentItem) bool { return true }) {
			out = append(out, item)
		}
	case storage.CollectionLedgerEvents:
		for _, e := range s.events {
			out = append(out, e)
		}
	default:
		return nil, fmt.Errorf("%w: %s", storage.ErrUnknownCollection, collection)
	}
	return out, nil
}
