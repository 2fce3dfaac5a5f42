package storage

import (
	"context"
	"errors"

	"github.com/crownhub/crowns-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// Collections that can be dumped wholesale for export.
const (
	CollectionAccounts       = "accounts"
	CollectionPendingReviews = "pending_reviews"
	CollectionContent        = "content"
	CollectionLedgerEvents   = "ledger_events"
)

// AdmitFunc picks the status of a new creator given the current active-creator count.
type AdmitFunc func(activeCreators int) string

// MutateFunc receives the locked account and returns the event to append.
// Changes it makes to Crowns and Status are persisted with the event.
type MutateFunc func(acct *models.Account) (models.LedgerEvent, error)

// AccountStore captures account and pending-review persistence.
type AccountStore interface {
	CreateAccount(ctx context.Context, acct models.Account) (models.Account, error)
	// CreateCreator writes the account and its pending-review mirror.
	CreateCreator(ctx context.Context, acct models.Account) (models.Account, error)
	// AdmitCreator counts active creators, lets admit decide the status and writes the
	// account and its mirror while holding a lock that excludes other admissions.
	AdmitCreator(ctx context.Context, acct models.Account, admit AdmitFunc) (models.Account, error)
	CountActiveCreators(ctx context.Context) (int, error)
	FindAccount(ctx context.Context, id string) (models.Account, error)
	FindAccountByEmail(ctx context.Context, email string) (models.Account, error)
	ListActiveCreators(ctx context.Context, limit int) ([]models.Account, error)
	ListPendingReviews(ctx context.Context) ([]models.PendingReview, error)
	// ActivateCreator marks the creator active and removes its pending review.
	ActivateCreator(ctx context.Context, id string) (models.Account, error)
}

// LedgerStore persists ledger events and serializes balance mutations per account.
type LedgerStore interface {
	// MutateAccount locks the account, applies fn and stores the account together with the
	// returned event atomically. If requestID was already recorded the stored event is
	// returned and fn is not called.
	MutateAccount(ctx context.Context, accountID, requestID string, fn MutateFunc) (models.LedgerEvent, error)
	ListEvents(ctx context.Context, creatorID string) ([]models.LedgerEvent, error)
}

// ContentStore persists creator content records.
type ContentStore interface {
	CreateContent(ctx context.Context, item models.ContentItem) (models.ContentItem, error)
	FindContent(ctx context.Context, id string) (models.ContentItem, error)
	DeleteContent(ctx context.Context, id string) error
	ListContentByOwner(ctx context.Context, ownerID string, limit int) ([]models.ContentItem, error)
}

// ErrUnknownCollection is returned when a dump names no known collection.
var ErrUnknownCollection = errors.New("unknown collection")

// Dumper reads a whole collection, oldest first.
type Dumper interface {
	DumpCollection(ctx context.Context, collection string) ([]any, error)
}

// Store is the full persistence surface the services need.
type Store interface {
	AccountStore
	LedgerStore
	ContentStore
	Dumper
	Ping(ctx context.Context) error
	Close()
}
