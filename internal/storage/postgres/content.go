package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/crownhub/crowns-be/internal/models"
	"github.com/crownhub/crowns-be/internal/storage"
)

const contentColumns = `id, owner_id, media_url, media_type, caption, created_at`

// CreateContent inserts a content row.
func (s *Store) CreateContent(ctx context.Context, item models.ContentItem) (models.ContentItem, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO content (id, owner_id, media_url, media_type, caption)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+contentColumns,
		item.ID, item.OwnerID, item.MediaURL, item.MediaType, item.Caption)
	created, err := scanContent(row)
	return created, translate(err)
}

// FindContent fetches a content row by id.
func (s *Store) FindContent(ctx context.Context, id string) (models.ContentItem, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+contentColumns+` FROM content WHERE id = $1`, id)
	item, err := scanContent(row)
	return item, translate(err)
}

// DeleteContent removes a content row.
func (s *Store) DeleteContent(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM content WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListContentByOwner returns the owner's content, newest first.
func (s *Store) ListContentByOwner(ctx context.Context, ownerID string, limit int) ([]models.ContentItem, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+contentColumns+` FROM content
		WHERE owner_id = $1 ORDER BY created_at DESC LIMIT $2`, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ContentItem, error) {
		return scanContent(row)
	})
}

func scanContent(row pgx.Row) (models.ContentItem, error) {
	var item models.ContentItem
	if err := row.Scan(&item.ID, &item.OwnerID, &item.MediaURL, &item.MediaType, &item.Caption, &item.CreatedAt); err != nil {
		return models.ContentItem{}, err
	}
	return item, nil
}

// DumpCollection reads every row of the collection, oldest first.
func (s *Store) DumpCollection(ctx context.Context, collection string) ([]any, error) {
	var (
		query string
		scan  func(pgx.Row) (any, error)
	)
	switch collection {
	case storage.CollectionAccounts:
		query = `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at, id`
		scan = func(r pgx.Row) (any, error) { return scanAccount(r) }
	case storage.CollectionPendingReviews:
		query = `SELECT account_id, display_name, email, age, bank_mask, status, requested_at
			FROM pending_reviews ORDER BY requested_at`
		scan = func(r pgx.Row) (any, error) {
			var pr models.PendingReview
			err := r.Scan(&pr.AccountID, &pr.DisplayName, &pr.Email, &pr.Age, &pr.BankMask, &pr.Status, &pr.RequestedAt)
			return pr, err
		}
	case storage.CollectionContent:
		query = `SELECT ` + contentColumns + ` FROM content ORDER BY created_at, id`
		scan = func(r pgx.Row) (any, error) { return scanContent(r) }
	case storage.CollectionLedgerEvents:
		query = `SELECT ` + eventColumns + ` FROM ledger_events ORDER BY created_at, id`
		scan = func(r pgx.Row) (any, error) { return scanEvent(r) }
	default:
		return nil, fmt.Errorf("%w: %s", storage.ErrUnknownCollection, collection)
	}

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("dump %s: %w", collection, err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (any, error) {
		return scan(row)
	})
}
