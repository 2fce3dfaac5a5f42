package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/crownhub/crowns-be/internal/models"
	"github.com/crownhub/crowns-be/internal/storage"
)

const eventColumns = `id, kind, creator_id, fan_id, crowns, price_usd, platform_fee_usd, creator_usd,
	original_crowns, penalty, final_crowns, status, COALESCE(request_id, ''), created_at`

// MutateAccount locks the account row with SELECT ... FOR UPDATE, applies fn and writes the
// new balance and the event in the same transaction.
func (s *Store) MutateAccount(ctx context.Context, accountID, requestID string, fn storage.MutateFunc) (models.LedgerEvent, error) {
	var event models.LedgerEvent
	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, accountID)
		acct, err := scanAccount(row)
		if err != nil {
			return translate(err)
		}

		if requestID != "" {
			existing, err := findEventByRequestID(ctx, tx, requestID)
			switch {
			case err == nil:
				event = existing
				return nil
			case !errors.Is(err, storage.ErrNotFound):
				return err
			}
		}

		working := acct
		next, err := fn(&working)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE accounts SET crowns = $2, status = $3 WHERE id = $1`,
			accountID, working.Crowns, working.Status); err != nil {
			return fmt.Errorf("update account %s: %w", accountID, err)
		}

		if next.ID == "" {
			next.ID = uuid.NewString()
		}
		next.RequestID = requestID
		event, err = insertEvent(ctx, tx, next)
		return err
	})
	if err != nil {
		return models.LedgerEvent{}, err
	}
	return event, nil
}

func insertEvent(ctx context.Context, tx pgx.Tx, e models.LedgerEvent) (models.LedgerEvent, error) {
	var requestID *string
	if e.RequestID != "" {
		requestID = &e.RequestID
	}
	query := `
		INSERT INTO ledger_events (id, kind, creator_id, fan_id, crowns, price_usd, platform_fee_usd, creator_usd,
			original_crowns, penalty, final_crowns, status, request_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + eventColumns
	row := tx.QueryRow(ctx, query, e.ID, e.Kind, e.CreatorID, e.FanID, e.Crowns,
		e.PriceUSD, e.PlatformFeeUSD, e.CreatorUSD, e.OriginalCrowns, e.Penalty, e.FinalCrowns,
		e.Status, requestID)
	stored, err := scanEvent(row)
	if err != nil {
		return models.LedgerEvent{}, fmt.Errorf("insert ledger event: %w", translate(err))
	}
	return stored, nil
}

func findEventByRequestID(ctx context.Context, q querier, requestID string) (models.LedgerEvent, error) {
	row := q.QueryRow(ctx, `SELECT `+eventColumns+` FROM ledger_events WHERE request_id = $1`, requestID)
	e, err := scanEvent(row)
	return e, translate(err)
}

// ListEvents returns a creator's ledger events, newest first.
func (s *Store) ListEvents(ctx context.Context, creatorID string) ([]models.LedgerEvent, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+eventColumns+` FROM ledger_events
		WHERE creator_id = $1 ORDER BY created_at DESC`, creatorID)
	if err != nil {
		return nil, fmt.Errorf("list ledger events: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.LedgerEvent, error) {
		return scanEvent(row)
	})
}

func scanEvent(row pgx.Row) (models.LedgerEvent, error) {
	var e models.LedgerEvent
	err := row.Scan(&e.ID, &e.Kind, &e.CreatorID, &e.FanID, &e.Crowns, &e.PriceUSD, &e.PlatformFeeUSD,
		&e.CreatorUSD, &e.OriginalCrowns, &e.Penalty, &e.FinalCrowns, &e.Status, &e.RequestID, &e.CreatedAt)
	if err != nil {
		return models.LedgerEvent{}, err
	}
	return e, nil
}
