package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/crownhub/crowns-be/internal/models"
	"github.com/crownhub/crowns-be/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

// admissionLockKey names the advisory lock that serializes strict creator admission.
const admissionLockKey int64 = 0x63726f776e73

// Store provides Postgres-backed persistence for accounts, content and the ledger.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store and runs migrations.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Ping checks that the database answers.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			id TEXT PRIMARY KEY,
			display_name TEXT NOT NULL,
			email TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL CHECK (role IN ('fan', 'creator')),
			status TEXT NOT NULL,
			crowns BIGINT NOT NULL DEFAULT 0 CHECK (crowns >= 0),
			age INTEGER NOT NULL DEFAULT 0,
			bank_mask TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS accounts_email_unique_idx ON accounts (lower(email));`,
		`CREATE INDEX IF NOT EXISTS accounts_leaderboard_idx ON accounts (role, status, crowns DESC);`,
		`CREATE TABLE IF NOT EXISTS pending_reviews (
			account_id TEXT PRIMARY KEY REFERENCES accounts(id),
			display_name TEXT NOT NULL,
			email TEXT NOT NULL,
			age INTEGER NOT NULL,
			bank_mask TEXT NOT NULL,
			status TEXT NOT NULL,
			requested_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS content (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL REFERENCES accounts(id),
			media_url TEXT NOT NULL,
			media_type TEXT NOT NULL,
			caption TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS content_owner_created_idx ON content (owner_id, created_at DESC);`,
		`CREATE TABLE IF NOT EXISTS ledger_events (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL CHECK (kind IN ('purchase', 'withdrawal')),
			creator_id TEXT NOT NULL REFERENCES accounts(id),
			fan_id TEXT,
			crowns BIGINT NOT NULL,
			price_usd NUMERIC(24,2) NOT NULL DEFAULT 0,
			platform_fee_usd NUMERIC(24,2) NOT NULL DEFAULT 0,
			creator_usd NUMERIC(24,2) NOT NULL DEFAULT 0,
			original_crowns BIGINT NOT NULL DEFAULT 0,
			penalty BIGINT NOT NULL DEFAULT 0,
			final_crowns BIGINT NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			request_id TEXT UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS ledger_events_creator_idx ON ledger_events (creator_id, created_at DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

const accountColumns = `id, display_name, email, password_hash, role, status, crowns, age, bank_mask, created_at`

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertAccount(ctx context.Context, q querier, acct models.Account) (models.Account, error) {
	if acct.ID == "" {
		acct.ID = uuid.NewString()
	}
	query := `
		INSERT INTO accounts (id, display_name, email, password_hash, role, status, crowns, age, bank_mask)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + accountColumns
	row := q.QueryRow(ctx, query, acct.ID, acct.DisplayName, acct.Email, acct.PasswordHash,
		acct.Role, acct.Status, acct.Crowns, acct.Age, acct.BankMask)
	created, err := scanAccount(row)
	if err != nil {
		return models.Account{}, translate(err)
	}
	return created, nil
}

func insertReview(ctx context.Context, q querier, r models.PendingReview) error {
	const query = `
		INSERT INTO pending_reviews (account_id, display_name, email, age, bank_mask, status, requested_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := q.Exec(ctx, query, r.AccountID, r.DisplayName, r.Email, r.Age, r.BankMask, r.Status, r.RequestedAt)
	return translate(err)
}

// CreateAccount inserts a new account row.
func (s *Store) CreateAccount(ctx context.Context, acct models.Account) (models.Account, error) {
	return insertAccount(ctx, s.pool, acct)
}

// CreateCreator inserts the account and its pending-review mirror in one transaction.
func (s *Store) CreateCreator(ctx context.Context, acct models.Account) (models.Account, error) {
	var created models.Account
	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		var err error
		created, err = insertAccount(ctx, tx, acct)
		if err != nil {
			return err
		}
		return insertReview(ctx, tx, models.ReviewFor(created))
	})
	if err != nil {
		return models.Account{}, err
	}
	return created, nil
}

// AdmitCreator takes a transaction-scoped advisory lock, counts active creators and
// inserts the account with the status admit picks.
func (s *Store) AdmitCreator(ctx context.Context, acct models.Account, admit storage.AdmitFunc) (models.Account, error) {
	var created models.Account
	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, admissionLockKey); err != nil {
			return fmt.Errorf("acquire admission lock: %w", err)
		}
		count, err := countActiveCreators(ctx, tx)
		if err != nil {
			return err
		}
		acct.Status = admit(count)
		created, err = insertAccount(ctx, tx, acct)
		if err != nil {
			return err
		}
		return insertReview(ctx, tx, models.ReviewFor(created))
	})
	if err != nil {
		return models.Account{}, err
	}
	return created, nil
}

// CountActiveCreators counts creators with status active.
func (s *Store) CountActiveCreators(ctx context.Context) (int, error) {
	return countActiveCreators(ctx, s.pool)
}

func countActiveCreators(ctx context.Context, q querier) (int, error) {
	var n int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM accounts WHERE role = $1 AND status = $2`,
		models.RoleCreator, models.StatusActive).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count active creators: %w", err)
	}
	return n, nil
}

// FindAccount fetches an account by id.
func (s *Store) FindAccount(ctx context.Context, id string) (models.Account, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	acct, err := scanAccount(row)
	return acct, translate(err)
}

// FindAccountByEmail fetches an account by email address.
func (s *Store) FindAccountByEmail(ctx context.Context, email string) (models.Account, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE lower(email) = lower($1)`, email)
	acct, err := scanAccount(row)
	return acct, translate(err)
}

// ListActiveCreators returns active creators ordered by crowns, highest first.
func (s *Store) ListActiveCreators(ctx context.Context, limit int) ([]models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE role = $1 AND status = $2
		ORDER BY crowns DESC, created_at ASC
		LIMIT $3`
	rows, err := s.pool.Query(ctx, query, models.RoleCreator, models.StatusActive, limit)
	if err != nil {
		return nil, fmt.Errorf("list active creators: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Account, error) {
		return scanAccount(row)
	})
}

// ListPendingReviews returns pending reviews, oldest request first.
func (s *Store) ListPendingReviews(ctx context.Context) ([]models.PendingReview, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT account_id, display_name, email, age, bank_mask, status, requested_at
		FROM pending_reviews ORDER BY requested_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list pending reviews: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.PendingReview, error) {
		var r models.PendingReview
		err := row.Scan(&r.AccountID, &r.DisplayName, &r.Email, &r.Age, &r.BankMask, &r.Status, &r.RequestedAt)
		return r, err
	})
}

// ActivateCreator marks the creator active and removes its pending review.
func (s *Store) ActivateCreator(ctx context.Context, id string) (models.Account, error) {
	var acct models.Account
	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `UPDATE accounts SET status = $2 WHERE id = $1 RETURNING `+accountColumns,
			id, models.StatusActive)
		var err error
		acct, err = scanAccount(row)
		if err != nil {
			return translate(err)
		}
		_, err = tx.Exec(ctx, `DELETE FROM pending_reviews WHERE account_id = $1`, id)
		return err
	})
	if err != nil {
		return models.Account{}, err
	}
	return acct, nil
}

func scanAccount(row pgx.Row) (models.Account, error) {
	var acct models.Account
	err := row.Scan(&acct.ID, &acct.DisplayName, &acct.Email, &acct.PasswordHash, &acct.Role,
		&acct.Status, &acct.Crowns, &acct.Age, &acct.BankMask, &acct.CreatedAt)
	if err != nil {
		return models.Account{}, err
	}
	return acct, nil
}

// translate maps driver errors onto the storage sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return storage.ErrAlreadyExists
	}
	return err
}
