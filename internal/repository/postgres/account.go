package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/campusreport/identity-server/internal/model"
)

// DB is the subset of pgxpool.Pool the repository needs. Tests substitute a
// pgxmock pool through it.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ model.AccountStore = (*AccountRepository)(nil)

// AccountRepository persists accounts. Secrets cross its boundary as
// plaintext on the transient Secret field and are hashed before any write;
// plaintext is never stored and reads return only the hash.
type AccountRepository struct {
	db     DB
	hasher model.SecretHasher
}

func NewAccountRepository(db DB, hasher model.SecretHasher) *AccountRepository {
	return &AccountRepository{
		db:     db,
		hasher: hasher,
	}
}

const accountColumns = `id, email, secret_hash, anonymous_code, is_verified,
			  verification_token, verification_expiry, last_authenticated_at, active, created_at, updated_at`

func scanAccount(row pgx.Row) (model.Account, error) {
	var account model.Account
	err := row.Scan(
		&account.ID, &account.Email, &account.SecretHash, &account.AnonymousCode, &account.Verified,
		&account.VerificationToken, &account.VerificationExpiry, &account.LastAuthenticatedAt,
		&account.Active, &account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, err
	}

	return account, nil
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`

	account, err := scanAccount(r.db.QueryRow(ctx, query, model.NormalizeEmail(email)))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, fmt.Errorf("failed to get account by email: %w", err)
	}

	return account, nil
}

func (r *AccountRepository) GetByCode(ctx context.Context, code string) (model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE anonymous_code = $1`

	account, err := scanAccount(r.db.QueryRow(ctx, query, model.NormalizeCode(code)))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, fmt.Errorf("failed to get account by code: %w", err)
	}

	return account, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := scanAccount(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, fmt.Errorf("failed to get account by id: %w", err)
	}

	return account, nil
}

// GetByVerificationToken matches an unconsumed, unexpired token. Consumed
// tokens are nulled out, so a second lookup of the same token finds nothing.
func (r *AccountRepository) GetByVerificationToken(ctx context.Context, verificationToken string, now time.Time) (model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
			  WHERE verification_token = $1 AND verification_expiry > $2`

	account, err := scanAccount(r.db.QueryRow(ctx, query, verificationToken, now))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, fmt.Errorf("failed to get account by verification token: %w", err)
	}

	return account, nil
}

func (r *AccountRepository) Create(ctx context.Context, account model.Account) (model.Account, error) {
	if err := r.rehashSecret(&account); err != nil {
		return model.Account{}, err
	}

	query := `INSERT INTO accounts (` + accountColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			  RETURNING ` + accountColumns

	savedAccount, err := scanAccount(r.db.QueryRow(ctx, query,
		account.ID, model.NormalizeEmail(account.Email), account.SecretHash, account.AnonymousCode,
		account.Verified, account.VerificationToken, account.VerificationExpiry,
		account.LastAuthenticatedAt, account.Active, account.CreatedAt, account.UpdatedAt,
	))
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return model.Account{}, mapped
		}
		return model.Account{}, fmt.Errorf("failed to create account: %w", err)
	}

	return savedAccount, nil
}

// Update persists the mutable account fields in a single statement. A
// unique-index violation on the anonymous code surfaces as ErrCodeCollision
// so the verification workflow can regenerate; it must never silently
// overwrite another account's code.
func (r *AccountRepository) Update(ctx context.Context, account model.Account) (model.Account, error) {
	if err := r.rehashSecret(&account); err != nil {
		return model.Account{}, err
	}

	query := `UPDATE accounts
			  SET secret_hash = $2, anonymous_code = $3, is_verified = $4,
				  verification_token = $5, verification_expiry = $6, active = $7, updated_at = $8
			  WHERE id = $1
			  RETURNING ` + accountColumns

	savedAccount, err := scanAccount(r.db.QueryRow(ctx, query,
		account.ID, account.SecretHash, account.AnonymousCode, account.Verified,
		account.VerificationToken, account.VerificationExpiry, account.Active, time.Now(),
	))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Account{}, model.ErrNotFound
		}
		if mapped := mapUniqueViolation(err); mapped != nil {
			return model.Account{}, mapped
		}
		return model.Account{}, fmt.Errorf("failed to update account: %w", err)
	}

	return savedAccount, nil
}

func (r *AccountRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE accounts SET last_authenticated_at = $2, updated_at = $2 WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM accounts WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	return nil
}

// rehashSecret replaces a plaintext secret with its hash before the row is
// written and drops the plaintext.
func (r *AccountRepository) rehashSecret(account *model.Account) error {
	if account.Secret == "" {
		return nil
	}

	hash, err := r.hasher.Hash(account.Secret)
	if err != nil {
		return fmt.Errorf("failed to hash account secret: %w", err)
	}

	account.SecretHash = hash
	account.Secret = ""
	return nil
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return nil
	}

	switch pgErr.ConstraintName {
	case "accounts_email_key":
		return model.ErrDuplicateEmail
	case "accounts_anonymous_code_key":
		return model.ErrCodeCollision
	default:
		return nil
	}
}
