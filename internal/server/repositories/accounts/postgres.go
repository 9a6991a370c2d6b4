package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/dbx"
	"github.com/dmitrijs2005/authgate/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX handle, so the
// same code serves both pooled connections and transactions.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new account, assigning a fresh id. Optional fields
// (password_hash, google_id, avatar_url) are stored as NULL when empty so
// the partial unique index on google_id only covers real values.
func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {

	account.ID = uuid.NewString()

	query :=
		`INSERT INTO accounts (id, email, password_hash, google_id, name, avatar_url)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		account.ID, account.Email,
		nullIfEmpty(account.PasswordHash), nullIfEmpty(account.GoogleID),
		account.Name, nullIfEmpty(account.AvatarURL)).Scan(&account.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := selectAccount + ` WHERE email = $1`
	return r.findOne(ctx, query, email)
}

func (r *PostgresRepository) FindByGoogleID(ctx context.Context, googleID string) (*models.Account, error) {
	query := selectAccount + ` WHERE google_id = $1`
	return r.findOne(ctx, query, googleID)
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	query := selectAccount + ` WHERE id = $1`
	return r.findOne(ctx, query, id)
}

func (r *PostgresRepository) DeleteByEmail(ctx context.Context, email string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	return nil
}

const selectAccount = `SELECT id, email, password_hash, google_id, name, avatar_url, created_at FROM accounts`

func (r *PostgresRepository) findOne(ctx context.Context, query string, arg any) (*models.Account, error) {
	account := &models.Account{}
	var passwordHash, googleID, avatarURL sql.NullString

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&account.ID, &account.Email, &passwordHash, &googleID,
		&account.Name, &avatarURL, &account.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	account.PasswordHash = passwordHash.String
	account.GoogleID = googleID.String
	account.AvatarURL = avatarURL.String

	return account, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
