// Package accounts contains the credential store: persistence of Account
// records keyed by internal id, unique email, and optional unique Google
// subject id.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/authgate/internal/server/models"
)

// Repository is the persistence contract for Account records. All lookups
// return common.ErrorNotFound when no row matches. Uniqueness of email and
// google_id is enforced by the database; a concurrent duplicate Create fails
// rather than corrupting the constraints.
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByGoogleID(ctx context.Context, googleID string) (*models.Account, error)
	FindByID(ctx context.Context, id string) (*models.Account, error)

	// DeleteByEmail is idempotent: deleting an absent email is a no-op.
	DeleteByEmail(ctx context.Context, email string) error
}
