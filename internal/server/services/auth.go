// Package services contains server-side business logic. This file implements
// AuthService, which handles registration, password login, Google federated
// login, and token verification.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/dbx"
	"github.com/dmitrijs2005/authgate/internal/server/auth"
	"github.com/dmitrijs2005/authgate/internal/server/config"
	"github.com/dmitrijs2005/authgate/internal/server/models"
	"github.com/dmitrijs2005/authgate/internal/server/passwords"
	"github.com/dmitrijs2005/authgate/internal/server/repositories/repomanager"
)

// AccountSummary is the public projection of an Account returned by every
// operation. AvatarURL is omitted when the account has none.
type AccountSummary struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// AuthResult bundles a freshly issued token with the account it asserts.
type AuthResult struct {
	Token   string
	Account AccountSummary
}

// AuthService provides the four authentication operations:
//   - Register: create an account from email+password and mint a token
//   - Login: verify a password and mint a token
//   - GoogleLogin: find-or-create an account by Google subject id and mint a token
//   - Verify: open a previously issued token and return its account
//
// Each operation is a single-shot, stateless transaction; validation
// precedes any store access.
type AuthService struct {
	db                *sql.DB
	repomanager       repomanager.RepositoryManager
	hasher            passwords.Hasher
	jwtSecret         []byte
	tokenValidity     time.Duration
	registerOverwrite bool
}

// NewAuthService constructs an AuthService using repositories, a password
// hasher, and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, hasher passwords.Hasher, cfg *config.Config) *AuthService {
	return &AuthService{
		db:                db,
		repomanager:       m,
		hasher:            hasher,
		jwtSecret:         []byte(cfg.SecretKey),
		tokenValidity:     cfg.TokenValidityDuration,
		registerOverwrite: cfg.RegisterOverwrite,
	}
}

// Register creates a new password account and issues a token for it.
//
// A duplicate email is rejected with common.ErrorEmailExists unless the
// server runs with register-overwrite enabled, in which case the previous
// account is deleted and replaced inside one transaction.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", common.ErrorValidation)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrorValidation)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	account := &models.Account{Email: email, PasswordHash: hash, Name: name}

	repo := s.repomanager.Accounts(s.db)
	_, err = repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if !s.registerOverwrite {
			return nil, common.ErrorEmailExists
		}
		if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			repoTx := s.repomanager.Accounts(tx)
			if err := repoTx.DeleteByEmail(ctx, email); err != nil {
				return err
			}
			created, err := repoTx.Create(ctx, account)
			if err != nil {
				return err
			}
			account = created
			return nil
		}); err != nil {
			return nil, common.ErrorInternal
		}
	case errors.Is(err, common.ErrorNotFound):
		account, err = repo.Create(ctx, account)
		if err != nil {
			return nil, common.ErrorInternal
		}
	default:
		return nil, common.ErrorInternal
	}

	return s.issueFor(account)
}

// Login verifies the password for an email and issues a token on success.
// Unknown email, federated-only account, and wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", common.ErrorValidation)
	}

	repo := s.repomanager.Accounts(s.db)
	account, err := repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInvalidCredentials
		}
		return nil, common.ErrorInternal
	}

	if account.PasswordHash == "" || !s.hasher.Verify(password, account.PasswordHash) {
		return nil, common.ErrorInvalidCredentials
	}

	return s.issueFor(account)
}

// GoogleLogin authenticates via a Google subject id, creating the account on
// first sighting. For an existing account the stored profile wins: supplied
// email, name, and avatar are ignored.
func (s *AuthService) GoogleLogin(ctx context.Context, googleID, email, name, avatarURL string) (*AuthResult, error) {
	if googleID == "" {
		return nil, fmt.Errorf("%w: google_id is required", common.ErrorValidation)
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrorValidation)
	}

	repo := s.repomanager.Accounts(s.db)
	account, err := repo.FindByGoogleID(ctx, googleID)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInternal
		}
		account, err = repo.Create(ctx, &models.Account{
			Email:     email,
			GoogleID:  googleID,
			Name:      name,
			AvatarURL: avatarURL,
		})
		if err != nil {
			return nil, common.ErrorInternal
		}
	}

	return s.issueFor(account)
}

// Verify opens a previously issued token and returns the account it asserts.
// All verification failures (malformed, tampered, expired) collapse to
// common.ErrInvalidToken; a token whose account no longer exists yields
// common.ErrorUserNotFound.
func (s *AuthService) Verify(ctx context.Context, token string) (*AccountSummary, error) {
	if token == "" {
		return nil, common.ErrNoToken
	}

	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	repo := s.repomanager.Accounts(s.db)
	account, err := repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUserNotFound
		}
		return nil, common.ErrorInternal
	}

	summary := summaryOf(account)
	return &summary, nil
}

// --- helpers below ---

func (s *AuthService) issueFor(account *models.Account) (*AuthResult, error) {
	token, err := auth.GenerateToken(account.ID, account.Email, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &AuthResult{Token: token, Account: summaryOf(account)}, nil
}

func summaryOf(account *models.Account) AccountSummary {
	return AccountSummary{
		ID:        account.ID,
		Email:     account.Email,
		Name:      account.Name,
		AvatarURL: account.AvatarURL,
	}
}

// validateEmail accepts a bare RFC 5322 address with a dotted host. Display
// names ("A <a@x.com>") and dotless hosts ("a@localhost") are rejected.
func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("%w: invalid email", common.ErrorValidation)
	}
	host := email[strings.LastIndex(email, "@")+1:]
	if !strings.Contains(host, ".") {
		return fmt.Errorf("%w: invalid email", common.ErrorValidation)
	}
	return nil
}
