package accounts

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func accountRows(a *models.Account) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "password_hash", "google_id", "name", "avatar_url", "created_at"}).
		AddRow(a.ID, a.Email, nullIfEmpty(a.PasswordHash), nullIfEmpty(a.GoogleID), a.Name, nullIfEmpty(a.AvatarURL), a.CreatedAt)
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+accounts\s*\(id,\s*email,\s*password_hash,\s*google_id,\s*name,\s*avatar_url\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6\)\s*RETURNING\s+created_at\s*$`

	created := time.Now()
	rows := sqlmock.NewRows([]string{"created_at"}).AddRow(created)
	mock.ExpectQuery(q).
		WithArgs(sqlmock.AnyArg(), "a@x.com", nullIfEmpty("hash"), nullIfEmpty(""), "A", nullIfEmpty("")).
		WillReturnRows(rows)

	a := &models.Account{Email: "a@x.com", PasswordHash: "hash", Name: "A"}
	got, err := repo.Create(context.Background(), a)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID == "" {
		t.Fatalf("expected assigned id, got empty")
	}
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected created_at: %v", got.CreatedAt)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+accounts`).
		WillReturnError(errors.New("duplicate key value violates unique constraint"))

	_, err := repo.Create(context.Background(), &models.Account{Email: "a@x.com", Name: "A"})
	if err == nil || !regexp.MustCompile(`error performing sql request: .*duplicate key`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestFindByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*email,\s*password_hash,\s*google_id,\s*name,\s*avatar_url,\s*created_at\s+FROM\s+accounts\s+WHERE\s+email\s*=\s*\$1$`

	want := &models.Account{ID: "u-1", Email: "a@x.com", PasswordHash: "hash", Name: "A", CreatedAt: time.Now()}
	mock.ExpectQuery(q).WithArgs("a@x.com").WillReturnRows(accountRows(want))

	got, err := repo.FindByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("FindByEmail error: %v", err)
	}
	if got.ID != "u-1" || got.Email != "a@x.com" || got.PasswordHash != "hash" {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestFindByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM accounts WHERE email`).
		WithArgs("missing@x.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "missing@x.com")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestFindByGoogleID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	want := &models.Account{ID: "u-2", Email: "g@x.com", GoogleID: "goog-1", Name: "G", AvatarURL: "http://img", CreatedAt: time.Now()}
	mock.ExpectQuery(`SELECT .* FROM accounts WHERE google_id`).
		WithArgs("goog-1").
		WillReturnRows(accountRows(want))

	got, err := repo.FindByGoogleID(context.Background(), "goog-1")
	if err != nil {
		t.Fatalf("FindByGoogleID error: %v", err)
	}
	if got.GoogleID != "goog-1" || got.AvatarURL != "http://img" || got.PasswordHash != "" {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestFindByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM accounts WHERE id`).
		WithArgs("u-404").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "u-404")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestDeleteByEmail_Idempotent(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	// zero rows affected is still a success
	mock.ExpectExec(`DELETE\s+FROM\s+accounts\s+WHERE\s+email\s*=\s*\$1`).
		WithArgs("gone@x.com").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.DeleteByEmail(context.Background(), "gone@x.com"); err != nil {
		t.Fatalf("DeleteByEmail error: %v", err)
	}
}

func TestDeleteByEmail_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+accounts`).
		WithArgs("a@x.com").
		WillReturnError(errors.New("db down"))

	err := repo.DeleteByEmail(context.Background(), "a@x.com")
	if err == nil || !regexp.MustCompile(`error performing sql request: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
