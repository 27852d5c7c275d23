package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobdesk/auth-service/internal/domain"
)

var userCols = []string{
	"id", "first_name", "last_name", "email", "password_hash", "role",
	"company_details", "is_verified", "verification_token", "created_at",
}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *UserRepo) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "failed to create mock database")

	return db, mock, NewUserRepo(db)
}

func sampleRow(token any) *sqlmock.Rows {
	created := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	return sqlmock.NewRows(userCols).AddRow(
		"u1", "Ada", "Lovelace", "Ada@x.com", "$2a$10$hash", "individual",
		nil, false, token, created,
	)
}

func TestUserRepo_GetByEmail_Success(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT .+ FROM users\s+WHERE email = \$1`).
		WithArgs("Ada@x.com").
		WillReturnRows(sampleRow("pending-token"))

	u, err := repo.GetByEmail(context.Background(), "Ada@x.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	require.NotNil(t, u.VerificationToken)
	assert.Equal(t, "pending-token", *u.VerificationToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_GetByEmail_NotFound(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT .+ FROM users\s+WHERE email = \$1`).
		WithArgs("nobody@x.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "nobody@x.com")
	assert.True(t, domain.Is(err, "user_not_found"), "got %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_GetByVerificationToken_Success(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT .+ FROM users\s+WHERE verification_token = \$1`).
		WithArgs("tok-1").
		WillReturnRows(sampleRow("tok-1"))

	u, err := repo.GetByVerificationToken(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Create_Success_WithCompanyDetails(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	created := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows(userCols).AddRow(
		"u2", "Grace", "Hopper", "g@x.com", "$2a$10$hash", "company",
		[]byte(`{"companyName":"Acme"}`), false, nil, created,
	)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("u2", "Grace", "Hopper", "g@x.com", "$2a$10$hash", "company",
			[]byte(`{"companyName":"Acme"}`), false).
		WillReturnRows(rows)

	u, err := repo.Create(context.Background(), domain.User{
		ID: "u2", FirstName: "Grace", LastName: "Hopper",
		Email: "g@x.com", PasswordHash: "$2a$10$hash", Role: "company",
		Company: &domain.CompanyDetails{CompanyName: "Acme"},
	})
	require.NoError(t, err)
	require.NotNil(t, u.Company)
	assert.Equal(t, "Acme", u.Company.CompanyName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Create_DuplicateEmail(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(errors.New(`pq: duplicate key value violates unique constraint "users_email_key"`))

	_, err := repo.Create(context.Background(), domain.User{
		ID: "u3", Email: "a@x.com", PasswordHash: "$2a$10$hash", Role: "individual",
	})
	assert.True(t, domain.Is(err, "email_already_exists"), "got %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Create_InvalidRole(t *testing.T) {
	db, _, repo := setupMockDB(t)
	defer db.Close()

	_, err := repo.Create(context.Background(), domain.User{
		ID: "u4", Email: "a@x.com", PasswordHash: "$2a$10$hash", Role: "admin",
	})
	assert.True(t, domain.Is(err, "invalid_role"), "got %v", err)
}

func TestUserRepo_SetVerificationToken_Success(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE users\s+SET verification_token = \$2\s+WHERE id = \$1`).
		WithArgs("u1", "tok-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetVerificationToken(context.Background(), "u1", "tok-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_SetVerificationToken_NoRows_UserNotFound(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE users\s+SET verification_token = \$2\s+WHERE id = \$1`).
		WithArgs("missing", "tok-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetVerificationToken(context.Background(), "missing", "tok-1")
	assert.True(t, domain.Is(err, "user_not_found"), "got %v", err)
}

func TestUserRepo_ConsumeVerificationToken_Success(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`UPDATE users\s+SET is_verified = TRUE,\s+verification_token = NULL\s+WHERE verification_token = \$1\s+AND is_verified = FALSE`).
		WithArgs("tok-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("u1"))

	id, err := repo.ConsumeVerificationToken(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "u1", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_ConsumeVerificationToken_NoMatch(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`UPDATE users`).
		WithArgs("consumed-or-foreign").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.ConsumeVerificationToken(context.Background(), "consumed-or-foreign")
	assert.True(t, domain.Is(err, "user_not_found"), "got %v", err)
}

func TestUserRepo_GetByEmail_DatabaseError(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT .+ FROM users`).
		WithArgs("a@x.com").
		WillReturnError(sql.ErrConnDone)

	_, err := repo.GetByEmail(context.Background(), "a@x.com")
	assert.True(t, domain.Is(err, "db_unavailable"), "got %v", err)
}
