package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/jobdesk/auth-service/internal/domain"
)

const userColumns = `id, first_name, last_name, email, password_hash, role, company_details, is_verified, verification_token, created_at`

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// ---------- helpers ----------

func (r *UserRepo) scanUserRow(row *sql.Row) (userRow, error) {
	var ur userRow
	err := row.Scan(
		&ur.ID,
		&ur.FirstName,
		&ur.LastName,
		&ur.Email,
		&ur.PasswordHash,
		&ur.Role,
		&ur.CompanyDetails,
		&ur.IsVerified,
		&ur.VerificationToken,
		&ur.CreatedAt,
	)
	return ur, err
}

func (r *UserRepo) rowToUser(ur userRow, scanErr error) (domain.User, error) {
	if scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(scanErr)
	}
	u, err := toDomainUser(ur)
	if err != nil {
		return domain.User{}, domain.ErrInternal(err)
	}
	return u, nil
}

// ---------- auth.UserRepo ----------

// GetByEmail looks the user up by exact, case-sensitive email. Case
// sensitivity is deliberate; normalizing here would silently merge
// addresses that the rest of the system treats as distinct.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}

	const q = `
SELECT ` + userColumns + `
FROM users
WHERE email = $1
LIMIT 1;
`
	ur, err := r.scanUserRow(r.db.QueryRowContext(ctx, q, email))
	return r.rowToUser(ur, err)
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}

	const q = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1
LIMIT 1;
`
	ur, err := r.scanUserRow(r.db.QueryRowContext(ctx, q, id))
	return r.rowToUser(ur, err)
}

func (r *UserRepo) GetByVerificationToken(ctx context.Context, token string) (domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.User{}, domain.ErrMissingField("token")
	}

	const q = `
SELECT ` + userColumns + `
FROM users
WHERE verification_token = $1
LIMIT 1;
`
	ur, err := r.scanUserRow(r.db.QueryRowContext(ctx, q, token))
	return r.rowToUser(ur, err)
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	u.Email = strings.TrimSpace(u.Email)
	if u.ID == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}
	if u.Email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if u.PasswordHash == "" {
		return domain.User{}, domain.ErrMissingField("password_hash")
	}
	if !domain.IsValidRole(u.Role) {
		return domain.User{}, domain.ErrInvalidRole(u.Role)
	}

	var company any
	if u.Company != nil {
		b, err := json.Marshal(u.Company)
		if err != nil {
			return domain.User{}, domain.ErrInternal(err)
		}
		company = b
	}

	const q = `
INSERT INTO users (id, first_name, last_name, email, password_hash, role, company_details, is_verified)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
RETURNING ` + userColumns + `;
`
	ur, err := r.scanUserRow(r.db.QueryRowContext(ctx, q,
		u.ID, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.Role, company, u.IsVerified,
	))
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return r.rowToUser(ur, nil)
}

func (r *UserRepo) SetVerificationToken(ctx context.Context, userID string, token string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.ErrMissingField("user_id")
	}
	if token == "" {
		return domain.ErrMissingField("token")
	}

	const q = `
UPDATE users
SET verification_token = $2
WHERE id = $1;
`
	res, err := r.db.ExecContext(ctx, q, userID, token)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

// ConsumeVerificationToken performs the compare-stored-token-and-clear step
// as one conditional update, so two concurrent requests presenting the same
// token cannot both observe it unconsumed.
func (r *UserRepo) ConsumeVerificationToken(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", domain.ErrMissingField("token")
	}

	const q = `
UPDATE users
SET is_verified = TRUE,
    verification_token = NULL
WHERE verification_token = $1
  AND is_verified = FALSE
RETURNING id;
`
	var id string
	err := r.db.QueryRowContext(ctx, q, token).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrUserNotFound()
		}
		return "", domain.ErrDBUnavailable(err)
	}
	return id, nil
}
