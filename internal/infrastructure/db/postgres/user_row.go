package postgres

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jobdesk/auth-service/internal/domain"
)

type userRow struct {
	ID                string
	FirstName         string
	LastName          string
	Email             string
	PasswordHash      string
	Role              string
	CompanyDetails    []byte // JSONB, null for individual accounts
	IsVerified        bool
	VerificationToken sql.NullString
	CreatedAt         time.Time
}

func toDomainUser(ur userRow) (domain.User, error) {
	u := domain.User{
		ID:           ur.ID,
		FirstName:    ur.FirstName,
		LastName:     ur.LastName,
		Email:        ur.Email,
		PasswordHash: ur.PasswordHash,
		Role:         ur.Role,
		IsVerified:   ur.IsVerified,
		CreatedAt:    ur.CreatedAt,
	}
	if ur.VerificationToken.Valid {
		tok := ur.VerificationToken.String
		u.VerificationToken = &tok
	}
	if len(ur.CompanyDetails) > 0 {
		var cd domain.CompanyDetails
		if err := json.Unmarshal(ur.CompanyDetails, &cd); err != nil {
			return domain.User{}, err
		}
		u.Company = &cd
	}
	return u, nil
}
