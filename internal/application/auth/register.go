package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jobdesk/auth-service/internal/domain"
)

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      string
	Company   *domain.CompanyDetails
}

// Register creates an unverified user, stamps a verification token on the
// record, and dispatches the verification email. If the mail dispatch fails
// the created record remains (no compensating rollback); the caller sees a
// server error and the user can be re-verified later out of band.
func (s *Service) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	in.Email = strings.TrimSpace(in.Email)

	if in.Email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if in.Password == "" {
		return domain.User{}, domain.ErrMissingField("password")
	}
	if !domain.IsValidRole(in.Role) {
		return domain.User{}, domain.ErrInvalidRole(in.Role)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, domain.ErrHashFailed(err)
	}

	u := domain.User{
		ID:           uuid.NewString(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		IsVerified:   false,
	}
	// Company details are persisted only for company accounts.
	if in.Role == string(domain.RoleCompany) {
		u.Company = in.Company
	}

	created, err := s.users.Create(ctx, u)
	if err != nil {
		return domain.User{}, err
	}

	token, err := s.signer.Sign(created.ID, s.verifyTTL)
	if err != nil {
		return domain.User{}, domain.ErrTokenSignFailed(err)
	}

	if err := s.users.SetVerificationToken(ctx, created.ID, token); err != nil {
		return domain.User{}, err
	}
	created.VerificationToken = &token

	verifyURL := s.verifyEmailBaseURL + token
	if err := s.mailer.SendVerificationEmail(ctx, created.Email, verifyURL); err != nil {
		return domain.User{}, domain.ErrMailDispatchFailed(err)
	}

	s.audit("user_registered", map[string]string{
		"user_id": created.ID,
		"role":    created.Role,
	})

	return created, nil
}
