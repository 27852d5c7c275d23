package auth

import (
	"context"
	"strings"

	"github.com/jobdesk/auth-service/internal/domain"
)

// Login authenticates a user and issues a session token.
// IMPORTANT: must not leak whether the email exists (avoid user enumeration).
// A session token is only ever issued for a verified user.
func (s *Service) Login(ctx context.Context, email, password, role string) (string, domain.User, error) {
	email = strings.TrimSpace(email)

	if email == "" || password == "" {
		return "", domain.User{}, domain.ErrInvalidCredentials()
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// Hide not-found behind invalid credentials
		return "", domain.User{}, domain.ErrInvalidCredentials()
	}

	if !u.IsVerified {
		return "", domain.User{}, domain.ErrEmailNotVerified()
	}

	if role != u.Role {
		return "", domain.User{}, domain.ErrRoleMismatch()
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return "", domain.User{}, domain.ErrInvalidCredentials()
	}

	token, err := s.signer.Sign(u.ID, s.sessionTTL)
	if err != nil {
		return "", domain.User{}, domain.ErrTokenSignFailed(err)
	}

	s.audit("user_logged_in", map[string]string{"user_id": u.ID})

	return token, u, nil
}
