package auth

import (
	"context"
	"strings"

	"github.com/jobdesk/auth-service/internal/domain"
)

// VerifyEmail drives the Unverified -> Verified transition.
//
// The token must carry a valid, unexpired signature AND still match the
// value stored on the user record. The stored-value match is a single
// conditional update in the repo, so the token is consumed exactly once:
// a replay after consumption no longer matches and is rejected, even if
// the signature is still cryptographically valid.
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.ErrMissingField("token")
	}

	if _, err := s.signer.Verify(token); err != nil {
		return domain.ErrInvalidOrExpiredToken()
	}

	userID, err := s.users.ConsumeVerificationToken(ctx, token)
	if err != nil {
		if domain.Is(err, "user_not_found") {
			// No unverified user holds this token. A verified record still
			// carrying the token means a double submission; a consumed or
			// foreign token means rejection. Replays after a successful
			// verification land here with the stored value already cleared.
			if u, gerr := s.users.GetByVerificationToken(ctx, token); gerr == nil && u.IsVerified {
				return domain.ErrAlreadyVerified()
			}
			return domain.ErrInvalidOrExpiredToken()
		}
		return err
	}

	s.audit("email_verified", map[string]string{"user_id": userID})

	return nil
}
