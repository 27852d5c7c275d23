package auth

import (
	"context"
	"time"

	"github.com/jobdesk/auth-service/internal/domain"
)

/*
UserRepo
--------
Persistence port for users.
Only describes WHAT the auth service needs, not HOW it's stored.
*/
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByVerificationToken(ctx context.Context, token string) (domain.User, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)

	// SetVerificationToken stores the most recently issued verification
	// token on the user record.
	SetVerificationToken(ctx context.Context, userID string, token string) error

	// ConsumeVerificationToken is a single conditional update: it matches
	// token against the stored verification_token of an unverified user,
	// marks the user verified, and clears the token. Returns the user ID on
	// success and ErrUserNotFound when no row matches. Two concurrent calls
	// with the same token cannot both succeed.
	ConsumeVerificationToken(ctx context.Context, token string) (userID string, err error)
}

/*
PasswordHasher
--------------
Abstracts bcrypt.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error // nil if match
}

/*
TokenSigner
-----------
Issues and verifies signed tokens. One shared secret; the TTL alone
distinguishes a session token from a verification token.
Used by service + auth middleware.
*/
type TokenClaims struct {
	UserID string
	Exp    time.Time
}

type TokenSigner interface {
	Sign(userID string, ttl time.Duration) (string, error)
	Verify(token string) (TokenClaims, error)
}

/*
Mailer
------
Out-of-band delivery of verification links. Implementations: SMTP,
an AMQP event publisher consumed by a mail worker, or log-only for dev.
*/
type Mailer interface {
	SendVerificationEmail(ctx context.Context, to string, verifyURL string) error
}
