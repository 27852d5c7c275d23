package auth

import (
	"time"
)

type Service struct {
	users  UserRepo
	hasher PasswordHasher
	signer TokenSigner
	mailer Mailer

	sessionTTL time.Duration
	verifyTTL  time.Duration

	// Base URL for links sent by the mailer, e.g.
	// http://localhost:8080/verify-email?token=
	verifyEmailBaseURL string

	audit func(action string, fields map[string]string)
}

type Config struct {
	SessionTokenTTL    time.Duration
	VerifyTokenTTL     time.Duration
	VerifyEmailBaseURL string
}

func NewService(users UserRepo, hasher PasswordHasher, signer TokenSigner, mailer Mailer, cfg Config) *Service {
	sessionTTL := cfg.SessionTokenTTL
	if sessionTTL <= 0 {
		sessionTTL = time.Hour
	}
	verifyTTL := cfg.VerifyTokenTTL
	if verifyTTL <= 0 {
		verifyTTL = 24 * time.Hour
	}
	return &Service{
		users:  users,
		hasher: hasher,
		signer: signer,
		mailer: mailer,

		sessionTTL:         sessionTTL,
		verifyTTL:          verifyTTL,
		verifyEmailBaseURL: cfg.VerifyEmailBaseURL,

		audit: func(string, map[string]string) {},
	}
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}
