package memory

import (
	"context"
	"sync"

	"github.com/jobdesk/auth-service/internal/domain"
)

// UserRepo is the in-memory credential store used when no DB_ADDR is
// configured and by handler tests. A single mutex covers every map so the
// token-consume path stays atomic.
type UserRepo struct {
	mu      sync.RWMutex
	byID    map[string]domain.User
	byEmail map[string]string // email -> userID
	byToken map[string]string // verification token -> userID
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
		byToken: make(map[string]string),
	}
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return r.byID[id], nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (r *UserRepo) GetByVerificationToken(ctx context.Context, token string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byToken[token]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return r.byID[id], nil
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[u.Email]; exists {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}
	if u.ID == "" {
		return domain.User{}, domain.ErrInternal(nil)
	}
	if !domain.IsValidRole(u.Role) {
		return domain.User{}, domain.ErrInvalidRole(u.Role)
	}

	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID
	if u.VerificationToken != nil {
		r.byToken[*u.VerificationToken] = u.ID
	}
	return u, nil
}

func (r *UserRepo) SetVerificationToken(ctx context.Context, userID string, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	if u.VerificationToken != nil {
		delete(r.byToken, *u.VerificationToken)
	}
	u.VerificationToken = &token
	r.byID[userID] = u
	r.byToken[token] = userID
	return nil
}

// ConsumeVerificationToken marks the holder verified and clears the token in
// one critical section. A second call with the same token misses the index
// and reports user_not_found, mirroring the conditional UPDATE in postgres.
func (r *UserRepo) ConsumeVerificationToken(ctx context.Context, token string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byToken[token]
	if !ok {
		return "", domain.ErrUserNotFound()
	}
	u := r.byID[id]
	if u.IsVerified {
		return "", domain.ErrUserNotFound()
	}

	u.IsVerified = true
	u.VerificationToken = nil
	r.byID[id] = u
	delete(r.byToken, token)
	return id, nil
}
