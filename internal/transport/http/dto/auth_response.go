package dto

import "github.com/jobdesk/auth-service/internal/domain"

// MessageData is returned by signup and verify-email.
type MessageData struct {
	Message string `json:"message"`
}

// TokenData is returned by login.
type TokenData struct {
	Token string `json:"token"`
}

// UserView is the client-facing user payload. PasswordHash and the
// verification token never appear here.
type UserView struct {
	ID             string                 `json:"id"`
	FirstName      string                 `json:"firstName"`
	LastName       string                 `json:"lastName"`
	Email          string                 `json:"email"`
	Role           string                 `json:"role"`
	IsVerified     bool                   `json:"isVerified"`
	CompanyDetails *domain.CompanyDetails `json:"companyDetails,omitempty"`
}

func NewUserView(u domain.User) UserView {
	return UserView{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		Role:           u.Role,
		IsVerified:     u.IsVerified,
		CompanyDetails: u.Company,
	}
}
