package domain

import "time"

// CompanyDetails is present only for users registered with RoleCompany.
type CompanyDetails struct {
	CompanyName string `json:"companyName,omitempty"`
	Website     string `json:"website,omitempty"`
	Address     string `json:"address,omitempty"`
}

type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         string
	Company      *CompanyDetails

	// While IsVerified is false, VerificationToken holds the most recently
	// issued verification token. A verified user always has
	// VerificationToken == nil.
	IsVerified        bool
	VerificationToken *string

	CreatedAt time.Time
}
