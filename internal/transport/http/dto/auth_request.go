package dto

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jobdesk/auth-service/internal/domain"
)

var validate = validator.New()

// -------- Signup --------

type CompanyDetails struct {
	CompanyName string `json:"companyName" validate:"omitempty,max=200"`
	Website     string `json:"website" validate:"omitempty,max=300"`
	Address     string `json:"address" validate:"omitempty,max=500"`
}

type SignupRequest struct {
	FirstName      string          `json:"firstName" validate:"required,max=100"`
	LastName       string          `json:"lastName" validate:"required,max=100"`
	Email          string          `json:"email" validate:"required,email"`
	Password       string          `json:"password" validate:"required,min=6,max=128"`
	Role           string          `json:"role" validate:"required,oneof=individual company"`
	CompanyDetails *CompanyDetails `json:"companyDetails" validate:"omitempty"`
}

func (r *SignupRequest) Validate() error {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)

	if err := validate.Struct(r); err != nil {
		return toDomainError(err)
	}
	if r.Role == string(domain.RoleCompany) && r.CompanyDetails == nil {
		return domain.ErrMissingField("companyDetails")
	}
	return nil
}

func (r *SignupRequest) Company() *domain.CompanyDetails {
	if r.CompanyDetails == nil {
		return nil
	}
	return &domain.CompanyDetails{
		CompanyName: r.CompanyDetails.CompanyName,
		Website:     r.CompanyDetails.Website,
		Address:     r.CompanyDetails.Address,
	}
}

// -------- Login --------

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=individual company"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)

	if err := validate.Struct(r); err != nil {
		return toDomainError(err)
	}
	return nil
}

// -------- helpers --------

// toDomainError converts the first validator failure into a stable domain
// error. One error at a time keeps responses small and deterministic.
func toDomainError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return domain.ErrInvalidField("request", "invalid")
	}

	fe := verrs[0]
	field := jsonFieldName(fe.Field())

	switch fe.Tag() {
	case "required":
		return domain.ErrMissingField(field)
	case "email":
		return domain.ErrInvalidField(field, "invalid format")
	case "min":
		return domain.ErrInvalidField(field, "too short")
	case "max":
		return domain.ErrInvalidField(field, "too long")
	case "oneof":
		if field == "role" {
			return domain.ErrInvalidRole(fe.Value().(string))
		}
		return domain.ErrInvalidField(field, "not an allowed value")
	default:
		return domain.ErrInvalidField(field, "invalid")
	}
}

func jsonFieldName(structField string) string {
	if structField == "" {
		return structField
	}
	return strings.ToLower(structField[:1]) + structField[1:]
}
