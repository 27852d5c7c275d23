package dto

import (
	"testing"

	"github.com/jobdesk/auth-service/internal/domain"
)

func validSignup() *SignupRequest {
	return &SignupRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@x.com",
		Password:  "s3cret-pass",
		Role:      "individual",
	}
}

func TestSignupRequest_Validate(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		if err := validSignup().Validate(); err != nil {
			t.Fatalf("expected nil, got: %v", err)
		}
	})

	t.Run("missing email", func(t *testing.T) {
		r := validSignup()
		r.Email = ""
		err := r.Validate()
		if err == nil || !domain.Is(err, "missing_field") {
			t.Fatalf("expected missing_field(email), got: %v", err)
		}
	})

	t.Run("invalid email format", func(t *testing.T) {
		r := validSignup()
		r.Email = "not-an-email"
		err := r.Validate()
		if err == nil || !domain.Is(err, "invalid_field") {
			t.Fatalf("expected invalid_field(email), got: %v", err)
		}
	})

	t.Run("missing password", func(t *testing.T) {
		r := validSignup()
		r.Password = ""
		err := r.Validate()
		if err == nil || !domain.Is(err, "missing_field") {
			t.Fatalf("expected missing_field(password), got: %v", err)
		}
	})

	t.Run("short password", func(t *testing.T) {
		r := validSignup()
		r.Password = "abc"
		err := r.Validate()
		if err == nil || !domain.Is(err, "invalid_field") {
			t.Fatalf("expected invalid_field(password), got: %v", err)
		}
	})

	t.Run("invalid role", func(t *testing.T) {
		r := validSignup()
		r.Role = "admin"
		err := r.Validate()
		if err == nil || !domain.Is(err, "invalid_role") {
			t.Fatalf("expected invalid_role, got: %v", err)
		}
	})

	t.Run("company role requires details", func(t *testing.T) {
		r := validSignup()
		r.Role = "company"
		err := r.Validate()
		if err == nil || !domain.Is(err, "missing_field") {
			t.Fatalf("expected missing_field(companyDetails), got: %v", err)
		}

		r.CompanyDetails = &CompanyDetails{CompanyName: "Acme"}
		if err := r.Validate(); err != nil {
			t.Fatalf("expected nil with details, got: %v", err)
		}
	})

	t.Run("individual role ignores details", func(t *testing.T) {
		r := validSignup()
		r.CompanyDetails = &CompanyDetails{CompanyName: "Acme"}
		if err := r.Validate(); err != nil {
			t.Fatalf("expected nil, got: %v", err)
		}
	})
}

func TestLoginRequest_Validate(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		r := &LoginRequest{Email: "a@b.com", Password: "x", Role: "individual"}
		if err := r.Validate(); err != nil {
			t.Fatalf("expected nil, got: %v", err)
		}
	})

	t.Run("missing email", func(t *testing.T) {
		r := &LoginRequest{Password: "x", Role: "individual"}
		err := r.Validate()
		if err == nil || !domain.Is(err, "missing_field") {
			t.Fatalf("expected missing_field(email), got: %v", err)
		}
	})

	t.Run("missing role", func(t *testing.T) {
		r := &LoginRequest{Email: "a@b.com", Password: "x"}
		err := r.Validate()
		if err == nil || !domain.Is(err, "missing_field") {
			t.Fatalf("expected missing_field(role), got: %v", err)
		}
	})

	t.Run("invalid role", func(t *testing.T) {
		r := &LoginRequest{Email: "a@b.com", Password: "x", Role: "root"}
		err := r.Validate()
		if err == nil || !domain.Is(err, "invalid_role") {
			t.Fatalf("expected invalid_role, got: %v", err)
		}
	})
}

func TestNewUserView_OmitsSensitiveFields(t *testing.T) {
	tok := "tok"
	u := domain.User{
		ID:                "u1",
		Email:             "a@b.com",
		PasswordHash:      "$2a$10$hash",
		Role:              "company",
		Company:           &domain.CompanyDetails{CompanyName: "Acme"},
		IsVerified:        true,
		VerificationToken: &tok,
	}

	v := NewUserView(u)
	if v.ID != "u1" || v.Email != "a@b.com" || !v.IsVerified {
		t.Fatalf("unexpected view: %+v", v)
	}
	if v.CompanyDetails == nil || v.CompanyDetails.CompanyName != "Acme" {
		t.Fatalf("expected company details, got: %+v", v)
	}
	// UserView has no hash/token fields; this test documents the intent.
}
