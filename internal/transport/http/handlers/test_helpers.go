package http_handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jobdesk/auth-service/internal/application/auth"
	"github.com/jobdesk/auth-service/internal/infrastructure/memory"
	"github.com/jobdesk/auth-service/internal/infrastructure/security"
	"github.com/jobdesk/auth-service/internal/transport/http/middleware"
	"github.com/jobdesk/auth-service/internal/transport/http/response"
	"github.com/jobdesk/auth-service/internal/transport/http/router"
)

const testVerifyBaseURL = "http://localhost:8080/verify-email?token="

// captureMailer records dispatched verification mail so tests can pull the
// token back out of the link.
type captureMailer struct {
	mu      sync.Mutex
	sent    []sentMail
	sendErr error
}

type sentMail struct {
	to  string
	url string
}

func (m *captureMailer) SendVerificationEmail(ctx context.Context, to, verifyURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, sentMail{to: to, url: verifyURL})
	return nil
}

func (m *captureMailer) lastToken(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		t.Fatal("no verification mail was sent")
	}
	url := m.sent[len(m.sent)-1].url
	if len(url) <= len(testVerifyBaseURL) || url[:len(testVerifyBaseURL)] != testVerifyBaseURL {
		t.Fatalf("unexpected verify url: %s", url)
	}
	return url[len(testVerifyBaseURL):]
}

type testEnv struct {
	handler http.Handler
	repo    *memory.UserRepo
	mailer  *captureMailer
	signer  *security.JWTSigner
}

// newTestEnv wires the full router over in-memory infrastructure.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := memory.NewUserRepo()
	mailer := &captureMailer{}
	signer := security.NewJWTSigner("test-secret", "auth-service")
	hasher := security.NewBcryptHasher(bcrypt.MinCost)

	svc := auth.NewService(repo, hasher, signer, mailer, auth.Config{
		SessionTokenTTL:    time.Hour,
		VerifyTokenTTL:     24 * time.Hour,
		VerifyEmailBaseURL: testVerifyBaseURL,
	})

	mux, err := router.New(router.Deps{
		Health: NewHealthHandler(nil),
		Auth:   NewAuthHandler(svc),
		AuthMW: middleware.Auth(signer, response.WriteError),
	})
	if err != nil {
		t.Fatalf("router: %v", err)
	}

	return &testEnv{handler: mux, repo: repo, mailer: mailer, signer: signer}
}

// mustJSONBody marshals v to JSON and returns an io.Reader for request body.
func mustJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	return bytes.NewReader(b)
}

// mustReadJSON decodes JSON from r into out, unwrapping a {"data": ...}
// envelope when present.
func mustReadJSON(t *testing.T, r io.Reader, out any) {
	t.Helper()

	raw, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	wrapped := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.Data) > 0 {
		if err := json.Unmarshal(wrapped.Data, out); err != nil {
			t.Fatalf("decode wrapped.data failed; body=%s err=%v", string(raw), err)
		}
		return
	}

	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode json failed; body=%s", string(raw))
	}
}

// errCode extracts error.code from an error response body.
func errCode(t *testing.T, r io.Reader) string {
	t.Helper()

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode error body failed; body=%s", string(raw))
	}
	return body.Error.Code
}

func validSignupBody() map[string]any {
	return map[string]any{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"email":     "ada@x.com",
		"password":  "s3cret-pass",
		"role":      "individual",
	}
}
