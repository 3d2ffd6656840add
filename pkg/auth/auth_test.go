package auth_test

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/go-jose/go-jose/v4"

	"github.com/JaimeStill/callvault/pkg/auth"
)

const (
	issuer   = "https://login.example.com/tenant/v2.0"
	audience = "api://callvault"
)

type fixture struct {
	key           *rsa.PrivateKey
	authenticator *auth.Authenticator
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	keySet := &oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{key.Public()}}
	verifier := oidc.NewVerifier(issuer, keySet, &oidc.Config{ClientID: audience})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return fixture{key: key, authenticator: auth.NewWithVerifier(verifier, logger)}
}

func (f fixture) sign(t *testing.T, claims map[string]any) string {
	t.Helper()

	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.RS256, Key: f.key},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}

	jws, err := signer.Sign(payload)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	token, err := jws.CompactSerialize()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	return token
}

func claims(overrides map[string]any) map[string]any {
	c := map[string]any{
		"iss":                issuer,
		"aud":                audience,
		"sub":                "user-123",
		"preferred_username": "jdoe@example.com",
		"iat":                time.Now().Unix(),
		"exp":                time.Now().Add(time.Hour).Unix(),
	}
	for k, v := range overrides {
		c[k] = v
	}
	return c
}

func TestMiddleware(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name       string
		header     func() string
		wantStatus int
	}{
		{"valid token", func() string { return "Bearer " + f.sign(t, claims(nil)) }, http.StatusOK},
		{"lowercase scheme", func() string { return "bearer " + f.sign(t, claims(nil)) }, http.StatusOK},
		{"missing header", func() string { return "" }, http.StatusUnauthorized},
		{"basic scheme", func() string { return "Basic dXNlcjpwYXNz" }, http.StatusUnauthorized},
		{"garbage token", func() string { return "Bearer not.a.jwt" }, http.StatusUnauthorized},
		{"wrong audience", func() string {
			return "Bearer " + f.sign(t, claims(map[string]any{"aud": "api://other"}))
		}, http.StatusUnauthorized},
		{"wrong issuer", func() string {
			return "Bearer " + f.sign(t, claims(map[string]any{"iss": "https://evil.example.com"}))
		}, http.StatusUnauthorized},
		{"expired", func() string {
			return "Bearer " + f.sign(t, claims(map[string]any{"exp": time.Now().Add(-time.Hour).Unix()}))
		}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got auth.Claims
			handler := f.authenticator.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = auth.ClaimsFrom(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest("POST", "/recordings/audio", nil)
			if h := tt.header(); h != "" {
				req.Header.Set("Authorization", h)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status: got %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}

			if tt.wantStatus == http.StatusOK {
				if got.Subject != "user-123" || got.PreferredUsername != "jdoe@example.com" {
					t.Errorf("claims = %+v", got)
				}
				return
			}

			if !strings.HasPrefix(rec.Header().Get("WWW-Authenticate"), "Bearer") {
				t.Error("missing WWW-Authenticate challenge")
			}
			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil || body["error"] == "" {
				t.Errorf("error body = %v, %v", body, err)
			}
		})
	}
}

func TestNilAuthenticatorPassesThrough(t *testing.T) {
	var a *auth.Authenticator

	var called bool
	handler := a.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if !called {
		t.Error("disabled auth should not block requests")
	}
}

func TestNewDisabled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a, err := auth.New(t.Context(), &auth.Config{Enabled: false}, logger)
	if err != nil || a != nil {
		t.Errorf("New(disabled) = %v, %v; want nil, nil", a, err)
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Setenv("TEST_AUTH_ENABLED", "true")
	t.Setenv("TEST_AUTH_ISSUER", issuer)

	env := &auth.Env{
		Enabled:  "TEST_AUTH_ENABLED",
		Issuer:   "TEST_AUTH_ISSUER",
		Audience: "TEST_AUTH_AUDIENCE",
	}

	cfg := auth.Config{}
	err := cfg.Finalize(env)
	if err == nil || !strings.Contains(err.Error(), "audience") {
		t.Fatalf("expected audience error, got %v", err)
	}

	t.Setenv("TEST_AUTH_AUDIENCE", audience)
	cfg = auth.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if !cfg.Enabled || cfg.Issuer != issuer || cfg.Audience != audience {
		t.Errorf("cfg = %+v", cfg)
	}

	disabled := auth.Config{}
	if err := disabled.Finalize(nil); err != nil {
		t.Errorf("disabled config should not require issuer: %v", err)
	}
}

func TestConfigMerge(t *testing.T) {
	base := auth.Config{Enabled: true, Issuer: issuer, Audience: audience}
	base.Merge(&auth.Config{Enabled: false, Audience: "api://staging"})

	if base.Enabled {
		t.Error("enabled should follow overlay")
	}
	if base.Issuer != issuer || base.Audience != "api://staging" {
		t.Errorf("merged = %+v", base)
	}
}
