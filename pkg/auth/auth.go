// Package auth verifies OAuth2 bearer tokens issued by an OpenID Connect
// provider and guards HTTP handlers with them.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/JaimeStill/callvault/pkg/handlers"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid bearer token")
)

// Verifier checks a raw JWT. *oidc.IDTokenVerifier satisfies it.
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (*oidc.IDToken, error)
}

// Claims is the caller identity extracted from a verified token.
type Claims struct {
	Subject           string `json:"sub"`
	Email             string `json:"email"`
	PreferredUsername string `json:"preferred_username"`
	Name              string `json:"name"`
}

type claimsKey struct{}

// Authenticator guards handlers with bearer-token verification.
type Authenticator struct {
	verifier Verifier
	logger   *slog.Logger
}

// New discovers the provider at cfg.Issuer and builds an Authenticator that
// accepts tokens whose audience is cfg.Audience. It returns nil when auth is
// disabled; a nil Authenticator's Middleware passes requests through.
func New(ctx context.Context, cfg *Config, logger *slog.Logger) (*Authenticator, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("discover oidc provider %s: %w", cfg.Issuer, err)
	}

	verifier := provider.Verifier(&oidc.Config{ClientID: cfg.Audience})
	return NewWithVerifier(verifier, logger), nil
}

// NewWithVerifier builds an Authenticator around an existing verifier.
func NewWithVerifier(v Verifier, logger *slog.Logger) *Authenticator {
	return &Authenticator{
		verifier: v,
		logger:   logger.With("system", "auth"),
	}
}

// Middleware rejects requests without a valid bearer token with 401 and
// stores the verified Claims on the request context.
func (a *Authenticator) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if a == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := a.authenticate(r)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				handlers.RespondError(w, a.logger, http.StatusUnauthorized, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func (a *Authenticator) authenticate(r *http.Request) (Claims, error) {
	raw, ok := bearer(r.Header.Get("Authorization"))
	if !ok {
		return Claims{}, ErrMissingToken
	}

	token, err := a.verifier.Verify(r.Context(), raw)
	if err != nil {
		a.logger.Debug("token rejected", "error", err)
		return Claims{}, ErrInvalidToken
	}

	var claims Claims
	if err := token.Claims(&claims); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims.Subject = token.Subject

	return claims, nil
}

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFrom returns the claims stored by Middleware.
func ClaimsFrom(ctx context.Context) (Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(Claims)
	return c, ok
}

func bearer(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
