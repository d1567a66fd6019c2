// Package auth issues and checks the bearer tokens protecting the API.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/diewo77/go-crm/httpx"
	"github.com/diewo77/go-crm/i18n"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the lifetime of a token when none is configured.
const DefaultTTL = 24 * time.Hour

var (
	ErrMissingToken = errors.New("auth: missing bearer token")
	ErrInvalidToken = errors.New("auth: invalid token")
)

type ctxKey string

const claimsCtxKey = ctxKey("claims")

// Claims is the token payload.
type Claims struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 tokens with a single server secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer returns an Issuer. A zero ttl means DefaultTTL.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Sign returns a token embedding id, email and role.
func (is *Issuer) Sign(id uint, email, role string) (string, error) {
	now := is.now()
	claims := Claims{
		ID:    id,
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(is.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(is.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse checks signature and expiry and returns the claims.
func (is *Issuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return is.secret, nil
	}, jwt.WithTimeFunc(is.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.ID == 0 {
		return nil, fmt.Errorf("%w: no subject", ErrInvalidToken)
	}
	return claims, nil
}

// BearerToken extracts the token of an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, error) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrMissingToken
	}
	return strings.TrimSpace(token), nil
}

// WithClaims stores claims in context.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsCtxKey, c)
}

// ClaimsFromContext returns the claims attached by Middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsCtxKey).(*Claims)
	return c, ok && c != nil
}

// WithUserID stores a bare user id in context (tests, internal calls).
func WithUserID(ctx context.Context, userID uint) context.Context {
	return WithClaims(ctx, &Claims{ID: userID})
}

// UserIDFromContext extracts user id.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	c, ok := ClaimsFromContext(ctx)
	if !ok || c.ID == 0 {
		return 0, false
	}
	return c.ID, true
}

// Middleware rejects requests without a valid bearer token with 401 JSON and
// attaches the decoded claims to the request context otherwise.
func (is *Issuer) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := i18n.LangFromContext(r.Context())
		raw, err := BearerToken(r)
		if err != nil {
			httpx.JSONError(w, http.StatusUnauthorized, i18n.T(lang, "token_required"), nil)
			return
		}
		claims, err := is.Parse(raw)
		if err != nil {
			log.Printf("[AUTH] %s %s rejected: %v", r.Method, r.URL.Path, err)
			httpx.JSONError(w, http.StatusUnauthorized, i18n.T(lang, "invalid_token"), nil)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}
