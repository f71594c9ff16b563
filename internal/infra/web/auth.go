package web

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"recharge-inventory/internal/domain"
	"recharge-inventory/internal/domain/model"
	"recharge-inventory/internal/domain/ports/adapter"
)

// ===== Session/JWT primitives =====

const SessionCookie = "inventory_session"

type AuthConfig struct {
	HMACSecret   []byte
	Issuer       string
	CookieDomain string
	SecureCookie bool
	TTL          time.Duration
}

var _ adapter.IdentityVerifier = (*AuthManager)(nil)

// AuthManager mints and verifies HS256 session tokens.
type AuthManager struct{ cfg AuthConfig }

func NewAuthManager(secret, issuer string, secure bool, domain string, ttl time.Duration) *AuthManager {
	return &AuthManager{cfg: AuthConfig{
		HMACSecret:   []byte(secret),
		Issuer:       issuer,
		CookieDomain: domain,
		SecureCookie: secure,
		TTL:          ttl,
	}}
}

type SessionClaims struct {
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Mint signs a session token for u.
func (a *AuthManager) Mint(u *model.User) (string, error) {
	if u.IsZero() || !u.Role.Valid() {
		return "", domain.ErrInvalidArgument
	}
	now := time.Now()
	claims := SessionClaims{
		Role:  string(u.Role),
		Email: u.Email,
		Name:  u.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.cfg.TTL)),
			Subject:   u.ID,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.cfg.HMACSecret)
}

func (a *AuthManager) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Domain:   a.cfg.CookieDomain,
		MaxAge:   int(a.cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   a.cfg.SecureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}

func (a *AuthManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Domain:   a.cfg.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.cfg.SecureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}

// Verify implements adapter.IdentityVerifier.
func (a *AuthManager) Verify(_ context.Context, tok string) (*model.User, error) {
	claims, err := a.parse(tok)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	role := model.Role(claims.Role)
	if claims.Subject == "" || !role.Valid() {
		return nil, domain.ErrUnauthorized
	}
	return &model.User{ID: claims.Subject, Email: claims.Email, Name: claims.Name, Role: role}, nil
}

func (a *AuthManager) parse(tok string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if a.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.cfg.Issuer))
	}
	tkn, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		return a.cfg.HMACSecret, nil
	}, opts...)
	if err != nil || !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// TokenFromRequest reads "Authorization: Bearer <token>", then the session cookie.
func TokenFromRequest(r *http.Request) string {
	if hdr := r.Header.Get("Authorization"); hdr != "" {
		if strings.HasPrefix(strings.ToLower(hdr), "bearer ") {
			return strings.TrimSpace(hdr[7:])
		}
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}
