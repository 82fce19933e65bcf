// Eterstore - Multi-Tenant Storefront and Back-Office Platform
// Copyright 2026 Eterstore Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eterstore/eterstore

package identity

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Session errors.
var (
	// ErrNoSession indicates no session token was present on the request.
	ErrNoSession = errors.New("no session token")

	// ErrInvalidSession indicates the token failed validation.
	ErrInvalidSession = errors.New("invalid session token")
)

// SessionClaims are the JWT claims issued at login. The role claim is a
// snapshot of the database role at issuance time; it is refreshed when
// the session is re-issued.
type SessionClaims struct {
	UserID   string `json:"uid"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// SessionManagerConfig holds session manager configuration.
type SessionManagerConfig struct {
	// Secret signs session tokens (HMAC-SHA256). Minimum 32 bytes.
	Secret string

	// Timeout is the session lifetime.
	Timeout time.Duration

	// CookieName is the session cookie name.
	CookieName string

	// CookieSecure marks the session cookie Secure.
	CookieSecure bool
}

// SessionManager issues and validates JWT session tokens, carried either
// in the session cookie (storefront navigation) or a bearer header
// (API clients).
type SessionManager struct {
	secret       []byte
	timeout      time.Duration
	cookieName   string
	cookieSecure bool
}

// minSecretLen guards against trivially brute-forceable HMAC keys.
const minSecretLen = 32

// NewSessionManager creates a session manager.
// The signing secret must be at least 32 characters.
func NewSessionManager(cfg SessionManagerConfig) (*SessionManager, error) {
	if len(cfg.Secret) < minSecretLen {
		return nil, fmt.Errorf("session secret must be at least %d characters", minSecretLen)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 24 * time.Hour
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "eter_session"
	}

	return &SessionManager{
		secret:       []byte(cfg.Secret),
		timeout:      cfg.Timeout,
		cookieName:   cfg.CookieName,
		cookieSecure: cfg.CookieSecure,
	}, nil
}

// Issue creates a signed session token for the principal attributes.
// The role is embedded as a claim so most requests resolve it without
// touching the profile store.
func (m *SessionManager) Issue(userID, email, username, role string) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		UserID:   userID,
		Email:    email,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.timeout)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a session token.
// Tokens signed with an unexpected algorithm are rejected to prevent
// algorithm confusion attacks.
func (m *SessionManager) Validate(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// Principal resolves the request's session token into a Principal.
// Returns ErrNoSession when neither cookie nor bearer token is present.
func (m *SessionManager) Principal(r *http.Request) (*Principal, error) {
	tokenString, err := m.extractToken(r)
	if err != nil {
		return nil, err
	}

	claims, err := m.Validate(tokenString)
	if err != nil {
		return nil, err
	}

	p := &Principal{
		ID:        claims.UserID,
		Email:     claims.Email,
		Username:  claims.Username,
		RoleClaim: claims.Role,
		SessionID: claims.ID,
	}
	if claims.IssuedAt != nil {
		p.IssuedAt = claims.IssuedAt.Unix()
	}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Unix()
	}
	return p, nil
}

// extractToken pulls the session token from the cookie or, failing that,
// the Authorization bearer header.
func (m *SessionManager) extractToken(r *http.Request) (string, error) {
	if cookie, err := r.Cookie(m.cookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		token := strings.TrimPrefix(header, "Bearer ")
		if token != "" {
			return token, nil
		}
	}

	return "", ErrNoSession
}

// SessionCookie builds the session cookie for a signed token.
func (m *SessionManager) SessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.timeout.Seconds()),
		HttpOnly: true,
		Secure:   m.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie builds an expired session cookie for logout.
func (m *SessionManager) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Timeout returns the configured session lifetime.
func (m *SessionManager) Timeout() time.Duration {
	return m.timeout
}
