// Package auth issues and verifies session tokens and hashes passwords.
package auth

import (
	"context"
	"errors"
	"fmt"
	"moodmatch/backend/internal/storage"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUnauthenticated is returned for missing, invalid, expired or revoked tokens.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidCredentials hides whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID    uint
	Name      string
	SessionID string
	ExpiresAt time.Time
}

// Claims carried by a session token.
type Claims struct {
	Name      string `json:"name"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret   []byte
	issuer   string
	ttl      time.Duration
	sessions storage.SessionStore
	now      func() time.Time
}

func NewManager(secret, issuer string, ttl time.Duration, sessions storage.SessionStore) *Manager {
	return &Manager{
		secret:   []byte(secret),
		issuer:   issuer,
		ttl:      ttl,
		sessions: sessions,
		now:      time.Now,
	}
}

// TTL is the lifetime of issued tokens.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token for a fresh session of the user.
func (m *Manager) Issue(userID uint, name string) (string, *Identity, error) {
	now := m.now()
	id := &Identity{
		UserID:    userID,
		Name:      name,
		SessionID: uuid.NewString(),
		ExpiresAt: now.Add(m.ttl),
	}

	claims := Claims{
		Name:      name,
		SessionID: id.SessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(id.ExpiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, id, nil
}

// Authenticate verifies the token and rejects revoked sessions.
func (m *Manager) Authenticate(ctx context.Context, raw string) (*Identity, error) {
	if raw == "" {
		return nil, ErrUnauthenticated
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 || claims.SessionID == "" {
		return nil, ErrUnauthenticated
	}

	revoked, err := m.sessions.IsRevoked(ctx, claims.SessionID)
	if err != nil {
		return nil, fmt.Errorf("check session: %w", err)
	}
	if revoked {
		return nil, ErrUnauthenticated
	}

	return &Identity{
		UserID:    uint(userID),
		Name:      claims.Name,
		SessionID: claims.SessionID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Revoke invalidates the session until its token would have expired anyway.
func (m *Manager) Revoke(ctx context.Context, id *Identity) error {
	return m.sessions.Revoke(ctx, id.SessionID, id.ExpiresAt.Sub(m.now()))
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
