package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// SessionCookie is the cookie carrying the signed session token.
	SessionCookie = "session"
	// DefaultSessionTTL is how long a session lives without SESSION_TTL_HOURS.
	DefaultSessionTTL = 24 * time.Hour
)

// SessionClaims is the payload of a session token. The token ID (jti) is the
// server-side session ID; the token alone never authenticates anyone.
type SessionClaims struct {
	UserID uint `json:"uid"`
	jwt.RegisteredClaims
}

// SessionTokens signs and verifies session tokens.
type SessionTokens struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionTokens creates a token signer with the given secret.
func NewSessionTokens(secret string, ttl time.Duration) *SessionTokens {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionTokens{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// TTL returns the lifetime of issued tokens.
func (s *SessionTokens) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token bound to sessionID.
func (s *SessionTokens) Issue(sessionID string, userID uint) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)
	claims := &SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Parse validates a token and returns its claims.
func (s *SessionTokens) Parse(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.ID == "" {
		return nil, errors.New("session ID not found")
	}
	return claims, nil
}
