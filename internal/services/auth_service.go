package services

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SecretHeader is the canonical header carrying the shared secret.
const SecretHeader = "X-Sync-Secret"

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
)

// AuthService authenticates inbound sync requests. The shared secret is
// injected at construction and compared in constant time; it is never read
// from ambient globals and never logged.
//
// Two mechanisms are accepted: the X-Sync-Secret header with the exact
// secret, or an Authorization bearer token HS256-signed with that secret.
// The bearer form lets callers mint short-lived credentials instead of
// shipping the static secret on every hop.
type AuthService struct {
	secret string
}

func NewAuthService(secret string) *AuthService {
	return &AuthService{secret: secret}
}

// Authenticate checks the request headers only. It must run before any body
// parsing or store access.
func (s *AuthService) Authenticate(r *http.Request) error {
	if s.secret == "" {
		return ErrUnauthorized
	}

	if header := r.Header.Get(SecretHeader); header != "" {
		if subtle.ConstantTimeCompare([]byte(header), []byte(s.secret)) == 1 {
			return nil
		}
		return ErrUnauthorized
	}

	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		token := strings.TrimPrefix(auth, "Bearer ")
		if err := s.VerifyToken(token); err != nil {
			return ErrUnauthorized
		}
		return nil
	}

	return ErrUnauthorized
}

// MintToken issues a short-lived bearer token derived from the shared secret.
func (s *AuthService) MintToken(ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": "hivesync",
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// VerifyToken validates a bearer token signed with the shared secret.
func (s *AuthService) VerifyToken(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})

	if err != nil {
		return ErrInvalidToken
	}
	if !token.Valid {
		return ErrInvalidToken
	}

	return nil
}
