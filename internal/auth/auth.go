// Package auth implements password hashing and stateless bearer tokens.
//
// Passwords are salted and hashed with bcrypt. Session tokens are HS256 JWTs
// carrying the user id, email and expiry; they are verified by signature and
// expiry on every request and never persisted server-side.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/joaovitorrios/gerenciador-gastos/internal/core"
)

// BcryptCost is the fixed hashing cost factor (10 rounds, the bcrypt default).
const BcryptCost = bcrypt.DefaultCost

// DefaultTokenTTL is the token lifetime minted at login.
const DefaultTokenTTL = 24 * time.Hour

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Identity is the decoded token payload attached to authenticated requests.
type Identity struct {
	UserID string
	Email  string
}

// Service mints and verifies tokens with a shared HMAC secret.
type Service struct {
	secret []byte
	ttl    time.Duration
}

func NewService(secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Service{secret: []byte(secret), ttl: ttl}
}

// HashPassword salts and hashes the password with the fixed cost factor.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether the password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IssueToken mints a signed token embedding the user id and email.
func (s *Service) IssueToken(user core.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":    user.ID,
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.ttl).Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies the signature and expiry and returns the embedded
// identity. All failure modes collapse into ErrInvalidToken; callers do not
// learn why verification failed.
func (s *Service) ParseToken(tokenString string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	id, _ := claims["id"].(string)
	email, _ := claims["email"].(string)
	if id == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: id, Email: email}, nil
}
