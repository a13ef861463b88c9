package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/segyhp/rental-manager/internal/domain"
	customError "github.com/segyhp/rental-manager/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const issuer = "rental-manager"

// Session is the authenticated operator of one request.
type Session struct {
	Email     string
	ExpiresAt time.Time
}

// Service guards the API with a single configured credential. Tokens are
// HS256 JWTs whose expiry is the inactivity window; the middleware issues a
// fresh one on every authenticated request.
type Service struct {
	email        string
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	now          func() time.Time
}

func NewService(email, passwordHash, secret string, ttl time.Duration) *Service {
	return &Service{
		email:        email,
		passwordHash: []byte(passwordHash),
		secret:       []byte(secret),
		ttl:          ttl,
		now:          time.Now,
	}
}

// Login checks the credential and returns a session token.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.LoginResponse, error) {
	// The hash is compared even for an unknown email so both failures take
	// the same time.
	hashErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
	if !strings.EqualFold(strings.TrimSpace(email), s.email) || hashErr != nil {
		return nil, customError.WrapUnauthorized("invalid email or password")
	}

	token, expiresAt, err := s.IssueToken(s.email)
	if err != nil {
		return nil, err
	}

	return &domain.LoginResponse{Token: token, ExpiresAt: expiresAt}, nil
}

// IssueToken signs a token for email valid for the session TTL.
func (s *Service) IssueToken(email string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl).Truncate(time.Second)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, expiresAt, nil
}

// VerifyToken validates signature, issuer, expiry and subject.
func (s *Service) VerifyToken(tokenString string) (*Session, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, customError.WrapUnauthorized("session expired")
		}
		return nil, customError.WrapUnauthorized("invalid session token")
	}
	if !token.Valid || !strings.EqualFold(claims.Subject, s.email) {
		return nil, customError.WrapUnauthorized("invalid session token")
	}

	return &Session{Email: claims.Subject, ExpiresAt: claims.ExpiresAt.Time.UTC()}, nil
}

type ctxKey string

const sessionKey ctxKey = "session"

// WithSession stores the session in the request context.
func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// SessionFrom returns the session set by the middleware.
func SessionFrom(ctx context.Context) (*Session, error) {
	session, ok := ctx.Value(sessionKey).(*Session)
	if !ok || session == nil {
		return nil, errors.New("session not found in context")
	}
	return session, nil
}

// HashPassword returns the bcrypt hash to put in AUTH_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
