package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	customError "github.com/segyhp/rental-manager/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testEmail    = "office@example.com"
	testPassword = "s3cret-pass"
	testSecret   = "0123456789abcdef0123456789abcdef"
)

func newTestService(t *testing.T) (*Service, *time.Time) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	clock := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	s := NewService(testEmail, string(hash), testSecret, 30*time.Minute)
	s.now = func() time.Time { return clock }
	return s, &clock
}

func TestService_Login(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantErr  bool
	}{
		{name: "valid credential", email: testEmail, password: testPassword},
		{name: "email is case insensitive", email: "Office@Example.com", password: testPassword},
		{name: "wrong password", email: testEmail, password: "nope", wantErr: true},
		{name: "unknown email", email: "someone@example.com", password: testPassword, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, clock := newTestService(t)

			resp, err := s.Login(context.Background(), tt.email, tt.password)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, customError.ErrCodeUnauthorized, customError.Code(err))
				assert.ErrorIs(t, err, customError.ErrUnauthorized)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, resp.Token)
			assert.Equal(t, clock.Add(30*time.Minute), resp.ExpiresAt)

			session, err := s.VerifyToken(resp.Token)
			require.NoError(t, err)
			assert.Equal(t, testEmail, session.Email)
		})
	}
}

func TestService_VerifyToken(t *testing.T) {
	t.Run("expired", func(t *testing.T) {
		s, clock := newTestService(t)
		token, _, err := s.IssueToken(testEmail)
		require.NoError(t, err)

		*clock = clock.Add(31 * time.Minute)

		_, err = s.VerifyToken(token)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "session expired")
	})

	t.Run("signed with another secret", func(t *testing.T) {
		s, _ := newTestService(t)
		other := NewService(testEmail, "", "another-secret-another-secret-00", time.Minute)
		other.now = s.now
		token, _, err := other.IssueToken(testEmail)
		require.NoError(t, err)

		_, err = s.VerifyToken(token)
		assert.ErrorIs(t, err, customError.ErrUnauthorized)
	})

	t.Run("other subject", func(t *testing.T) {
		s, _ := newTestService(t)
		token, _, err := s.IssueToken("intruder@example.com")
		require.NoError(t, err)

		_, err = s.VerifyToken(token)
		assert.ErrorIs(t, err, customError.ErrUnauthorized)
	})

	t.Run("unsigned token", func(t *testing.T) {
		s, clock := newTestService(t)
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   testEmail,
			ExpiresAt: jwt.NewNumericDate(clock.Add(time.Hour)),
		})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = s.VerifyToken(signed)
		assert.ErrorIs(t, err, customError.ErrUnauthorized)
	})

	t.Run("garbage", func(t *testing.T) {
		s, _ := newTestService(t)
		_, err := s.VerifyToken("not-a-token")
		assert.ErrorIs(t, err, customError.ErrUnauthorized)
	})
}

func TestMiddleware(t *testing.T) {
	s, clock := newTestService(t)
	token, _, err := s.IssueToken(testEmail)
	require.NoError(t, err)

	var seen *Session
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := SessionFrom(r.Context())
		require.NoError(t, err)
		seen = session
		w.WriteHeader(http.StatusNoContent)
	})
	handler := Middleware(s)(next)

	t.Run("valid token refreshes the session", func(t *testing.T) {
		*clock = clock.Add(10 * time.Minute)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/arrears", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, testEmail, seen.Email)
		assert.Equal(t, clock.Add(30*time.Minute), seen.ExpiresAt)

		refreshed := rec.Header().Get(SessionTokenHeader)
		require.NotEmpty(t, refreshed)
		session, err := s.VerifyToken(refreshed)
		require.NoError(t, err)
		assert.True(t, clock.Add(30*time.Minute).Equal(session.ExpiresAt))
	})

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/arrears", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, rec.Header().Get(SessionTokenHeader))
	})

	t.Run("expired token", func(t *testing.T) {
		*clock = clock.Add(2 * time.Hour)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/arrears", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("preflight passes through", func(t *testing.T) {
		plain := Middleware(s)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		rec := httptest.NewRecorder()
		plain.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/v1/arrears", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestSessionFrom_Missing(t *testing.T) {
	_, err := SessionFrom(context.Background())
	assert.Error(t, err)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword(testPassword)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte(testPassword)))
}
