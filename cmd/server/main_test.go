package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/segyhp/rental-manager/internal/auth"
	"github.com/segyhp/rental-manager/internal/domain"
	"github.com/segyhp/rental-manager/internal/handler"
	"github.com/segyhp/rental-manager/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSetupRoutes_RequiresSession(t *testing.T) {
	authService := auth.NewService("office@example.com", "", strings.Repeat("k", 32), time.Hour)
	arrears := &mocks.MockArrearsService{}
	arrears.On("ComputePortfolioArrears", mock.Anything, time.Time{}).Return(&domain.PortfolioArrears{}, nil)
	login := &mocks.MockAuthenticator{}
	login.On("Login", mock.Anything, "office@example.com", "wrong").
		Return(nil, nil)

	h := handlers{
		auth:    handler.NewAuthHandler(login),
		arrears: handler.NewArrearsHandler(arrears),
	}
	router := setupRoutes(h, auth.Middleware(authService))

	t.Run("api without token", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/arrears", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		arrears.AssertNotCalled(t, "ComputePortfolioArrears", mock.Anything, mock.Anything)
	})

	t.Run("api with token", func(t *testing.T) {
		token, _, err := authService.IssueToken("office@example.com")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/arrears", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(auth.SessionTokenHeader))
	})

	t.Run("login is public", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
			strings.NewReader(`{"email":"office@example.com","password":"wrong"}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.NotEqual(t, http.StatusUnauthorized, w.Code)
		login.AssertCalled(t, "Login", mock.Anything, "office@example.com", "wrong")
	})
}
