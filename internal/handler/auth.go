package handler

import (
	"net/http"

	"github.com/segyhp/rental-manager/internal/domain"
	"github.com/segyhp/rental-manager/pkg/response"

	"github.com/go-playground/validator/v10"
)

type AuthHandler struct {
	auth      Authenticator
	validator *validator.Validate
}

func NewAuthHandler(auth Authenticator) *AuthHandler {
	return &AuthHandler{
		auth:      auth,
		validator: newValidator(),
	}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var request domain.LoginRequest
	if !decode(w, r, h.validator, &request) {
		return
	}

	session, err := h.auth.Login(r.Context(), request.Email, request.Password)
	if err != nil {
		response.BusinessError(w, err)
		return
	}
	response.Success(w, session)
}
