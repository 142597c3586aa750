package http

import (
	"net/http"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/service"
)

type UserHandler struct {
	auth service.AuthService
}

func NewUserHandler(auth service.AuthService) *UserHandler {
	return &UserHandler{auth: auth}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	User    *domain.User `json:"user"`
}

type userResponse struct {
	Success bool         `json:"success"`
	User    *domain.User `json:"user"`
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	token, user, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Success: true, Token: token, User: user})
}

func (h *UserHandler) GetUserData(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userResponse{Success: true, User: UserFromContext(r.Context())})
}
