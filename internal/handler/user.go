package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go-arsip/internal/pkg/auth"
	"go-arsip/internal/pkg/httputils"
	"go-arsip/internal/service"

	"github.com/gorilla/mux"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/register", h.registerUser).Methods("POST", "OPTIONS")
	router.HandleFunc("/login", h.loginUser).Methods("POST", "OPTIONS")
}

type TokenResponse struct {
	Token string `json:"token"`
}

type RegisterRequest struct {
	Email           string `json:"email"`
	Name            string `json:"name"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// @Summary Register
// @Description Register an account
// @ID register
// @Accept json
// @Produce json
// @Success 201 {object} TokenResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Param registerData body RegisterRequest true "Register data"
// @Router /register [post]
func (h *UserHandler) registerUser(w http.ResponseWriter, r *http.Request) {
	var request RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	r.Body.Close()

	if request.Email == "" || request.Password == "" {
		httputils.ResponseError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	if request.Password != request.ConfirmPassword {
		httputils.ResponseError(w, http.StatusBadRequest, "Passwords do not match")
		return
	}

	user, err := h.userService.Register(request.Email, request.Name, request.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			httputils.ResponseError(w, http.StatusConflict, "Email is already registered")
			return
		}
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	httputils.ResponseJSON(w, http.StatusCreated, TokenResponse{
		Token: token,
	})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// @Summary Login
// @Description Log into an account
// @ID login
// @Accept json
// @Produce json
// @Success 201 {object} TokenResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Param loginData body LoginRequest true "Login data"
// @Router /login [post]
func (h *UserHandler) loginUser(w http.ResponseWriter, r *http.Request) {
	var request LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	r.Body.Close()

	if request.Email == "" || request.Password == "" {
		httputils.ResponseError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.userService.Authenticate(request.Email, request.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			httputils.ResponseError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to authenticate")
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	httputils.ResponseJSON(w, http.StatusCreated, TokenResponse{
		Token: token,
	})
}
