package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prepmate/auth-service/internal/service"
	"github.com/prepmate/auth-service/internal/token"
	"github.com/prepmate/auth-service/internal/transport/http/middleware"
	"github.com/prepmate/auth-service/pkg/validator"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateRegister(input.Email, input.Username, input.Password); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	user, err := h.authService.Register(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateEmail):
			writeError(w, http.StatusBadRequest, "DUPLICATE_EMAIL", "Email already registered")
		case errors.Is(err, service.ErrDuplicateUsername):
			writeError(w, http.StatusBadRequest, "DUPLICATE_USERNAME", "Username already registered")
		case errors.Is(err, service.ErrTermsNotAccepted):
			writeError(w, http.StatusBadRequest, "TERMS_NOT_ACCEPTED", "You must agree to the terms of use and privacy policy")
		default:
			h.logger.Error("register failed", zap.Error(err))
			writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input loginRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateLogin(input.Identifier, input.Password); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	resp, err := h.authService.Login(r.Context(), input.Identifier, input.Password)
	if err != nil {
		h.writeLoginError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Token is the form-encoded OAuth2 password-grant entry point. The
// username field holds an email or a username.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_FORM", "Invalid form body")
		return
	}

	username := r.PostFormValue("username")
	plaintext := r.PostFormValue("password")
	if errs := validator.ValidateLogin(username, plaintext); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	resp, err := h.authService.LoginWithForm(r.Context(), username, plaintext)
	if err != nil {
		h.writeLoginError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) writeLoginError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusBadRequest, "INVALID_CREDENTIALS", "Incorrect email/username or password")
	case errors.Is(err, service.ErrEmailNotVerified):
		writeError(w, http.StatusBadRequest, "EMAIL_NOT_VERIFIED", "Email not verified")
	default:
		h.logger.Error("login failed", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Something went wrong")
	}
}

type sendVerificationRequest struct {
	Email string `json:"email"`
}

func (h *AuthHandler) SendVerificationEmail(w http.ResponseWriter, r *http.Request) {
	var input sendVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateEmail(input.Email); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	err := h.authService.RequestVerificationEmail(r.Context(), input.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
		case errors.Is(err, service.ErrMailDelivery):
			h.logger.Error("verification email delivery failed", zap.Error(err))
			writeError(w, http.StatusBadGateway, "MAIL_DELIVERY_ERROR", "Verification email could not be delivered")
		default:
			h.logger.Error("send verification email failed", zap.Error(err))
			writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Verification email sent successfully"})
}

func (h *AuthHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	tok, ok := middleware.BearerToken(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing or malformed Authorization header")
		return
	}

	user, err := h.authService.ResolveIdentity(r.Context(), tok)
	if err != nil {
		switch {
		case errors.Is(err, token.ErrExpiredToken):
			writeError(w, http.StatusUnauthorized, "EXPIRED_TOKEN", "Token has expired")
		case errors.Is(err, token.ErrInvalidToken):
			writeError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token")
		case errors.Is(err, service.ErrUserNotFound):
			// A validly signed token for a since-deleted user is an
			// authentication failure, not a lookup miss.
			writeError(w, http.StatusUnauthorized, "USER_NOT_FOUND", "User not found")
		default:
			h.logger.Error("verify token failed", zap.Error(err))
			writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, user)
}
