package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dat-archive/internal/application/auth"
	"github.com/dat-archive/internal/application/session"
	"github.com/dat-archive/internal/domain"
	"github.com/dat-archive/internal/pkg/validate"
	"github.com/dat-archive/internal/transport/http/middleware"
)

// CookieOptions controls the session cookie written on login.
type CookieOptions struct {
	AllowedDomain string
	Secure        bool
	MaxAge        time.Duration
}

// AuthHandler handles the one-time-code login endpoints.
type AuthHandler struct {
	auth          auth.Service
	sessions      session.Service
	allowedDomain string
	secureCookie  bool
	maxAge        int
}

func NewAuthHandler(authSvc auth.Service, sessions session.Service, opts CookieOptions) *AuthHandler {
	return &AuthHandler{
		auth:          authSvc,
		sessions:      sessions,
		allowedDomain: strings.TrimPrefix(opts.AllowedDomain, "@"),
		secureCookie:  opts.Secure,
		maxAge:        int(opts.MaxAge / time.Second),
	}
}

func (h *AuthHandler) SendCode(w http.ResponseWriter, r *http.Request) {
	var req auth.SendCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = auth.NormalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		if validate.Failed(err, "email", "required") {
			writeError(w, http.StatusBadRequest, "Email is required")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	err := h.auth.RequestCode(r.Context(), req.Email)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "Verification code sent to your email"})
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "Email must be from @"+h.allowedDomain+" domain")
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, "Email is required")
	case errors.Is(err, domain.ErrDelivery):
		writeError(w, http.StatusInternalServerError, "Failed to send verification code. Please contact IT support.")
	default:
		writeInternal(w, r, "Failed to send verification code", err)
	}
}

func (h *AuthHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req auth.VerifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = auth.NormalizeEmail(req.Email)
	req.Code = strings.TrimSpace(req.Code)
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Email and code are required")
		return
	}

	ok, err := h.auth.VerifyCode(r.Context(), req.Email, req.Code)
	if err != nil {
		if errors.Is(err, domain.ErrBadRequest) {
			writeError(w, http.StatusBadRequest, "Email and code are required")
			return
		}
		writeInternal(w, r, "Verification failed", err)
		return
	}
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid or expired verification code")
		return
	}

	identity := domain.NewIdentity(req.Email)
	issued, err := h.sessions.Issue(identity)
	if err != nil {
		writeInternal(w, r, "Verification failed", err)
		return
	}
	h.setSessionCookie(w, issued.Token)
	writeJSON(w, http.StatusOK, AuthEnvelope{Success: true, User: &identity})
}

// Logout drops the client's cookie. The token itself stays valid until it expires.
func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "logged out"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, AuthEnvelope{User: identity})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   h.maxAge,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
