package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Aakash768/imf-gadget-api/internal/api/httpx"
	"github.com/Aakash768/imf-gadget-api/internal/apperr"
	"github.com/Aakash768/imf-gadget-api/internal/auth"
	"github.com/Aakash768/imf-gadget-api/internal/middleware"
	"github.com/Aakash768/imf-gadget-api/internal/services"
)

type UserHandler struct {
	Svc *services.UserService
	TM  *auth.TokenManager
}

func NewUserHandler(svc *services.UserService, tm *auth.TokenManager) *UserHandler {
	return &UserHandler{Svc: svc, TM: tm}
}

// alreadyLoggedIn checks for a live session on register/login. Signature and
// expiry only; no user lookup.
func (h *UserHandler) alreadyLoggedIn(r *http.Request) bool {
	token := middleware.ExtractToken(r)
	if token == "" {
		return false
	}
	_, err := h.TM.Verify(token)
	return err == nil
}

type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	if h.alreadyLoggedIn(r) {
		httpx.WriteDomainError(w, apperr.New(apperr.AlreadyAuthenticated, "User is already logged in. Please log out first."))
		return
	}

	var req credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Svc.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		httpx.WriteDomainError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"user":    u,
	})
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.alreadyLoggedIn(r) {
		httpx.WriteDomainError(w, apperr.New(apperr.AlreadyAuthenticated, "User is already logged in. Please log out first."))
		return
	}

	var req credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, token, expiry, err := h.Svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		httpx.WriteDomainError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiry,
		HttpOnly: true,
		Secure:   true,
	})
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"message":     "User logged in successfully",
		"user":        u,
		"accessToken": token,
	})
}

// Logout clears the session cookie. The token itself stays valid until its
// natural expiry; there is no server-side invalidation.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.FromCtx(r.Context()); !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "User is not authenticated")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
	})
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "User logged out successfully",
	})
}
