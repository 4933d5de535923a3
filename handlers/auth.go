// Package handlers, HTTP endpoint'lerini barındırır.
//
// Thin handler prensibi: Parse → Service → Response.
// İş mantığı service katmanındadır; handler sadece request'i çözer,
// service'i çağırır ve sonucu pkg helper'larıyla yazar.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/emirsoyer/concord/models"
	"github.com/emirsoyer/concord/pkg"
	"github.com/emirsoyer/concord/pkg/ratelimit"
	"github.com/emirsoyer/concord/services"
)

// contextKey, context.WithValue çakışmalarını önleyen özel tip.
type contextKey string

// UserContextKey, auth middleware'ının context'e eklediği *models.User'ın anahtarı.
const UserContextKey contextKey = "user"

// UserFromContext, request context'indeki kullanıcıyı döner.
// Auth middleware'ından geçmemiş (anonim) isteklerde nil döner.
func UserFromContext(r *http.Request) *models.User {
	user, _ := r.Context().Value(UserContextKey).(*models.User)
	return user
}

// AuthHandler, kayıt/giriş/token endpoint'lerini yönetir.
type AuthHandler struct {
	authService services.AuthService
	limiter     *ratelimit.LoginRateLimiter
}

// NewAuthHandler, constructor.
func NewAuthHandler(authService services.AuthService, limiter *ratelimit.LoginRateLimiter) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		limiter:     limiter,
	}
}

// Register godoc
// POST /api/auth/register
// Body: { "username": "...", "password": "...", "display_name": "..." }
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r) {
		return
	}

	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.Detail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tokens, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	h.limiter.Reset(ratelimit.ExtractIP(r))
	pkg.JSON(w, http.StatusCreated, tokens)
}

// Login godoc
// POST /api/auth/login
// Body: { "username": "...", "password": "..." }
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r) {
		return
	}

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.Detail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tokens, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	// Başarılı giriş — bu IP'nin deneme sayacı sıfırlanır
	h.limiter.Reset(ratelimit.ExtractIP(r))
	pkg.JSON(w, http.StatusOK, tokens)
}

// refreshRequest, refresh/logout isteklerinin ortak gövdesi.
type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh godoc
// POST /api/auth/refresh
// Body: { "refresh_token": "..." }
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.Detail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tokens, err := h.authService.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, tokens)
}

// Logout godoc
// POST /api/auth/logout
// Body: { "refresh_token": "..." }
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.Detail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.authService.Logout(r.Context(), req.RefreshToken); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me godoc
// GET /api/users/me
// Context'teki kullanıcıyı döner (auth middleware zorunlu).
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r)
	if user == nil {
		pkg.Detail(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	pkg.JSON(w, http.StatusOK, user)
}

// allow, IP bazlı rate limit kontrolü yapar; limit aşıldıysa 429 yazar.
func (h *AuthHandler) allow(w http.ResponseWriter, r *http.Request) bool {
	ip := ratelimit.ExtractIP(r)
	if h.limiter.Allow(ip) {
		return true
	}

	retryAfter := h.limiter.RetryAfterSeconds(ip)
	w.Header().Set("Retry-After", ratelimit.FormatRetrySeconds(retryAfter))
	pkg.Detail(w, http.StatusTooManyRequests, "too many attempts, try again later")
	return false
}
