// Package middleware, HTTP request pipeline'ına eklenen ara katmanları barındırır.
//
// Go'da middleware bir fonksiyondur: func(next http.Handler) http.Handler.
// Middleware kendi işini yapar (token doğrula), sonra next'i çağırır;
// hata varsa next çağrılmaz, request burada durur.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/emirsoyer/concord/handlers"
	"github.com/emirsoyer/concord/models"
	"github.com/emirsoyer/concord/pkg"
	"github.com/emirsoyer/concord/repository"
	"github.com/emirsoyer/concord/services"
)

// AuthMiddleware, JWT token doğrulama middleware'ı.
type AuthMiddleware struct {
	authService services.AuthService
	userRepo    repository.UserRepository
}

// NewAuthMiddleware, constructor.
func NewAuthMiddleware(authService services.AuthService, userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		userRepo:    userRepo,
	}
}

// Require, JWT token zorunlu kılan middleware.
// Token yoksa veya geçersizse → 401 Unauthorized.
//
// Header formatı: Authorization: Bearer <token>
func (m *AuthMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.resolveUser(r)
		if err != nil {
			pkg.Error(w, err)
			return
		}
		if user == nil {
			pkg.Detail(w, http.StatusUnauthorized, "authorization header required")
			return
		}

		ctx := context.WithValue(r.Context(), handlers.UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Optional, token VARSA doğrulayıp kullanıcıyı context'e ekler, yoksa
// anonim olarak devam eder.
//
// Sunucu dizini endpoint'i bunu kullanır: parametresiz istekler anonim
// çalışır, ama by_user / by_serverid filtreleri service katmanında
// requester ister. Bozuk veya geçersiz bir token yine 401'dir —
// "token gönderdim ama yanlıştı" sessizce anonim sayılmaz.
func (m *AuthMiddleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.resolveUser(r)
		if err != nil {
			pkg.Error(w, err)
			return
		}

		ctx := r.Context()
		if user != nil {
			ctx = context.WithValue(ctx, handlers.UserContextKey, user)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// resolveUser, Authorization header'ından kullanıcıyı çözer.
// Header yoksa (nil, nil) döner; varsa ama geçersizse error döner.
func (m *AuthMiddleware) resolveUser(r *http.Request) (*models.User, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, nil
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, fmt.Errorf("%w: invalid authorization format, use: Bearer <token>", pkg.ErrUnauthorized)
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	claims, err := m.authService.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, err
	}

	// Token geçerli ama kullanıcı silinmiş olabilir — DB'den getir
	u, err := m.userRepo.GetByID(r.Context(), claims.UserID)
	if err != nil {
		return nil, pkg.ErrUnauthorized
	}

	// Password hash'i context'te taşınmamalı
	u.PasswordHash = ""
	return u, nil
}
