// Package main, concord backend uygulamasının giriş noktasıdır.
//
// Bu dosyanın görevi — Dependency Injection "wire-up":
//  1. Config'i yükle
//  2. Database'i başlat (embedded migration'lar ile)
//  3. Repository'leri oluştur
//  4. WebSocket Hub'ı başlat
//  5. Service'leri oluştur
//  6. Handler'ları ve middleware'ları oluştur
//  7. HTTP router'ı kur, CORS yapılandır
//  8. HTTP Server'ı başlat, graceful shutdown
//
// Global değişken YOK — her şey burada oluşturulup birbirine bağlanır.
package main

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/emirsoyer/concord/config"
	"github.com/emirsoyer/concord/database"
	"github.com/emirsoyer/concord/handlers"
	"github.com/emirsoyer/concord/middleware"
	"github.com/emirsoyer/concord/models"
	"github.com/emirsoyer/concord/pkg/ratelimit"
	"github.com/emirsoyer/concord/repository"
	"github.com/emirsoyer/concord/services"
	"github.com/emirsoyer/concord/ws"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("[main] concord server starting...")

	// ─── 1. Config ───
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] failed to load config: %v", err)
	}
	log.Printf("[main] config loaded (port=%d)", cfg.Server.Port)

	// ─── 2. Database ───
	migrationsFS, err := fs.Sub(database.EmbeddedMigrations, "migrations")
	if err != nil {
		log.Fatalf("[main] failed to access embedded migrations: %v", err)
	}

	db, err := database.New(cfg.Database.Path, migrationsFS)
	if err != nil {
		log.Fatalf("[main] failed to initialize database: %v", err)
	}
	defer db.Close()

	// ─── 3. Repository Layer ───
	userRepo := repository.NewSQLiteUserRepo(db.Conn)
	sessionRepo := repository.NewSQLiteSessionRepo(db.Conn)
	categoryRepo := repository.NewSQLiteCategoryRepo(db.Conn)
	serverRepo := repository.NewSQLiteServerRepo(db.Conn)

	// ─── 4. WebSocket Hub ───
	//
	// Hub tüm WS bağlantılarını yönetir; `go hub.Run()` event loop'unu
	// ayrı goroutine'de başlatır. Service'ler Hub'a EventPublisher
	// interface'i üzerinden erişir.
	hub := ws.NewHub()

	// Presence callback'leri — kullanıcının ilk bağlantısında/son
	// kopuşunda DB status güncellenir ve herkese broadcast edilir.
	// Hub service katmanını bilmez; wire-up noktası main.go'dur.
	hub.OnUserFirstConnect(func(userID int64) {
		if err := userRepo.UpdateStatus(context.Background(), userID, models.UserStatusOnline); err != nil {
			log.Printf("[presence] failed to set online for user %d: %v", userID, err)
			return
		}
		hub.BroadcastToAll(ws.Event{
			Op:   ws.OpPresence,
			Data: ws.PresenceData{UserID: userID, Status: string(models.UserStatusOnline)},
		})
	})

	hub.OnUserFullyDisconnected(func(userID int64) {
		if err := userRepo.UpdateStatus(context.Background(), userID, models.UserStatusOffline); err != nil {
			log.Printf("[presence] failed to set offline for user %d: %v", userID, err)
			return
		}
		hub.BroadcastToAll(ws.Event{
			Op:   ws.OpPresence,
			Data: ws.PresenceData{UserID: userID, Status: string(models.UserStatusOffline)},
		})
	})

	go hub.Run()

	// ─── 5. Service Layer ───
	authService := services.NewAuthService(
		userRepo,
		sessionRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	serverService := services.NewServerService(serverRepo, categoryRepo, userRepo, hub)
	categoryService := services.NewCategoryService(categoryRepo)

	// Süresi dolmuş session'ları periyodik temizle; shutdown'da durdurulur
	cleanupDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := sessionRepo.DeleteExpired(context.Background()); err != nil {
					log.Printf("[main] session cleanup failed: %v", err)
				}
			case <-cleanupDone:
				return
			}
		}
	}()

	// ─── 6. Handler + Middleware Layer ───
	loginLimiter := ratelimit.NewLoginRateLimiter(
		cfg.RateLimit.LoginMaxAttempts,
		time.Duration(cfg.RateLimit.LoginWindowMins)*time.Minute,
	)

	authHandler := handlers.NewAuthHandler(authService, loginLimiter)
	serverHandler := handlers.NewServerHandler(serverService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	wsHandler := ws.NewHandler(hub, authService)

	authMw := middleware.NewAuthMiddleware(authService, userRepo)

	// ─── 7. HTTP Router ───
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","service":"concord"}`)
	})

	// Auth — public endpoint'ler
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/refresh", authHandler.Refresh)
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)

	mux.Handle("GET /api/users/me", authMw.Require(http.HandlerFunc(authHandler.Me)))

	// Servers — List anonim erişilebilir (Optional): by_user / by_serverid
	// filtreleri login'i service katmanında ister, diğerleri istemez.
	mux.Handle("GET /api/servers", authMw.Optional(http.HandlerFunc(serverHandler.List)))
	mux.Handle("POST /api/servers", authMw.Require(http.HandlerFunc(serverHandler.Create)))
	mux.Handle("GET /api/servers/{id}", authMw.Optional(http.HandlerFunc(serverHandler.Get)))
	mux.Handle("POST /api/servers/{id}/join", authMw.Require(http.HandlerFunc(serverHandler.Join)))
	mux.Handle("DELETE /api/servers/{id}/leave", authMw.Require(http.HandlerFunc(serverHandler.Leave)))

	// Categories — listeleme anonim, oluşturma login ister
	mux.HandleFunc("GET /api/categories", categoryHandler.List)
	mux.Handle("POST /api/categories", authMw.Require(http.HandlerFunc(categoryHandler.Create)))

	// WebSocket — token query parameter ile authenticate edilir
	mux.HandleFunc("GET /ws", wsHandler.HandleConnection)

	// ─── CORS ───
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := corsHandler.Handler(mux)

	// ─── 8. HTTP Server + Graceful Shutdown ───
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("[main] server listening on %s", cfg.Server.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[main] server error: %v", err)
		}
	}()

	<-done
	log.Println("[main] shutting down...")

	// Önce WS bağlantıları, sonra HTTP server — mevcut request'ler
	// 5sn timeout ile bitirilir.
	hub.Shutdown()
	loginLimiter.Stop()
	close(cleanupDone)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("[main] forced shutdown: %v", err)
	}

	log.Println("[main] server stopped gracefully")
}
