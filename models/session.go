package models

import "time"

// Session, bir refresh token oturumunu temsil eder.
//
// Access token kısa ömürlüdür, refresh token uzun. Refresh token'ları DB'de
// tutarak çalınan token iptal edilebilir ve logout'ta sadece ilgili oturum
// silinebilir.
type Session struct {
	ID           string    `json:"id"` // UUID
	UserID       int64     `json:"user_id"`
	RefreshToken string    `json:"-"` // API'ye gönderilmez
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}
