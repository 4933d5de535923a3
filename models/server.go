// Package models — Server domain modeli ve sunucu dizini filtre tipleri.
package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Server, dizindeki bir sunucuyu temsil eder.
// DB'deki "servers" tablosunun Go karşılığıdır.
//
// Category, categories tablosundan join ile doldurulan kategori adıdır.
// NumMembers sadece with_num_members=true istendiğinde set edilir —
// pointer + omitempty sayesinde istenmediğinde JSON'da hiç görünmez.
type Server struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	OwnerID     int64     `json:"owner_id"`
	CategoryID  *int64    `json:"category_id"`
	Category    *string   `json:"category"`
	NumMembers  *int64    `json:"num_members,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ServerMember, kullanıcı ↔ sunucu üyelik ilişkisini temsil eder.
// DB'deki "server_members" tablosunun Go karşılığıdır.
type ServerMember struct {
	ServerID int64     `json:"server_id"`
	UserID   int64     `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}

// ServerListQuery, listeleme endpoint'inin HAM query parametreleri.
// Handler query string'i olduğu gibi buraya aktarır; parse ve sıralı
// pipeline kontrolü service katmanında yapılır — parse hataları da
// pipeline'daki adım sırasına göre üretilmelidir.
type ServerListQuery struct {
	Category       string
	Qty            string
	ByUser         string
	ByServerID     string
	WithNumMembers string
}

// ServerFilter, tek seferde uygulanan immutable filtre değeridir.
// Service, ServerListQuery'den local scope'ta bu değeri üretir ve
// repository tek bir SQL sorgusuna derler. Request'ler arası paylaşılan
// state yoktur.
type ServerFilter struct {
	CategoryName   *string // kategori adına exact match
	MemberID       *int64  // bu kullanıcının üye olduğu sunucular
	WithNumMembers bool    // num_members annotation'ı ekle
	Limit          *int    // ilk N kayıt (varsayılan sıra: id ASC)
}

// CreateServerRequest, sunucu oluşturma isteği.
type CreateServerRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CategoryID  *int64 `json:"category_id"`
}

// Validate, CreateServerRequest kontrolü.
func (r *CreateServerRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	nameLen := utf8.RuneCountInString(r.Name)
	if nameLen < 1 || nameLen > 100 {
		return fmt.Errorf("server name must be between 1 and 100 characters")
	}
	if utf8.RuneCountInString(r.Description) > 250 {
		return fmt.Errorf("server description must be at most 250 characters")
	}
	return nil
}
